// Package currency holds the configurable set of supported currency codes and
// the per-currency withdrawal fee schedule.
//
// The set is deployment configuration, not code: a single-currency USDT
// deployment and a multi-currency one differ only in what they pass to New.
package currency

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
)

// Default network fees for known chains. Unknown currencies withdraw free of
// charge, matching the historical behavior for fiat codes.
var defaultFees = map[string]decimal.Decimal{
	"BTC":  decimal.RequireFromString("0.00011"),
	"USDT": decimal.NewFromInt(1),
}

type Registry struct {
	codes map[string]struct{}
	fees  map[string]decimal.Decimal
}

// New builds a registry from the supported currency codes. Codes are
// normalized to upper case.
func New(codes []string) *Registry {
	r := &Registry{
		codes: make(map[string]struct{}, len(codes)),
		fees:  defaultFees,
	}

	for _, code := range codes {
		r.codes[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}

	return r
}

// WithFees overrides the fee schedule, for tests and custom deployments
func (r *Registry) WithFees(fees map[string]decimal.Decimal) *Registry {
	r.fees = fees
	return r
}

// Normalize upper-cases the code and checks membership.
// Returns apperrors.ErrCurrencyNotSupported for unknown codes.
func (r *Registry) Normalize(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := r.codes[normalized]; !ok {
		return "", apperrors.ErrCurrencyNotSupported
	}

	return normalized, nil
}

// Codes returns the supported codes sorted alphabetically
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.codes))
	for code := range r.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return codes
}

// NetworkFee returns the withdrawal surcharge for the currency, zero when the
// schedule has no entry.
func (r *Registry) NetworkFee(code string) decimal.Decimal {
	if fee, ok := r.fees[strings.ToUpper(code)]; ok {
		return fee
	}

	return decimal.Zero
}
