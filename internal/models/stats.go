package models

import "github.com/shopspring/decimal"

// RequestStats is a per-currency rollup over deposits or withdrawals.
type RequestStats struct {
	Currency      string
	PendingCount  int64
	PendingSum    decimal.Decimal
	ApprovedCount int64
	ApprovedSum   decimal.Decimal
}

// Statistics is the admin dashboard aggregate. Sums are advisory reads, not
// correctness-critical, and are zero-valued for an empty database.
type Statistics struct {
	TotalUsers  int64
	TotalAdmins int64

	// Sum of total balances across all wallets, keyed by currency
	TotalBalance map[string]decimal.Decimal

	Deposits    map[string]RequestStats
	Withdrawals map[string]RequestStats
}
