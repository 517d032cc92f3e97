package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already in use")

	ErrDepositNotFound    = errors.New("deposit not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")

	// Decisions are terminal: a deposit or withdrawal may leave 'pending'
	// exactly once. A retried decide must fail with this error and never
	// credit or debit a second time.
	ErrAlreadyProcessed = errors.New("request already processed")

	ErrCurrencyNotSupported = errors.New("currency not supported")

	ErrInsufficientFunds = errors.New("insufficient balance")
)

// InsufficientFundsError reports how much a withdrawal needed (amount plus
// network fee) against what the asset balance could cover.
// Matches ErrInsufficientFunds with errors.Is.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s", e.Required, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
