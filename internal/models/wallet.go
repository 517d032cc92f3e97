package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is one wallet row: the three ledgers of a single user in a single
// currency.
//
// Total is everything ever credited net of approved withdrawals. Asset is the
// spendable part: pending withdrawals reserve their amount plus fee out of it
// at request time, so Asset <= Total always holds. Exchange is carried for
// the trading ledger and is not mutated by any workflow here.
type Balance struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Currency string
	Total    decimal.Decimal
	Asset    decimal.Decimal
	Exchange decimal.Decimal
}

// Wallet is all balance rows of one user keyed by currency.
type Wallet struct {
	UserID   uuid.UUID
	Balances map[string]Balance
}
