package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Withdrawal struct {
	ID                uuid.UUID
	CreatedAt         time.Time
	UserID            uuid.UUID
	Amount            decimal.Decimal
	Currency          string
	Status            string
	WithdrawalAddress string
	NetworkFee        decimal.Decimal
	ApprovedAt        *time.Time
	ApprovedBy        *uuid.UUID
	Reason            *string
}

// TotalAmount is what the request reserves from the asset balance and, on
// approval, removes from the total balance.
func (w Withdrawal) TotalAmount() decimal.Decimal {
	return w.Amount.Add(w.NetworkFee)
}
