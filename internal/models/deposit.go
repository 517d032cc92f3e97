package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

type Deposit struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	UserID         uuid.UUID
	Amount         decimal.Decimal
	Currency       string
	Status         string
	TxHash         string
	DepositAddress string
	ApprovedAt     *time.Time
	ApprovedBy     *uuid.UUID
}
