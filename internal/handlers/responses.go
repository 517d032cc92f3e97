package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/mohamederrajy/cryptos-backend/internal/models"
)

// Response DTOs shared between handlers. JSON amounts are plain numbers,
// decimals are converted at the boundary only.

type walletResponse struct {
	TotalBalance    map[string]float64 `json:"totalBalance"`
	AssetBalance    map[string]float64 `json:"assetBalance"`
	ExchangeBalance map[string]float64 `json:"exchangeBalance"`
}

func toWalletResponse(w models.Wallet) walletResponse {
	resp := walletResponse{
		TotalBalance:    make(map[string]float64, len(w.Balances)),
		AssetBalance:    make(map[string]float64, len(w.Balances)),
		ExchangeBalance: make(map[string]float64, len(w.Balances)),
	}

	for code, b := range w.Balances {
		total, _ := b.Total.Float64()
		asset, _ := b.Asset.Float64()
		exchange, _ := b.Exchange.Float64()

		resp.TotalBalance[code] = total
		resp.AssetBalance[code] = asset
		resp.ExchangeBalance[code] = exchange
	}

	return resp
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Status:    u.Status,
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt,
	}
}

type depositResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"userId"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	TxHash         string     `json:"txHash"`
	DepositAddress string     `json:"depositAddress"`
	CreatedAt      time.Time  `json:"createdAt"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy     *uuid.UUID `json:"approvedBy,omitempty"`
}

func toDepositResponse(d models.Deposit) depositResponse {
	amount, _ := d.Amount.Float64()

	return depositResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		Amount:         amount,
		Currency:       d.Currency,
		Status:         d.Status,
		TxHash:         d.TxHash,
		DepositAddress: d.DepositAddress,
		CreatedAt:      d.CreatedAt,
		ApprovedAt:     d.ApprovedAt,
		ApprovedBy:     d.ApprovedBy,
	}
}

func toDepositResponses(deposits []models.Deposit) []depositResponse {
	resp := make([]depositResponse, 0, len(deposits))
	for _, d := range deposits {
		resp = append(resp, toDepositResponse(d))
	}

	return resp
}

type withdrawalResponse struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"userId"`
	Amount            float64    `json:"amount"`
	NetworkFee        float64    `json:"networkFee"`
	TotalAmount       float64    `json:"totalAmount"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	WithdrawalAddress string     `json:"withdrawalAddress"`
	CreatedAt         time.Time  `json:"createdAt"`
	ApprovedAt        *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy        *uuid.UUID `json:"approvedBy,omitempty"`
	Reason            *string    `json:"reason,omitempty"`
}

func toWithdrawalResponse(w models.Withdrawal) withdrawalResponse {
	amount, _ := w.Amount.Float64()
	fee, _ := w.NetworkFee.Float64()
	total, _ := w.TotalAmount().Float64()

	return withdrawalResponse{
		ID:                w.ID,
		UserID:            w.UserID,
		Amount:            amount,
		NetworkFee:        fee,
		TotalAmount:       total,
		Currency:          w.Currency,
		Status:            w.Status,
		WithdrawalAddress: w.WithdrawalAddress,
		CreatedAt:         w.CreatedAt,
		ApprovedAt:        w.ApprovedAt,
		ApprovedBy:        w.ApprovedBy,
		Reason:            w.Reason,
	}
}

func toWithdrawalResponses(withdrawals []models.Withdrawal) []withdrawalResponse {
	resp := make([]withdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		resp = append(resp, toWithdrawalResponse(w))
	}

	return resp
}
