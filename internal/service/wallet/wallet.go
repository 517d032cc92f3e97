// Package wallet exposes read access to the account ledger. Mutations happen
// only through the deposit and withdrawal workflows.
package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohamederrajy/cryptos-backend/internal/currency"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
)

type WalletService struct {
	storage    repository.Storage
	currencies *currency.Registry
}

func NewService(storage repository.Storage, currencies *currency.Registry) *WalletService {
	return &WalletService{
		storage:    storage,
		currencies: currencies,
	}
}

// GetWallet returns the user's balances keyed by currency. Every supported
// currency is present, zero-valued when the user has no row yet (accounts
// created before a currency was enabled).
func (s *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	rows, err := s.storage.Wallet().GetWallet(ctx, userID)
	if err != nil {
		return models.Wallet{}, err
	}

	wallet := models.Wallet{
		UserID:   userID,
		Balances: make(map[string]models.Balance, len(s.currencies.Codes())),
	}

	for _, code := range s.currencies.Codes() {
		wallet.Balances[code] = models.Balance{
			UserID:   userID,
			Currency: code,
			Total:    decimal.Zero,
			Asset:    decimal.Zero,
			Exchange: decimal.Zero,
		}
	}

	for _, row := range rows {
		wallet.Balances[row.Currency] = row
	}

	return wallet, nil
}
