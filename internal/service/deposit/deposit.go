// Package deposit implements the deposit request workflow: a user submits a
// pending request, an admin approves or rejects it. Approval credits the
// ledger in the same transaction that flips the status, so a crash can't
// leave credited funds next to a pending request.
package deposit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/currency"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
)

type DepositService struct {
	storage    repository.Storage
	currencies *currency.Registry
	addresses  AddressProvider
}

func NewService(storage repository.Storage, currencies *currency.Registry, addresses AddressProvider) *DepositService {
	if addresses == nil {
		addresses = placeholderProvider{}
	}

	return &DepositService{
		storage:    storage,
		currencies: currencies,
		addresses:  addresses,
	}
}

// Submit creates a pending deposit request and returns it together with the
// human-readable payment instructions. No ledger effect until approval.
func (s *DepositService) Submit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currencyCode string) (models.Deposit, string, error) {
	code, err := s.currencies.Normalize(currencyCode)
	if err != nil {
		return models.Deposit{}, "", err
	}

	if !amount.IsPositive() {
		return models.Deposit{}, "", fmt.Errorf("deposit amount must be positive, got %s", amount)
	}

	deposit, err := s.storage.Deposit().Create(ctx, models.Deposit{
		ID:             uuid.New(),
		CreatedAt:      time.Now(),
		UserID:         userID,
		Amount:         amount,
		Currency:       code,
		Status:         models.RequestStatusPending,
		TxHash:         s.addresses.TxHash(),
		DepositAddress: s.addresses.DepositAddress(),
	})
	if err != nil {
		return deposit, "", err
	}

	instructions := fmt.Sprintf("Please send %s %s to the following address: %s", amount, code, deposit.DepositAddress)

	return deposit, instructions, nil
}

// ListByUser returns the user's deposits, newest first
func (s *DepositService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Deposit, error) {
	return s.storage.Deposit().ListByUser(ctx, userID)
}

// ListPending returns all pending deposits for admin review
func (s *DepositService) ListPending(ctx context.Context) ([]models.Deposit, error) {
	return s.storage.Deposit().ListPending(ctx)
}

// Decide transitions a pending deposit to approved or rejected.
//
// The request row is locked for the transaction so no concurrent decide can
// observe it pending at the same time. On approval the ledger credit and
// decision write commit together. A second call on the same deposit fails
// with apperrors.ErrAlreadyProcessed and has no effect.
func (s *DepositService) Decide(ctx context.Context, adminID uuid.UUID, depositID uuid.UUID, status string) (models.Deposit, error) {
	if status != models.RequestStatusApproved && status != models.RequestStatusRejected {
		return models.Deposit{}, fmt.Errorf("invalid decision status %q", status)
	}

	var decided models.Deposit

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		deposit, err := st.Deposit().GetByID(ctx, depositID, true)
		if err != nil {
			return err
		}

		if deposit.Status != models.RequestStatusPending {
			return apperrors.ErrAlreadyProcessed
		}

		if status == models.RequestStatusApproved {
			if _, err := st.Wallet().Credit(ctx, deposit.UserID, deposit.Currency, deposit.Amount); err != nil {
				return fmt.Errorf("can't credit balance. Err: %w", err)
			}
		}

		decided, err = st.Deposit().SetDecision(ctx, depositID, repository.Decision{
			Status:    status,
			DecidedAt: time.Now(),
			AdminID:   adminID,
		})

		return err
	})
	if err != nil {
		return models.Deposit{}, err
	}

	return decided, nil
}
