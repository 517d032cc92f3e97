// Package withdrawal implements the withdrawal request workflow.
//
// Reservation happens at request time, not at approval: amount plus network
// fee leave the asset balance before the request is even visible to admins,
// so the same funds can't back two pending withdrawals. Approval settles the
// total balance; rejection returns the reservation.
package withdrawal

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

type WithdrawalService struct {
	storage    repository.Storage
	currencies *currency.Registry
}

func NewService(storage repository.Storage, currencies *currency.Registry) *WithdrawalService {
	return &WithdrawalService{
		storage:    storage,
		currencies: currencies,
	}
}

// Request reserves amount+fee from the asset balance and creates the pending
// request, atomically. The balance row is read FOR UPDATE so two requests on
// the same account serialize and can't both pass the check on a stale value.
//
// Fails with *apperrors.InsufficientFundsError when asset can't cover the
// reservation; balances stay untouched.
func (s *WithdrawalService) Request(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currencyCode string, address string) (models.Withdrawal, error) {
	code, err := s.currencies.Normalize(currencyCode)
	if err != nil {
		return models.Withdrawal{}, err
	}

	if !amount.IsPositive() {
		return models.Withdrawal{}, fmt.Errorf("withdrawal amount must be positive, got %s", amount)
	}

	fee := s.currencies.NetworkFee(code)
	required := amount.Add(fee)

	var created models.Withdrawal

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		balance, err := st.Wallet().GetBalance(ctx, userID, code, true)
		if err != nil {
			return err
		}

		if balance.Asset.LessThan(required) {
			return &apperrors.InsufficientFundsError{
				Required:  required,
				Available: balance.Asset,
			}
		}

		if _, err := st.Wallet().Reserve(ctx, userID, code, required); err != nil {
			return fmt.Errorf("can't reserve balance. Err: %w", err)
		}

		created, err = st.Withdrawal().Create(ctx, models.Withdrawal{
			ID:                uuid.New(),
			CreatedAt:         time.Now(),
			UserID:            userID,
			Amount:            amount,
			Currency:          code,
			Status:            models.RequestStatusPending,
			WithdrawalAddress: address,
			NetworkFee:        fee,
		})

		return err
	})
	if err != nil {
		return models.Withdrawal{}, err
	}

	return created, nil
}

// ListByUser returns the user's withdrawals, newest first
func (s *WithdrawalService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Withdrawal, error) {
	return s.storage.Withdrawal().ListByUser(ctx, userID)
}

// ListPending returns all pending withdrawals for admin review
func (s *WithdrawalService) ListPending(ctx context.Context) ([]models.Withdrawal, error) {
	return s.storage.Withdrawal().ListPending(ctx)
}

// Decide transitions a pending withdrawal to approved or rejected.
//
// Approved: total balance drops by the reserved amount+fee, asset stays as
// reserved. Rejected: the exact reserved amount+fee returns to the asset
// balance, fee taken from the request row so later fee-schedule changes don't
// skew the release. Ledger mutation and decision write commit together.
// A repeated decide fails with apperrors.ErrAlreadyProcessed.
func (s *WithdrawalService) Decide(ctx context.Context, adminID uuid.UUID, withdrawalID uuid.UUID, status string, reason *string) (models.Withdrawal, error) {
	if status != models.RequestStatusApproved && status != models.RequestStatusRejected {
		return models.Withdrawal{}, fmt.Errorf("invalid decision status %q", status)
	}

	var decided models.Withdrawal

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		withdrawal, err := st.Withdrawal().GetByID(ctx, withdrawalID, true)
		if err != nil {
			return err
		}

		if withdrawal.Status != models.RequestStatusPending {
			return apperrors.ErrAlreadyProcessed
		}

		switch status {
		case models.RequestStatusApproved:
			_, err = st.Wallet().FinalizeWithdrawal(ctx, withdrawal.UserID, withdrawal.Currency, withdrawal.TotalAmount())
		case models.RequestStatusRejected:
			_, err = st.Wallet().ReleaseReservation(ctx, withdrawal.UserID, withdrawal.Currency, withdrawal.TotalAmount())
		}
		if err != nil {
			return fmt.Errorf("can't settle balance. Err: %w", err)
		}

		decided, err = st.Withdrawal().SetDecision(ctx, withdrawalID, repository.Decision{
			Status:    status,
			DecidedAt: time.Now(),
			AdminID:   adminID,
			Reason:    reason,
		})

		return err
	})
	if err != nil {
		return models.Withdrawal{}, err
	}

	return decided, nil
}
