package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
)

type WithdrawalRepo struct {
	DB DBTX
}

const createWithdrawal = `-- name: CreateWithdrawal
INSERT INTO withdrawals (id, created_at, user_id, amount, currency, status, withdrawal_address, network_fee)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, user_id, amount, currency, status, withdrawal_address, network_fee, approved_at, approved_by, reason
`

func (r *WithdrawalRepo) Create(ctx context.Context, w models.Withdrawal) (models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, createWithdrawal, w.ID, w.CreatedAt, w.UserID, w.Amount, w.Currency, w.Status, w.WithdrawalAddress, w.NetworkFee)
	withdrawal, err := pgx.CollectOneRow(rows, rowToWithdrawal)
	if err != nil {
		return withdrawal, fmt.Errorf("db error: %w", err)
	}

	return withdrawal, nil
}

const getWithdrawalByID = `-- name: GetWithdrawalByID
SELECT id, created_at, user_id, amount, currency, status, withdrawal_address, network_fee, approved_at, approved_by, reason FROM withdrawals
WHERE id = $1
`

func (r *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Withdrawal, error) {
	query := getWithdrawalByID
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, id)
	withdrawal, err := pgx.CollectOneRow(rows, rowToWithdrawal)

	switch {
	case err == nil:
		return withdrawal, nil
	case errors.Is(err, pgx.ErrNoRows):
		return withdrawal, apperrors.ErrWithdrawalNotFound
	default:
		return withdrawal, fmt.Errorf("db error: %w", err)
	}
}

const listWithdrawalsByUser = `-- name: ListWithdrawalsByUser
SELECT id, created_at, user_id, amount, currency, status, withdrawal_address, network_fee, approved_at, approved_by, reason FROM withdrawals
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *WithdrawalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, listWithdrawalsByUser, userID)
	withdrawals, err := pgx.CollectRows(rows, rowToWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return withdrawals, nil
}

const listPendingWithdrawals = `-- name: ListPendingWithdrawals
SELECT id, created_at, user_id, amount, currency, status, withdrawal_address, network_fee, approved_at, approved_by, reason FROM withdrawals
WHERE status = 'pending'
ORDER BY created_at DESC
`

func (r *WithdrawalRepo) ListPending(ctx context.Context) ([]models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, listPendingWithdrawals)
	withdrawals, err := pgx.CollectRows(rows, rowToWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return withdrawals, nil
}

const setWithdrawalDecision = `-- name: SetWithdrawalDecision
UPDATE withdrawals
SET status = $2, approved_at = $3, approved_by = $4, reason = $5
WHERE id = $1 AND status = 'pending'
RETURNING id, created_at, user_id, amount, currency, status, withdrawal_address, network_fee, approved_at, approved_by, reason
`

// SetDecision flips a pending withdrawal to its terminal status, same guard
// semantics as deposits: repeated decisions match no row.
func (r *WithdrawalRepo) SetDecision(ctx context.Context, id uuid.UUID, d repository.Decision) (models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, setWithdrawalDecision, id, d.Status, d.DecidedAt, d.AdminID, d.Reason)
	withdrawal, err := pgx.CollectOneRow(rows, rowToWithdrawal)

	switch {
	case err == nil:
		return withdrawal, nil
	case errors.Is(err, pgx.ErrNoRows):
		_, getErr := r.GetByID(ctx, id, false)
		if getErr != nil {
			return withdrawal, getErr
		}
		return withdrawal, apperrors.ErrAlreadyProcessed
	default:
		return withdrawal, fmt.Errorf("db error: %w", err)
	}
}

const withdrawalStats = `-- name: WithdrawalStats
SELECT currency,
       count(*) FILTER (WHERE status = 'pending'),
       COALESCE(sum(amount + network_fee) FILTER (WHERE status = 'pending'), 0),
       count(*) FILTER (WHERE status = 'approved'),
       COALESCE(sum(amount + network_fee) FILTER (WHERE status = 'approved'), 0)
FROM withdrawals
GROUP BY currency
`

func (r *WithdrawalRepo) Stats(ctx context.Context) (map[string]models.RequestStats, error) {
	return collectRequestStats(ctx, r.DB, withdrawalStats)
}

func rowToWithdrawal(row pgx.CollectableRow) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := row.Scan(&w.ID, &w.CreatedAt, &w.UserID, &w.Amount, &w.Currency, &w.Status, &w.WithdrawalAddress, &w.NetworkFee, &w.ApprovedAt, &w.ApprovedBy, &w.Reason)
	return w, err
}
