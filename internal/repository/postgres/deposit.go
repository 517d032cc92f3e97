package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
)

type DepositRepo struct {
	DB DBTX
}

const createDeposit = `-- name: CreateDeposit
INSERT INTO deposits (id, created_at, user_id, amount, currency, status, tx_hash, deposit_address)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, user_id, amount, currency, status, tx_hash, deposit_address, approved_at, approved_by
`

func (r *DepositRepo) Create(ctx context.Context, d models.Deposit) (models.Deposit, error) {
	rows, _ := r.DB.Query(ctx, createDeposit, d.ID, d.CreatedAt, d.UserID, d.Amount, d.Currency, d.Status, d.TxHash, d.DepositAddress)
	deposit, err := pgx.CollectOneRow(rows, rowToDeposit)
	if err != nil {
		return deposit, fmt.Errorf("db error: %w", err)
	}

	return deposit, nil
}

const getDepositByID = `-- name: GetDepositByID
SELECT id, created_at, user_id, amount, currency, status, tx_hash, deposit_address, approved_at, approved_by FROM deposits
WHERE id = $1
`

func (r *DepositRepo) GetByID(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Deposit, error) {
	query := getDepositByID
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, id)
	deposit, err := pgx.CollectOneRow(rows, rowToDeposit)

	switch {
	case err == nil:
		return deposit, nil
	case errors.Is(err, pgx.ErrNoRows):
		return deposit, apperrors.ErrDepositNotFound
	default:
		return deposit, fmt.Errorf("db error: %w", err)
	}
}

const listDepositsByUser = `-- name: ListDepositsByUser
SELECT id, created_at, user_id, amount, currency, status, tx_hash, deposit_address, approved_at, approved_by FROM deposits
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *DepositRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Deposit, error) {
	rows, _ := r.DB.Query(ctx, listDepositsByUser, userID)
	deposits, err := pgx.CollectRows(rows, rowToDeposit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return deposits, nil
}

const listPendingDeposits = `-- name: ListPendingDeposits
SELECT id, created_at, user_id, amount, currency, status, tx_hash, deposit_address, approved_at, approved_by FROM deposits
WHERE status = 'pending'
ORDER BY created_at DESC
`

func (r *DepositRepo) ListPending(ctx context.Context) ([]models.Deposit, error) {
	rows, _ := r.DB.Query(ctx, listPendingDeposits)
	deposits, err := pgx.CollectRows(rows, rowToDeposit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return deposits, nil
}

const setDepositDecision = `-- name: SetDepositDecision
UPDATE deposits
SET status = $2, approved_at = $3, approved_by = $4
WHERE id = $1 AND status = 'pending'
RETURNING id, created_at, user_id, amount, currency, status, tx_hash, deposit_address, approved_at, approved_by
`

// SetDecision flips a pending deposit to its terminal status. The WHERE
// status = 'pending' guard makes a repeated decision match no row, which is
// reported as ErrAlreadyProcessed when the deposit itself exists.
func (r *DepositRepo) SetDecision(ctx context.Context, id uuid.UUID, d repository.Decision) (models.Deposit, error) {
	rows, _ := r.DB.Query(ctx, setDepositDecision, id, d.Status, d.DecidedAt, d.AdminID)
	deposit, err := pgx.CollectOneRow(rows, rowToDeposit)

	switch {
	case err == nil:
		return deposit, nil
	case errors.Is(err, pgx.ErrNoRows):
		_, getErr := r.GetByID(ctx, id, false)
		if getErr != nil {
			return deposit, getErr
		}
		return deposit, apperrors.ErrAlreadyProcessed
	default:
		return deposit, fmt.Errorf("db error: %w", err)
	}
}

const depositStats = `-- name: DepositStats
SELECT currency,
       count(*) FILTER (WHERE status = 'pending'),
       COALESCE(sum(amount) FILTER (WHERE status = 'pending'), 0),
       count(*) FILTER (WHERE status = 'approved'),
       COALESCE(sum(amount) FILTER (WHERE status = 'approved'), 0)
FROM deposits
GROUP BY currency
`

func (r *DepositRepo) Stats(ctx context.Context) (map[string]models.RequestStats, error) {
	return collectRequestStats(ctx, r.DB, depositStats)
}

// collectRequestStats scans per-currency rollup rows, shared with withdrawals
func collectRequestStats(ctx context.Context, db DBTX, query string) (map[string]models.RequestStats, error) {
	rows, _ := db.Query(ctx, query)

	stats := make(map[string]models.RequestStats)
	_, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (struct{}, error) {
		var s models.RequestStats
		var pendingSum, approvedSum decimal.Decimal
		if err := row.Scan(&s.Currency, &s.PendingCount, &pendingSum, &s.ApprovedCount, &approvedSum); err != nil {
			return struct{}{}, err
		}
		s.PendingSum = pendingSum
		s.ApprovedSum = approvedSum
		stats[s.Currency] = s
		return struct{}{}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

func rowToDeposit(row pgx.CollectableRow) (models.Deposit, error) {
	var d models.Deposit
	err := row.Scan(&d.ID, &d.CreatedAt, &d.UserID, &d.Amount, &d.Currency, &d.Status, &d.TxHash, &d.DepositAddress, &d.ApprovedAt, &d.ApprovedBy)
	return d, err
}
