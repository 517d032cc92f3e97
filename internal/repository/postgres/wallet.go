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
)

type WalletRepo struct {
	DB DBTX
}

const createBalance = `-- name: CreateBalance
INSERT INTO wallet_balances (id, user_id, currency, total_balance, asset_balance, exchange_balance)
VALUES ($1, $2, $3, 0, 0, 0)
ON CONFLICT (user_id, currency) DO NOTHING
`

func (r *WalletRepo) CreateBalances(ctx context.Context, userID uuid.UUID, currencies []string) error {
	for _, currency := range currencies {
		_, err := r.DB.Exec(ctx, createBalance, uuid.New(), userID, currency)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}

const getWallet = `-- name: GetWallet
SELECT id, user_id, currency, total_balance, asset_balance, exchange_balance FROM wallet_balances
WHERE user_id = $1
ORDER BY currency
`

func (r *WalletRepo) GetWallet(ctx context.Context, userID uuid.UUID) ([]models.Balance, error) {
	rows, _ := r.DB.Query(ctx, getWallet, userID)
	balances, err := pgx.CollectRows(rows, rowToBalance)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return balances, nil
}

const getBalance = `-- name: GetBalance
SELECT id, user_id, currency, total_balance, asset_balance, exchange_balance FROM wallet_balances
WHERE user_id = $1 AND currency = $2
`

func (r *WalletRepo) GetBalance(ctx context.Context, userID uuid.UUID, currency string, forUpdate bool) (models.Balance, error) {
	query := getBalance
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, userID, currency)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrUserNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

const creditBalance = `-- name: CreditBalance
UPDATE wallet_balances
SET total_balance = total_balance + $3,
    asset_balance = asset_balance + $3
WHERE user_id = $1 AND currency = $2
RETURNING id, user_id, currency, total_balance, asset_balance, exchange_balance
`

func (r *WalletRepo) Credit(ctx context.Context, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error) {
	if !amount.IsPositive() {
		return models.Balance{}, fmt.Errorf("credit amount must be positive, got %s", amount)
	}

	return r.mutate(ctx, creditBalance, userID, currency, amount)
}

const reserveBalance = `-- name: ReserveBalance
UPDATE wallet_balances
SET asset_balance = asset_balance - $3
WHERE user_id = $1 AND currency = $2 AND asset_balance >= $3
RETURNING id, user_id, currency, total_balance, asset_balance, exchange_balance
`

// Reserve removes amount from the asset balance. The WHERE guard makes the
// statement a no-op instead of a constraint violation when asset is short;
// no matched row maps to ErrInsufficientFunds.
func (r *WalletRepo) Reserve(ctx context.Context, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error) {
	balance, err := r.mutate(ctx, reserveBalance, userID, currency, amount)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return balance, apperrors.ErrInsufficientFunds
	}

	return balance, err
}

const finalizeWithdrawal = `-- name: FinalizeWithdrawal
UPDATE wallet_balances
SET total_balance = total_balance - $3
WHERE user_id = $1 AND currency = $2
RETURNING id, user_id, currency, total_balance, asset_balance, exchange_balance
`

func (r *WalletRepo) FinalizeWithdrawal(ctx context.Context, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error) {
	return r.mutate(ctx, finalizeWithdrawal, userID, currency, amount)
}

const releaseReservation = `-- name: ReleaseReservation
UPDATE wallet_balances
SET asset_balance = asset_balance + $3
WHERE user_id = $1 AND currency = $2
RETURNING id, user_id, currency, total_balance, asset_balance, exchange_balance
`

func (r *WalletRepo) ReleaseReservation(ctx context.Context, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error) {
	return r.mutate(ctx, releaseReservation, userID, currency, amount)
}

const sumTotalBalances = `-- name: SumTotalBalances
SELECT currency, COALESCE(sum(total_balance), 0) FROM wallet_balances
GROUP BY currency
`

func (r *WalletRepo) SumTotalBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, _ := r.DB.Query(ctx, sumTotalBalances)

	totals := make(map[string]decimal.Decimal)
	_, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (struct{}, error) {
		var currency string
		var sum decimal.Decimal
		if err := row.Scan(&currency, &sum); err != nil {
			return struct{}{}, err
		}
		totals[currency] = sum
		return struct{}{}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return totals, nil
}

func (r *WalletRepo) mutate(ctx context.Context, query string, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error) {
	rows, _ := r.DB.Query(ctx, query, userID, currency, amount)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrUserNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

func rowToBalance(row pgx.CollectableRow) (models.Balance, error) {
	var b models.Balance
	err := row.Scan(&b.ID, &b.UserID, &b.Currency, &b.Total, &b.Asset, &b.Exchange)
	return b, err
}
