package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
	"github.com/mohamederrajy/cryptos-backend/internal/testutil"
)

func TestWithdrawal(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.WithTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	createUser := func(t *testing.T, storage repository.Storage, email string) uuid.UUID {
		t.Helper()
		user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
			Email:          email,
			HashedPassword: "hash",
		})
		require.NoError(t, err)
		return user.ID
	}

	createWithdrawal := func(t *testing.T, storage repository.Storage, userID uuid.UUID, amount int64) models.Withdrawal {
		t.Helper()
		withdrawal, err := storage.Withdrawal().Create(t.Context(), models.Withdrawal{
			ID:                uuid.New(),
			CreatedAt:         time.Now(),
			UserID:            userID,
			Amount:            decimal.NewFromInt(amount),
			Currency:          "USDT",
			Status:            models.RequestStatusPending,
			WithdrawalAddress: "bc1qdestination",
			NetworkFee:        decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		return withdrawal
	}

	t.Run("CreateAndGet", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			userID := createUser(t, storage, "withdrawal-create@example.com")

			t.Run("create keeps fee", func(t *testing.T) {
				withdrawal := createWithdrawal(t, storage, userID, 30)

				require.NotEqual(t, uuid.Nil, withdrawal.ID)
				require.Equal(t, models.RequestStatusPending, withdrawal.Status)
				require.True(t, withdrawal.NetworkFee.Equal(decimal.NewFromInt(1)))
				require.True(t, withdrawal.TotalAmount().Equal(decimal.NewFromInt(31)))
			})

			t.Run("get by id", func(t *testing.T) {
				created := createWithdrawal(t, storage, userID, 30)

				withdrawal, err := storage.Withdrawal().GetByID(t.Context(), created.ID, false)

				require.NoError(t, err)
				require.Equal(t, created.ID, withdrawal.ID)
				require.Nil(t, withdrawal.Reason)
			})

			t.Run("get missing id", func(t *testing.T) {
				_, err := storage.Withdrawal().GetByID(t.Context(), uuid.New(), false)

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrWithdrawalNotFound)
			})
		})
	})

	t.Run("SetDecision", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			userID := createUser(t, storage, "withdrawal-decide@example.com")
			adminID := createUser(t, storage, "withdrawal-admin@example.com")

			t.Run("reject stores reason", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					created := createWithdrawal(t, storage, userID, 30)

					reason := "address failed verification"
					withdrawal, err := storage.Withdrawal().SetDecision(t.Context(), created.ID, repository.Decision{
						Status:    models.RequestStatusRejected,
						DecidedAt: time.Now(),
						AdminID:   adminID,
						Reason:    &reason,
					})

					require.NoError(t, err)
					require.Equal(t, models.RequestStatusRejected, withdrawal.Status)
					require.NotNil(t, withdrawal.Reason)
					require.Equal(t, reason, *withdrawal.Reason)
					require.NotNil(t, withdrawal.ApprovedBy)
					require.Equal(t, adminID, *withdrawal.ApprovedBy)
				})
			})

			t.Run("decide twice fails", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					created := createWithdrawal(t, storage, userID, 30)

					decision := repository.Decision{
						Status:    models.RequestStatusApproved,
						DecidedAt: time.Now(),
						AdminID:   adminID,
					}
					_, err := storage.Withdrawal().SetDecision(t.Context(), created.ID, decision)
					require.NoError(t, err)

					_, err = storage.Withdrawal().SetDecision(t.Context(), created.ID, decision)

					require.Error(t, err)
					require.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)
				})
			})
		})
	})

	t.Run("Stats", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			userID := createUser(t, storage, "withdrawal-stats@example.com")
			adminID := createUser(t, storage, "withdrawal-stats-admin@example.com")

			createWithdrawal(t, storage, userID, 30)
			approved := createWithdrawal(t, storage, userID, 10)
			_, err := storage.Withdrawal().SetDecision(t.Context(), approved.ID, repository.Decision{
				Status:    models.RequestStatusApproved,
				DecidedAt: time.Now(),
				AdminID:   adminID,
			})
			require.NoError(t, err)

			stats, err := storage.Withdrawal().Stats(t.Context())

			require.NoError(t, err)
			require.Len(t, stats, 1)

			// Sums include the network fee, matching what leaves the wallet
			usdt := stats["USDT"]
			require.Equal(t, int64(1), usdt.PendingCount)
			require.True(t, usdt.PendingSum.Equal(decimal.NewFromInt(31)))
			require.Equal(t, int64(1), usdt.ApprovedCount)
			require.True(t, usdt.ApprovedSum.Equal(decimal.NewFromInt(11)))
		})
	})
}
