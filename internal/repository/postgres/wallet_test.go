package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
	"github.com/mohamederrajy/cryptos-backend/internal/testutil"
)

func TestWallet(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.WithTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	createUser := func(t *testing.T, storage repository.Storage) uuid.UUID {
		t.Helper()
		user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
			Email:          "wallet-test@example.com",
			HashedPassword: "hash",
		})
		require.NoError(t, err)
		return user.ID
	}

	t.Run("CreateBalances", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			userID := createUser(t, storage)

			t.Run("create ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					err := storage.Wallet().CreateBalances(t.Context(), userID, []string{"USDT", "BTC"})
					require.NoError(t, err, "balances have to be created ok")

					balances, err := storage.Wallet().GetWallet(t.Context(), userID)
					require.NoError(t, err)
					require.Len(t, balances, 2)
					for _, b := range balances {
						require.True(t, b.Total.IsZero(), "new balance should be zero")
						require.True(t, b.Asset.IsZero(), "new balance should be zero")
						require.True(t, b.Exchange.IsZero(), "new balance should be zero")
					}
				})
			})

			t.Run("create twice is noop", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					err := storage.Wallet().CreateBalances(t.Context(), userID, []string{"USDT"})
					require.NoError(t, err)

					err = storage.Wallet().CreateBalances(t.Context(), userID, []string{"USDT"})
					require.NoError(t, err, "repeated creation must not fail")

					balances, err := storage.Wallet().GetWallet(t.Context(), userID)
					require.NoError(t, err)
					require.Len(t, balances, 1, "no duplicate rows")
				})
			})
		})
	})

	t.Run("GetBalance", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			userID := createUser(t, storage)
			err := storage.Wallet().CreateBalances(t.Context(), userID, []string{"USDT"})
			require.NoError(t, err)

			t.Run("existing row", func(t *testing.T) {
				balance, err := storage.Wallet().GetBalance(t.Context(), userID, "USDT", false)

				require.NoError(t, err)
				require.Equal(t, userID, balance.UserID)
				require.Equal(t, "USDT", balance.Currency)
			})

			t.Run("missing row", func(t *testing.T) {
				_, err := storage.Wallet().GetBalance(t.Context(), uuid.New(), "USDT", false)

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})

			t.Run("for update locks row", func(t *testing.T) {
				balance, err := storage.Wallet().GetBalance(t.Context(), userID, "USDT", true)

				require.NoError(t, err, "locked read should work inside the transaction")
				require.Equal(t, userID, balance.UserID)
			})
		})
	})

	t.Run("Credit", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			userID := createUser(t, storage)
			err := storage.Wallet().CreateBalances(t.Context(), userID, []string{"USDT"})
			require.NoError(t, err)

			t.Run("credit increments total and asset", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					balance, err := storage.Wallet().Credit(t.Context(), userID, "USDT", decimal.NewFromInt(100))

					require.NoError(t, err)
					require.True(t, balance.Total.Equal(decimal.NewFromInt(100)), "total should be 100 after credit")
					require.True(t, balance.Asset.Equal(decimal.NewFromInt(100)), "asset should be 100 after credit")
					require.True(t, balance.Exchange.IsZero(), "exchange balance is never touched")
				})
			})

			t.Run("zero amount fails", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Wallet().Credit(t.Context(), userID, "USDT", decimal.Zero)

					require.Error(t, err, "crediting zero must fail")
				})
			})

			t.Run("negative amount fails", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Wallet().Credit(t.Context(), userID, "USDT", decimal.NewFromInt(-5))

					require.Error(t, err, "crediting negative amount must fail")
				})
			})
		})
	})

	t.Run("ReserveFinalizeRelease", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			userID := createUser(t, storage)
			err := storage.Wallet().CreateBalances(t.Context(), userID, []string{"USDT"})
			require.NoError(t, err)
			_, err = storage.Wallet().Credit(t.Context(), userID, "USDT", decimal.NewFromInt(100))
			require.NoError(t, err)

			t.Run("reserve decrements asset only", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					balance, err := storage.Wallet().Reserve(t.Context(), userID, "USDT", decimal.NewFromInt(31))

					require.NoError(t, err)
					require.True(t, balance.Total.Equal(decimal.NewFromInt(100)), "total stays untouched on reserve")
					require.True(t, balance.Asset.Equal(decimal.NewFromInt(69)), "asset drops by the reserved amount")
				})
			})

			t.Run("reserve more than asset fails", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Wallet().Reserve(t.Context(), userID, "USDT", decimal.NewFromInt(151))

					require.Error(t, err)
					require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

					balance, err := storage.Wallet().GetBalance(t.Context(), userID, "USDT", false)
					require.NoError(t, err)
					require.True(t, balance.Asset.Equal(decimal.NewFromInt(100)), "failed reserve must not change the balance")
				})
			})

			t.Run("finalize decrements total only", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Wallet().Reserve(t.Context(), userID, "USDT", decimal.NewFromInt(31))
					require.NoError(t, err)

					balance, err := storage.Wallet().FinalizeWithdrawal(t.Context(), userID, "USDT", decimal.NewFromInt(31))

					require.NoError(t, err)
					require.True(t, balance.Total.Equal(decimal.NewFromInt(69)), "total drops when the withdrawal settles")
					require.True(t, balance.Asset.Equal(decimal.NewFromInt(69)), "asset already reflects the reservation")
				})
			})

			t.Run("release restores asset", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Wallet().Reserve(t.Context(), userID, "USDT", decimal.NewFromInt(31))
					require.NoError(t, err)

					balance, err := storage.Wallet().ReleaseReservation(t.Context(), userID, "USDT", decimal.NewFromInt(31))

					require.NoError(t, err)
					require.True(t, balance.Total.Equal(decimal.NewFromInt(100)), "total untouched by release")
					require.True(t, balance.Asset.Equal(decimal.NewFromInt(100)), "asset back to the pre-reserve value")
				})
			})
		})
	})

	t.Run("SumTotalBalances", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			t.Run("empty database sums to nothing", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					totals, err := storage.Wallet().SumTotalBalances(t.Context())

					require.NoError(t, err, "empty account set is not an error")
					require.Empty(t, totals)
				})
			})

			t.Run("sums across users", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					for i, email := range []string{"first@example.com", "second@example.com"} {
						user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
							Email:          email,
							HashedPassword: "hash",
						})
						require.NoError(t, err)

						err = storage.Wallet().CreateBalances(t.Context(), user.ID, []string{"USDT"})
						require.NoError(t, err)

						_, err = storage.Wallet().Credit(t.Context(), user.ID, "USDT", decimal.NewFromInt(int64(100*(i+1))))
						require.NoError(t, err)
					}

					totals, err := storage.Wallet().SumTotalBalances(t.Context())

					require.NoError(t, err)
					require.Len(t, totals, 1)
					require.True(t, totals["USDT"].Equal(decimal.NewFromInt(300)), "100 + 200 across both wallets")
				})
			})
		})
	})
}
