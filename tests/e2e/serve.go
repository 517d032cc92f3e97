package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/mohamederrajy/cryptos-backend/internal/currency"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers/middleware"
	"github.com/mohamederrajy/cryptos-backend/internal/logger"
	"github.com/mohamederrajy/cryptos-backend/internal/repository/postgres"
	"github.com/mohamederrajy/cryptos-backend/internal/service/admin"
	"github.com/mohamederrajy/cryptos-backend/internal/service/auth"
	"github.com/mohamederrajy/cryptos-backend/internal/service/deposit"
	"github.com/mohamederrajy/cryptos-backend/internal/service/user"
	"github.com/mohamederrajy/cryptos-backend/internal/service/wallet"
	"github.com/mohamederrajy/cryptos-backend/internal/service/withdrawal"
	"github.com/mohamederrajy/cryptos-backend/internal/testutil"
)

type Services struct {
	AuthService       *auth.AuthService
	UserService       *user.UserService
	WalletService     *wallet.WalletService
	DepositService    *deposit.DepositService
	WithdrawalService *withdrawal.WithdrawalService
	AdminService      *admin.AdminService
}

// Create db transaction and run the server with that connection (one
// connection cause one transaction). The created transaction passed to the
// inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)
		currencies := currency.New([]string{"USDT", "BTC"})

		authService, err := auth.NewService(auth.Config{SecretKey: "test-secret"}, storage.User())
		require.NoError(t, err, "auth service should be created without errors")

		userService := user.NewService(auth.DefaultHasher, storage, currencies)
		walletService := wallet.NewService(storage, currencies)
		depositService := deposit.NewService(storage, currencies, nil)
		withdrawalService := withdrawal.NewService(storage, currencies)
		adminService := admin.NewService(storage)

		router := handlers.NewRouter(
			authService,
			userService,
			walletService,
			depositService,
			withdrawalService,
			adminService,
			middleware.AuthMiddleware(authService),
			middleware.AdminMiddleware(),
			logger.NewNoOp(),
		)

		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:       authService,
			UserService:       userService,
			WalletService:     walletService,
			DepositService:    depositService,
			WithdrawalService: withdrawalService,
			AdminService:      adminService,
		})
	})
}
