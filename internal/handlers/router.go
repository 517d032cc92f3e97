package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohamederrajy/cryptos-backend/internal/handlers/middleware"
	"github.com/mohamederrajy/cryptos-backend/internal/logger"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
	"github.com/mohamederrajy/cryptos-backend/internal/service/auth"
	"github.com/mohamederrajy/cryptos-backend/internal/service/user"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	walletService walletService,
	depositService depositService,
	withdrawalService withdrawalService,
	adminService adminService,
	authMiddleware func(http.Handler) http.Handler,
	adminMiddleware func(http.Handler) http.Handler,
	logger logger.Logger,
) http.Handler {
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}
	withAdmin := func(h http.Handler) http.Handler {
		return authMiddleware(adminMiddleware(h))
	}

	api := http.NewServeMux()

	api.Handle("POST /auth/signup", handleSignup(userService, logger))
	api.Handle("POST /auth/login", handleLogin(userService, authService, walletService, logger))
	api.Handle("POST /auth/refresh-token", handleRefreshToken(authService, logger))
	api.Handle("GET /auth/me", withAuth(handleMe(walletService, logger)))
	api.Handle("PUT /auth/update-profile", withAuth(handleUpdateProfile(userService, logger)))

	api.Handle("GET /wallet/balance", withAuth(handleGetBalance(walletService, logger)))

	api.Handle("POST /deposit/manual", withAuth(handleSubmitDeposit(depositService, logger)))
	api.Handle("GET /deposit/my-deposits", withAuth(handleMyDeposits(depositService, logger)))
	api.Handle("GET /deposit/pending", withAdmin(handlePendingDeposits(depositService, logger)))
	api.Handle("PUT /deposit/{depositId}/process", withAdmin(handleProcessDeposit(depositService, logger)))

	api.Handle("POST /withdrawal/request", withAuth(handleRequestWithdrawal(withdrawalService, logger)))
	api.Handle("GET /withdrawal/my-withdrawals", withAuth(handleMyWithdrawals(withdrawalService, logger)))
	api.Handle("GET /withdrawal/pending", withAdmin(handlePendingWithdrawals(withdrawalService, logger)))
	api.Handle("PUT /withdrawal/{withdrawalId}/process", withAdmin(handleProcessWithdrawal(withdrawalService, logger)))

	api.Handle("GET /admin/statistics", withAdmin(handleStatistics(adminService, logger)))
	api.Handle("GET /admin/users", withAdmin(handleListUsers(userService, logger)))
	api.Handle("GET /admin/users/{userId}", withAdmin(handleGetUser(userService, logger)))
	api.Handle("PUT /admin/users/{userId}", withAdmin(handleUpdateUser(userService, logger)))
	api.Handle("DELETE /admin/users/{userId}", withAdmin(handleDeleteUser(userService, logger)))
	api.Handle("POST /admin/create-admin", withAdmin(handleCreateAdmin(userService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Issue access and refresh tokens for an authenticated user
	GeneratePair(user models.User) (auth.TokenPair, error)

	// Re-issue an access token against a valid refresh token
	Refresh(ctx context.Context, refresh string) (string, error)
}

type userService interface {
	Register(ctx context.Context, arg user.RegisterParams) (models.User, error)
	Login(ctx context.Context, email string, password string) (models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, arg user.UpdateProfileParams) (models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, arg repository.UpdateUserParams) (models.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	CreateAdmin(ctx context.Context, email string, password string) (models.User, error)
}

type walletService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error)
}

type depositService interface {
	Submit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency string) (models.Deposit, string, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Deposit, error)
	ListPending(ctx context.Context) ([]models.Deposit, error)
	Decide(ctx context.Context, adminID uuid.UUID, depositID uuid.UUID, status string) (models.Deposit, error)
}

type withdrawalService interface {
	Request(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency string, address string) (models.Withdrawal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Withdrawal, error)
	ListPending(ctx context.Context) ([]models.Withdrawal, error)
	Decide(ctx context.Context, adminID uuid.UUID, withdrawalID uuid.UUID, status string, reason *string) (models.Withdrawal, error)
}

type adminService interface {
	Statistics(ctx context.Context) (models.Statistics, error)
}
