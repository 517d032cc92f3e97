package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mohamederrajy/cryptos-backend/internal/currency"
	"github.com/mohamederrajy/cryptos-backend/internal/db"
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
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	currencies := currency.New(c.CurrencyCodes())

	authService, err := auth.NewService(auth.Config{SecretKey: c.SecretKey}, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	userService := user.NewService(auth.DefaultHasher, storage, currencies)
	walletService := wallet.NewService(storage, currencies)
	depositService := deposit.NewService(storage, currencies, nil)
	withdrawalService := withdrawal.NewService(storage, currencies)
	adminService := admin.NewService(storage)

	mux := handlers.NewRouter(
		authService,
		userService,
		walletService,
		depositService,
		withdrawalService,
		adminService,
		middleware.AuthMiddleware(authService),
		middleware.AdminMiddleware(),
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close connections gracefully
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
