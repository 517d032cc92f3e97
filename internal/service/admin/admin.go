// Package admin provides the read-only statistics rollup. It mutates nothing
// and tolerates an empty database: all sums come back zero-valued.
package admin

import (
	"context"
	"fmt"

	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
)

type AdminService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *AdminService {
	return &AdminService{storage: storage}
}

// Statistics composes user counts, per-currency wallet totals and request
// rollups. Plain reads, no locking: the numbers are advisory.
func (s *AdminService) Statistics(ctx context.Context) (models.Statistics, error) {
	var stats models.Statistics

	users, admins, err := s.storage.User().CountUsers(ctx)
	if err != nil {
		return stats, fmt.Errorf("can't count users. Err: %w", err)
	}

	totals, err := s.storage.Wallet().SumTotalBalances(ctx)
	if err != nil {
		return stats, fmt.Errorf("can't sum balances. Err: %w", err)
	}

	deposits, err := s.storage.Deposit().Stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("can't aggregate deposits. Err: %w", err)
	}

	withdrawals, err := s.storage.Withdrawal().Stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("can't aggregate withdrawals. Err: %w", err)
	}

	return models.Statistics{
		TotalUsers:   users,
		TotalAdmins:  admins,
		TotalBalance: totals,
		Deposits:     deposits,
		Withdrawals:  withdrawals,
	}, nil
}
