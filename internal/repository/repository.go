package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohamederrajy/cryptos-backend/internal/models"
)

type CreateUserParams struct {
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	Role           string
}

type UpdateUserParams struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *string
}

// User repository interface
type UserRepo interface {
	// Create user with zero balances for every supported currency
	// If a user with the email exists must return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	// Update the provided fields only, nil fields stay untouched
	// Must return apperrors.ErrEmailTaken when the new email belongs to someone else
	UpdateUser(ctx context.Context, userID uuid.UUID, arg UpdateUserParams) (models.User, error)

	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// Count all users and admins among them
	CountUsers(ctx context.Context) (users int64, admins int64, err error)
}

// Wallet repository: the account ledger.
//
// Every mutation is a single SQL statement over one balance row. Callers that
// need check-then-mutate semantics (withdrawal reservation, decisions) must
// run inside Storage.InTx and read the row with forUpdate so that concurrent
// operations on the same account serialize.
type WalletRepo interface {
	// Create zero-valued balance rows for the user
	CreateBalances(ctx context.Context, userID uuid.UUID, currencies []string) error

	// All balance rows of the user, any order
	GetWallet(ctx context.Context, userID uuid.UUID) ([]models.Balance, error)

	// One balance row. forUpdate locks the row for the transaction lifetime.
	// If the row does not exist must return apperrors.ErrUserNotFound
	GetBalance(ctx context.Context, userID uuid.UUID, currency string, forUpdate bool) (models.Balance, error)

	// Credit increments total and asset balance. Requires amount > 0.
	Credit(ctx context.Context, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error)

	// Reserve decrements asset balance only. The caller must have verified
	// under row lock that asset covers the amount.
	Reserve(ctx context.Context, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error)

	// FinalizeWithdrawal decrements total balance only; asset already
	// reflects the reservation made at request time.
	FinalizeWithdrawal(ctx context.Context, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error)

	// ReleaseReservation returns a reserved amount to the asset balance
	ReleaseReservation(ctx context.Context, userID uuid.UUID, currency string, amount decimal.Decimal) (models.Balance, error)

	// Sum of total balances over all wallets keyed by currency
	SumTotalBalances(ctx context.Context) (map[string]decimal.Decimal, error)
}

type Decision struct {
	Status    string
	DecidedAt time.Time
	AdminID   uuid.UUID
	Reason    *string
}

// Deposit repository interface
type DepositRepo interface {
	Create(ctx context.Context, deposit models.Deposit) (models.Deposit, error)

	// If deposit not found must return apperrors.ErrDepositNotFound
	GetByID(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Deposit, error)

	// User's deposits, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Deposit, error)

	// All pending deposits, newest first
	ListPending(ctx context.Context) ([]models.Deposit, error)

	// Set the decision triple on a pending deposit.
	// Must return apperrors.ErrAlreadyProcessed if the deposit is not pending.
	SetDecision(ctx context.Context, id uuid.UUID, d Decision) (models.Deposit, error)

	// Per-currency pending/approved counts and sums
	Stats(ctx context.Context) (map[string]models.RequestStats, error)
}

// Withdrawal repository interface, mirrors DepositRepo
type WithdrawalRepo interface {
	Create(ctx context.Context, withdrawal models.Withdrawal) (models.Withdrawal, error)

	// If withdrawal not found must return apperrors.ErrWithdrawalNotFound
	GetByID(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Withdrawal, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Withdrawal, error)

	ListPending(ctx context.Context) ([]models.Withdrawal, error)

	SetDecision(ctx context.Context, id uuid.UUID, d Decision) (models.Withdrawal, error)

	// Per-currency pending/approved counts and sums of amount+fee
	Stats(ctx context.Context) (map[string]models.RequestStats, error)
}

// Storage aggregates the repositories over one database handle.
//
// InTx runs fn against a Storage bound to a single transaction and commits if
// fn returns nil, rolls back otherwise. All balance check-then-mutate
// sequences and every ledger-mutation-plus-status-write pair must go through
// it: either everything commits or nothing does.
type Storage interface {
	User() UserRepo
	Wallet() WalletRepo
	Deposit() DepositRepo
	Withdrawal() WithdrawalRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}
