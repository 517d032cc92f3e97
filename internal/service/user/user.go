package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/currency"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
	"github.com/mohamederrajy/cryptos-backend/internal/service/auth"
)

type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type UpdateProfileParams struct {
	Email     *string
	FirstName *string
	LastName  *string
}

type UserService struct {
	hasher     auth.PasswordHasher
	storage    repository.Storage
	currencies *currency.Registry
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage, currencies *currency.Registry) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:     hasher,
		storage:    storage,
		currencies: currencies,
	}
}

// Register creates the user together with zero balance rows for every
// supported currency, in one transaction.
func (s *UserService) Register(ctx context.Context, arg RegisterParams) (models.User, error) {
	return s.createUser(ctx, arg, models.RoleUser)
}

// CreateAdmin is Register with the admin role, for staff provisioning
func (s *UserService) CreateAdmin(ctx context.Context, email string, password string) (models.User, error) {
	return s.createUser(ctx, RegisterParams{Email: email, Password: password}, models.RoleAdmin)
}

func (s *UserService) createUser(ctx context.Context, arg RegisterParams, role string) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		user, err = st.User().CreateUser(ctx, repository.CreateUserParams{
			Email:          arg.Email,
			HashedPassword: hash,
			FirstName:      arg.FirstName,
			LastName:       arg.LastName,
			Role:           role,
		})
		if err != nil {
			return err
		}

		return st.Wallet().CreateBalances(ctx, user.ID, s.currencies.Codes())
	})
	if err != nil {
		return user, err
	}

	return user, nil
}

// Login returns the user when email and password match.
// Fails with apperrors.ErrUserNotFound on any mismatch, so callers can't
// distinguish a wrong password from an unknown email.
func (s *UserService) Login(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, apperrors.ErrUserNotFound
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetUserByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.storage.User().ListUsers(ctx)
}

// UpdateProfile updates the caller's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, arg UpdateProfileParams) (models.User, error) {
	return s.storage.User().UpdateUser(ctx, userID, repository.UpdateUserParams{
		Email:     arg.Email,
		FirstName: arg.FirstName,
		LastName:  arg.LastName,
	})
}

// UpdateUser is the admin variant: may also change the role
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, arg repository.UpdateUserParams) (models.User, error) {
	return s.storage.User().UpdateUser(ctx, userID, arg)
}

func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.storage.User().DeleteUser(ctx, userID)
}
