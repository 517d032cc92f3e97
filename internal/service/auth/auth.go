// Package auth is the access gate: it resolves an HTTP request to a user and
// issues the tokens that make that resolution possible. The workflows never
// inspect credentials themselves, they consume the resolved identity.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
)

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

type Config struct {
	// Secret key to sign token payloads
	SecretKey string

	// Token lifetimes, zero values fall back to defaults
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenPair returned to the user on login
type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService struct {
	token    TokenManager
	userRepo repository.UserRepo
}

func NewService(cfg Config, userRepo repository.UserRepo) (*AuthService, error) {
	accessTTL := cfg.AccessTokenTTL
	if accessTTL == 0 {
		accessTTL = defaultAccessTTL
	}

	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL == 0 {
		refreshTTL = defaultRefreshTTL
	}

	tokenManager, err := NewTokenManager(cfg.SecretKey, accessTTL, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	return &AuthService{
		token:    tokenManager,
		userRepo: userRepo,
	}, nil
}

// GeneratePair issues access and refresh tokens for an already
// authenticated user
func (s *AuthService) GeneratePair(user models.User) (TokenPair, error) {
	access, err := s.token.Generate(user.ID, TokenTypeAccess)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := s.token.Generate(user.ID, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh re-issues an access token against a valid refresh token
func (s *AuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	userID, err := s.token.Parse(refresh, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	// The user might be deleted since the token was issued
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	return s.token.Generate(user.ID, TokenTypeAccess)
}

// Auth resolves the request to a user via the Authorization bearer token
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	header := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return models.User{}, apperrors.ErrUserNotFound
	}

	userID, err := s.token.Parse(tokenString, TokenTypeAccess)
	if err != nil {
		return models.User{}, err
	}

	return s.userRepo.GetUserByID(ctx, userID)
}
