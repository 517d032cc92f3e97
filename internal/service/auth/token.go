package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the 'typ' claim. Refresh tokens are JWTs too, the
// service is stateless: a refresh just re-issues against a still-valid token.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"typ"`
}

type TokenManager struct {
	// Secret key to sign token payloads
	key []byte

	// JWT MAC algorithm
	alg jwt.SigningMethod

	// Access and refresh token lifetimes
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secretKey string, accessTTL, refreshTTL time.Duration) (TokenManager, error) {
	if secretKey == "" {
		return TokenManager{}, errors.New("secret key must not be empty")
	}

	return TokenManager{
		key:        []byte(secretKey),
		alg:        jwt.SigningMethodHS256,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Generate signs a token of the given type for the user
func (m TokenManager) Generate(userID uuid.UUID, tokenType string) (string, error) {
	now := time.Now().Truncate(time.Second)

	ttl := m.accessTTL
	if tokenType == TokenTypeRefresh {
		ttl = m.refreshTTL
	}

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
			UserID:    userID,
			TokenType: tokenType,
		},
	)

	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("error while signing token. Err: %w", err)
	}

	return signed, nil
}

// Parse validates the signature, expiry and token type, returns the user id
func (m TokenManager) Parse(tokenString string, wantType string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)

	switch {
	case err != nil:
		return uuid.Nil, fmt.Errorf("error parsing token. Err: %w", err)
	case !token.Valid:
		return uuid.Nil, errors.New("token is not valid")
	case claims.TokenType != wantType:
		return uuid.Nil, fmt.Errorf("unexpected token type %q", claims.TokenType)
	default:
		return claims.UserID, nil
	}
}
