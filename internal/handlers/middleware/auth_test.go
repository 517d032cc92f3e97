package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers/userctx"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
)

type fakeAuthService struct {
	user models.User
	err  error
}

func (f fakeAuthService) Auth(_ context.Context, _ *http.Request) (models.User, error) {
	return f.user, f.err
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("authenticated user reaches handler", func(t *testing.T) {
		user := models.User{ID: uuid.New(), Email: "a@example.com"}
		mw := AuthMiddleware(fakeAuthService{user: user})

		var got models.User
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = userctx.FromContext(r.Context())
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, user.ID, got.ID, "user stored in the request context")
	})

	t.Run("auth failure stops the request", func(t *testing.T) {
		mw := AuthMiddleware(fakeAuthService{err: apperrors.ErrUserNotFound})

		called := false
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.False(t, called, "handler must not run for anonymous requests")
	})
}

func TestAdminMiddleware(t *testing.T) {
	handlerCalled := func() (http.Handler, *bool) {
		called := false
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}), &called
	}

	t.Run("admin passes", func(t *testing.T) {
		handler, called := handlerCalled()
		mw := AdminMiddleware()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := userctx.NewContext(req.Context(), models.User{ID: uuid.New(), Role: models.RoleAdmin})

		rr := httptest.NewRecorder()
		mw(handler).ServeHTTP(rr, req.WithContext(ctx))

		require.Equal(t, http.StatusOK, rr.Code)
		require.True(t, *called)
	})

	t.Run("plain user is forbidden", func(t *testing.T) {
		handler, called := handlerCalled()
		mw := AdminMiddleware()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := userctx.NewContext(req.Context(), models.User{ID: uuid.New(), Role: models.RoleUser})

		rr := httptest.NewRecorder()
		mw(handler).ServeHTTP(rr, req.WithContext(ctx))

		require.Equal(t, http.StatusForbidden, rr.Code)
		require.False(t, *called)
	})

	t.Run("no user in context is forbidden", func(t *testing.T) {
		handler, called := handlerCalled()
		mw := AdminMiddleware()

		rr := httptest.NewRecorder()
		mw(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusForbidden, rr.Code)
		require.False(t, *called)
	})
}
