package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/mohamederrajy/cryptos-backend/internal/service/user"
	"github.com/mohamederrajy/cryptos-backend/internal/testutil"
	"github.com/mohamederrajy/cryptos-backend/tests/e2e"
)

const (
	SignupURL  = "/api/auth/signup"
	LoginURL   = "/api/auth/login"
	RefreshURL = "/api/auth/refresh-token"
	MeURL      = "/api/auth/me"
)

func Test_AuthFlow(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("signup ok", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				data := `{"email": "jane@example.com", "password": "StrongEnoughPassword", "firstName": "Jane", "lastName": "Doe"}`

				resp, err := http.Post(srvURL+SignupURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))

				var parsed struct {
					Message string `json:"message"`
					User    struct {
						Email   string `json:"email"`
						Role    string `json:"role"`
						IsAdmin bool   `json:"isAdmin"`
					} `json:"user"`
				}
				require.NoError(t, json.Unmarshal(body, &parsed))
				require.Equal(t, "User created successfully", parsed.Message)
				require.Equal(t, "jane@example.com", parsed.User.Email)
				require.Equal(t, "user", parsed.User.Role)
				require.False(t, parsed.User.IsAdmin)
			})
		})

		t.Run("signup existing email fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.UserService.Register(t.Context(), user.RegisterParams{
					Email:    "taken@example.com",
					Password: "StrongEnoughPassword",
				})
				require.NoError(t, err)

				data := `{"email": "taken@example.com", "password": "StrongEnoughPassword", "firstName": "J", "lastName": "D"}`
				resp, err := http.Post(srvURL+SignupURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.JSONEq(t, `
					{
						"error": "service_error",
						"message": "User already exists"
					}`, string(body))
			})
		})

		t.Run("signup invalid payload fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				data := `{"email": "not-an-email", "password": "short", "firstName": "J", "lastName": "D"}`

				resp, err := http.Post(srvURL+SignupURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			})
		})

		t.Run("login and me", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.UserService.Register(t.Context(), user.RegisterParams{
					Email:    "login@example.com",
					Password: "StrongEnoughPassword",
				})
				require.NoError(t, err)

				data := `{"email": "login@example.com", "password": "StrongEnoughPassword"}`
				resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

				var parsed struct {
					Token        string `json:"token"`
					RefreshToken string `json:"refreshToken"`
					Wallet       struct {
						TotalBalance map[string]float64 `json:"totalBalance"`
					} `json:"wallet"`
				}
				require.NoError(t, json.Unmarshal(body, &parsed))
				require.NotEmpty(t, parsed.Token)
				require.NotEmpty(t, parsed.RefreshToken)
				require.Contains(t, parsed.Wallet.TotalBalance, "USDT", "login response carries the wallet")

				// Access token actually works
				req, err := http.NewRequest(http.MethodGet, srvURL+MeURL, nil)
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+parsed.Token)

				meResp, err := http.DefaultClient.Do(req)
				require.NoError(t, err)
				meBody, err := io.ReadAll(meResp.Body)
				require.NoError(t, err)
				defer func() { _ = meResp.Body.Close() }()

				require.Equalf(t, http.StatusOK, meResp.StatusCode, "not expected code. Body: %s", string(meBody))
				require.Contains(t, string(meBody), "login@example.com")
			})
		})

		t.Run("login wrong password fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.UserService.Register(t.Context(), user.RegisterParams{
					Email:    "wrongpass@example.com",
					Password: "StrongEnoughPassword",
				})
				require.NoError(t, err)

				data := `{"email": "wrongpass@example.com", "password": "NotThePassword"}`
				resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})
		})

		t.Run("refresh token issues new access token", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				registered, err := s.UserService.Register(t.Context(), user.RegisterParams{
					Email:    "refresh@example.com",
					Password: "StrongEnoughPassword",
				})
				require.NoError(t, err)

				pair, err := s.AuthService.GeneratePair(registered)
				require.NoError(t, err)

				data := `{"token": "` + pair.Refresh + `"}`
				resp, err := http.Post(srvURL+RefreshURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

				var parsed struct {
					Token string `json:"token"`
				}
				require.NoError(t, json.Unmarshal(body, &parsed))
				require.NotEmpty(t, parsed.Token)
			})
		})

		t.Run("access token rejected as refresh token", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				registered, err := s.UserService.Register(t.Context(), user.RegisterParams{
					Email:    "typed@example.com",
					Password: "StrongEnoughPassword",
				})
				require.NoError(t, err)

				pair, err := s.AuthService.GeneratePair(registered)
				require.NoError(t, err)

				data := `{"token": "` + pair.Access + `"}`
				resp, err := http.Post(srvURL+RefreshURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})
		})

		t.Run("me without token fails", func(t *testing.T) {
			resp, err := http.Get(srvURL + MeURL)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	})
}
