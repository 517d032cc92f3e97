package admin

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

func Test_AdminEndpoints(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		do := func(t *testing.T, method, path, token, body string) (*http.Response, string) {
			t.Helper()

			var reader io.Reader
			if body != "" {
				reader = strings.NewReader(body)
			}
			req, err := http.NewRequest(method, srvURL+path, reader)
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			respBody, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()

			return resp, string(respBody)
		}

		adminToken := func(t *testing.T) string {
			t.Helper()
			admin, err := s.UserService.CreateAdmin(t.Context(), "admin@example.com", "StrongEnoughPassword")
			require.NoError(t, err)
			pair, err := s.AuthService.GeneratePair(admin)
			require.NoError(t, err)
			return pair.Access
		}

		t.Run("statistics on empty database", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				token := adminToken(t)

				resp, body := do(t, http.MethodGet, "/api/admin/statistics", token, "")

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

				var parsed struct {
					TotalUsers  int64 `json:"totalUsers"`
					TotalAdmins int64 `json:"totalAdmins"`
				}
				require.NoError(t, json.Unmarshal([]byte(body), &parsed))
				require.Equal(t, int64(1), parsed.TotalUsers, "only the admin itself")
				require.Equal(t, int64(1), parsed.TotalAdmins)
			})
		})

		t.Run("user management", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				token := adminToken(t)

				registered, err := s.UserService.Register(t.Context(), user.RegisterParams{
					Email:    "managed@example.com",
					Password: "StrongEnoughPassword",
				})
				require.NoError(t, err)
				userID := registered.ID.String()

				t.Run("list", func(t *testing.T) {
					resp, body := do(t, http.MethodGet, "/api/admin/users", token, "")

					require.Equal(t, http.StatusOK, resp.StatusCode)
					require.Contains(t, body, "managed@example.com")
				})

				t.Run("get one", func(t *testing.T) {
					resp, body := do(t, http.MethodGet, "/api/admin/users/"+userID, token, "")

					require.Equal(t, http.StatusOK, resp.StatusCode)
					require.Contains(t, body, "managed@example.com")
				})

				t.Run("promote to admin", func(t *testing.T) {
					resp, body := do(t, http.MethodPut, "/api/admin/users/"+userID, token, `{"role": "admin"}`)

					require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
					require.Contains(t, body, `"isAdmin":true`)
				})

				t.Run("delete", func(t *testing.T) {
					resp, _ := do(t, http.MethodDelete, "/api/admin/users/"+userID, token, "")
					require.Equal(t, http.StatusOK, resp.StatusCode)

					resp, _ = do(t, http.MethodGet, "/api/admin/users/"+userID, token, "")
					require.Equal(t, http.StatusNotFound, resp.StatusCode)
				})
			})
		})

		t.Run("create admin endpoint", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				token := adminToken(t)

				resp, body := do(t, http.MethodPost, "/api/admin/create-admin", token,
					`{"email": "second-admin@example.com", "password": "StrongEnoughPassword"}`)

				require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
				require.Contains(t, body, "Admin user created successfully")
				require.Contains(t, body, "adminId")
			})
		})

		t.Run("plain user is rejected", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				registered, err := s.UserService.Register(t.Context(), user.RegisterParams{
					Email:    "plain@example.com",
					Password: "StrongEnoughPassword",
				})
				require.NoError(t, err)
				pair, err := s.AuthService.GeneratePair(registered)
				require.NoError(t, err)

				resp, _ := do(t, http.MethodGet, "/api/admin/statistics", pair.Access, "")

				require.Equal(t, http.StatusForbidden, resp.StatusCode)
			})
		})
	})
}
