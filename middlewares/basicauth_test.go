package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/internal"
	"github.com/dmitrymomot/trueweb/middlewares"
)

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	t.Run("requires a credential source", func(t *testing.T) {
		t.Parallel()
		_, err := middlewares.BasicAuth(middlewares.BasicAuthConfig{})
		require.ErrorIs(t, err, middlewares.ErrNoAuthSource)
	})

	gate, err := middlewares.BasicAuth(middlewares.BasicAuthConfig{
		Credentials: map[string]string{"admin": "s3cret"},
		Realm:       "Admin",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     string
		password string
		noAuth   bool
		status   int
	}{
		{name: "valid", user: "admin", password: "s3cret", status: http.StatusOK},
		{name: "wrong password", user: "admin", password: "nope", status: http.StatusUnauthorized},
		{name: "unknown user", user: "root", password: "s3cret", status: http.StatusUnauthorized},
		{name: "empty password", user: "admin", password: "", status: http.StatusUnauthorized},
		{name: "no header", noAuth: true, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if !tt.noAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}

			var principal string
			w := guarded(t, req, gate, func(c internal.Context) {
				principal = middlewares.GetPrincipal(c)
			})

			require.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				require.Equal(t, "inside", w.Body.String())
				require.Equal(t, tt.user, principal)
				return
			}
			require.Equal(t, `Basic realm="Admin"`, w.Header().Get("WWW-Authenticate"))
			require.NotContains(t, w.Body.String(), "inside")
		})
	}

	t.Run("validate func", func(t *testing.T) {
		t.Parallel()
		gate, err := middlewares.BasicAuth(middlewares.BasicAuthConfig{
			ValidateFunc: func(user, pass string) bool { return user == pass },
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("same", "same")
		w := guarded(t, req, gate, nil)
		require.Equal(t, http.StatusOK, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("same", "other")
		w = guarded(t, req, gate, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, `Basic realm="Restricted"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		gate, err := middlewares.BasicAuth(middlewares.BasicAuthConfig{
			Credentials: map[string]string{"a": "b"},
			ErrorHandler: func(c internal.Context, err error) error {
				return c.String(internal.StatusOf(err), "go away")
			},
		})
		require.NoError(t, err)

		w := guarded(t, httptest.NewRequest(http.MethodGet, "/", nil), gate, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "go away", w.Body.String())
	})
}
