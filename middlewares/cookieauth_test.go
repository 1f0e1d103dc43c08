package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/internal"
	"github.com/dmitrymomot/trueweb/middlewares"
	"github.com/dmitrymomot/trueweb/pkg/cookie"
)

const cookieSecret = "0123456789abcdef0123456789abcdef"

func signedCookieRequest(t *testing.T, name, value string) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, cookie.New(cookie.WithSecret(cookieSecret)).SetSigned(rec, name, value, 3600))

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	return req
}

func TestCookieAuth(t *testing.T) {
	t.Parallel()

	withSecret := internal.WithCookieOptions(cookie.WithSecret(cookieSecret))

	t.Run("requires a name", func(t *testing.T) {
		t.Parallel()
		_, err := middlewares.CookieAuth(middlewares.CookieAuthConfig{})
		require.ErrorIs(t, err, middlewares.ErrNoCookieName)
	})

	gate, err := middlewares.CookieAuth(middlewares.CookieAuthConfig{Name: "session"})
	require.NoError(t, err)

	t.Run("signed cookie admits", func(t *testing.T) {
		t.Parallel()
		var principal string
		w := guarded(t, signedCookieRequest(t, "session", "user-3"), gate, func(c internal.Context) {
			principal = middlewares.GetPrincipal(c)
		}, withSecret)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "user-3", principal)
	})

	t.Run("unsigned cookie is rejected", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/account", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "user-3"})
		w := guarded(t, req, gate, nil, withSecret)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing cookie is rejected", func(t *testing.T) {
		t.Parallel()
		w := guarded(t, httptest.NewRequest(http.MethodGet, "/account", nil), gate, nil, withSecret)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validate and login redirect", func(t *testing.T) {
		t.Parallel()
		gate, err := middlewares.CookieAuth(middlewares.CookieAuthConfig{
			Name:     "session",
			LoginURL: "/login",
			Validate: func(ctx context.Context, value string) bool { return value == "active" },
		})
		require.NoError(t, err)

		w := guarded(t, signedCookieRequest(t, "session", "active"), gate, nil, withSecret)
		require.Equal(t, http.StatusOK, w.Code)

		w = guarded(t, signedCookieRequest(t, "session", "revoked"), gate, nil, withSecret)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/login", w.Header().Get("Location"))
	})
}
