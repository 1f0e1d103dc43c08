package middlewares

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/trueweb/internal"
)

// CookieAuthConfig configures the signed cookie gate.
type CookieAuthConfig struct {
	// Validate checks the cookie value, for example against a session store.
	// When nil, any correctly signed value is accepted.
	Validate func(ctx context.Context, value string) bool

	// ErrorHandler renders the veto response. Defaults to internal.DefaultErrorHandler.
	ErrorHandler internal.ErrorHandler

	// Name is the cookie name. Required.
	Name string

	// LoginURL, when set, turns the veto into a 303 redirect instead of a 401.
	LoginURL string
}

// CookieAuth returns a gate that admits requests carrying a cookie signed
// with the App's cookie secret (see WithCookieOptions). The cookie value is
// available through GetPrincipal.
func CookieAuth(cfg CookieAuthConfig) (internal.Gate, error) {
	if cfg.Name == "" {
		return nil, ErrNoCookieName
	}

	return func(c internal.Context) bool {
		value, err := c.CookieSigned(cfg.Name)
		if err == nil && value != "" && (cfg.Validate == nil || cfg.Validate(c, value)) {
			setPrincipal(c, value)
			return true
		}

		if cfg.LoginURL != "" {
			if rerr := c.Redirect(http.StatusSeeOther, cfg.LoginURL); rerr != nil {
				c.LogError("login redirect failed", "error", rerr)
			}
			return false
		}
		return deny(c, cfg.ErrorHandler, internal.ErrUnauthorized("Authentication required"))
	}, nil
}
