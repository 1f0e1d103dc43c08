package middlewares

import (
	"fmt"

	"github.com/dmitrymomot/trueweb/internal"
)

// BasicAuthConfig configures the HTTP Basic Auth gate (RFC 7617).
type BasicAuthConfig struct {
	// ValidateFunc checks credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username to password.
	Credentials map[string]string

	// ErrorHandler renders the 401 response. Defaults to internal.DefaultErrorHandler.
	ErrorHandler internal.ErrorHandler

	// Realm is sent in the WWW-Authenticate header. Defaults to "Restricted".
	Realm string
}

// BasicAuth returns a gate that admits requests carrying valid Basic
// credentials. Vetoed requests get a 401 with a WWW-Authenticate challenge.
// The accepted username is available through GetPrincipal.
//
// Example:
//
//	admin, err := middlewares.BasicAuth(middlewares.BasicAuthConfig{
//	    Credentials: map[string]string{"admin": cfg.AdminPassword},
//	})
//	r.Group("/admin/*", adminRoutes, admin)
func BasicAuth(cfg BasicAuthConfig) (internal.Gate, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	if validate == nil {
		credentials := cfg.Credentials
		validate = func(username, password string) bool {
			expected, exists := credentials[username]
			// Always compare so the timing does not reveal unknown usernames.
			match := constantTimeEqual(password, expected)
			return exists && match
		}
	}

	return func(c internal.Context) bool {
		username, password, ok := c.Request().BasicAuth()
		if !ok || !validate(username, password) {
			c.SetHeader("WWW-Authenticate", challenge)
			return deny(c, cfg.ErrorHandler, internal.ErrUnauthorized("Authentication required"))
		}

		setPrincipal(c, username)
		return true
	}, nil
}
