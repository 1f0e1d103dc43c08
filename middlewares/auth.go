package middlewares

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrymomot/trueweb/internal"
)

// principalKey is the context key for the identity an auth gate accepted.
type principalKey struct{}

// GetPrincipal returns the identity stored by the auth gate that admitted
// the request: the basic auth username, the subject a bearer token resolved
// to, the JWT "sub" claim, or the signed cookie value.
// Returns an empty string when no auth gate ran.
func GetPrincipal(c internal.Context) string {
	return internal.ContextValue[string](c, principalKey{})
}

func setPrincipal(c internal.Context, principal string) {
	c.Set(principalKey{}, principal)
}

// deny answers a vetoed request and reports false so it can be returned
// straight from a gate. The response is rendered by h, or by the default
// error handler when h is nil.
func deny(c internal.Context, h internal.ErrorHandler, err *internal.HTTPError) bool {
	if c.Written() {
		return false
	}
	if h == nil {
		h = internal.DefaultErrorHandler
	}
	if herr := h(c, err); herr != nil {
		c.LogError("gate response failed", "error", herr)
	}
	return false
}

// constantTimeEqual compares two strings in constant time by first hashing
// them with SHA-256, so unequal lengths leak nothing either.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}
