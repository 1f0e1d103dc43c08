package middlewares

import (
	"errors"
	"fmt"
)

// Configuration errors returned by gate constructors.
var (
	// ErrNoAuthSource is returned when BasicAuthConfig has neither
	// ValidateFunc nor Credentials.
	ErrNoAuthSource = errors.New("middlewares: basic auth needs ValidateFunc or Credentials")

	// ErrNoTokenStore is returned when BearerConfig has no Store.
	ErrNoTokenStore = errors.New("middlewares: bearer auth needs a token store")

	// ErrNoSigningKey is returned when JWTConfig has neither Secret nor Keyfunc.
	ErrNoSigningKey = errors.New("middlewares: jwt auth needs a secret or keyfunc")

	// ErrNoCookieName is returned when CookieAuthConfig has no cookie name.
	ErrNoCookieName = errors.New("middlewares: cookie auth needs a cookie name")

	// ErrNoAllowedTypes is returned when ContentTypeConfig.AllowedTypes is empty.
	ErrNoAllowedTypes = errors.New("middlewares: content type gate needs at least one allowed type")
)

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// IsPanicError returns true if the error is a PanicError.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
