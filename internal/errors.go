package internal

import (
	"errors"
	"net/http"
)

// Sentinel errors.
var (
	// ErrControllerNotFound is returned when a route names a controller
	// that was never registered.
	ErrControllerNotFound = errors.New("trueweb: controller not found")

	// ErrRedirectTable is returned when the redirect table cannot be read or parsed.
	ErrRedirectTable = errors.New("trueweb: redirect table unavailable")

	// ErrNoFile is returned when an uploaded file has no content to open.
	ErrNoFile = errors.New("trueweb: no uploaded file")

	// ErrEmptyDocument is returned when an XML body has no root element.
	ErrEmptyDocument = errors.New("trueweb: empty document")
)

// HTTPError is an error with an HTTP status and a user-facing message.
// Handlers return it to let the error handler pick the response status.
type HTTPError struct {
	// Err is the underlying cause. It is logged, never shown to users.
	Err error `json:"-"`

	// Message is safe to show to users.
	Message string `json:"message"`

	// Detail is an optional extended description.
	Detail string `json:"detail,omitempty"`

	// RequestID is filled in by the error handler when known.
	RequestID string `json:"request_id,omitempty"`

	// Code is the HTTP status code.
	Code int `json:"code"`
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Code)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusText returns the standard text for Code.
func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithDetail sets the extended description.
func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Detail = detail
	}
}

// WithCause attaches the underlying error.
func WithCause(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError extracts an HTTPError from err's chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// StatusOf maps an error to the status the default error handler responds with:
// the HTTPError code, 422 for validation errors, 500 for anything else.
func StatusOf(err error) int {
	if he := AsHTTPError(err); he != nil && he.Code != 0 {
		return he.Code
	}
	if IsValidationError(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
