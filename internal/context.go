package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/trueweb/pkg/cookie"
)

// Context is what handlers, gates and controllers receive. It is a
// context.Context bound to the request, so it can be passed straight to
// anything that takes one.
type Context interface {
	context.Context
	RequestReader
	Responder
	CookieJar

	// Set stores a value on the request context. Gates use it to hand data
	// to the routes they guard.
	Set(key any, value any)

	// Get returns a value stored with Set, or any other request context value.
	Get(key any) any

	// Logger returns the request logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)
}

// RequestReader reads the current request.
type RequestReader interface {
	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Context returns the request's context.Context.
	Context() context.Context

	// Input returns the parsed request snapshot.
	Input() *Request

	// Param returns a route capture, or "" when the route captured nothing
	// under name.
	Param(name string) string

	// Query returns a query string value, or "".
	Query(name string) string

	// QueryDefault returns a query string value, or defaultValue when it is
	// missing or empty.
	QueryDefault(name, defaultValue string) string

	// Form returns a value from the body data of the request method.
	Form(name string) string

	// Header returns a request header.
	Header(name string) string

	// Bind decodes the merged input into v and validates it. Validation
	// failures come back as ValidationErrors with a nil error.
	Bind(v any) (ValidationErrors, error)
}

// Responder writes the response. Only the first status written counts.
type Responder interface {
	// Response returns the response writer.
	Response() http.ResponseWriter

	// ResponseWriter returns the writer that records status and size.
	ResponseWriter() *ResponseWriter

	// Written reports whether a status was already sent.
	Written() bool

	SetHeader(name, value string)
	JSON(code int, v any) error
	String(code int, s string) error
	HTML(code int, html string) error
	NoContent(code int) error
	Redirect(code int, url string) error

	// Render writes a templ-compatible component as HTML.
	Render(code int, component Component) error

	// Error builds an HTTPError for the handler to return. Nothing is written.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError
}

// CookieJar reads and writes cookies through the App's cookie manager.
// Signed and encrypted variants return cookie.ErrNoSecret until a secret is
// configured with WithCookieOptions.
type CookieJar interface {
	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	DeleteCookie(name string)
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, maxAge int) error
	CookieEncrypted(name string) (string, error)
	SetCookieEncrypted(name, value string, maxAge int) error
}

type requestContext struct {
	request *http.Request
	rw      *ResponseWriter
	input   *Request
	logger  *slog.Logger
	cookies *cookie.Manager
}

// newContext wraps w and builds the request snapshot. It consumes r.Body.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}

	return &requestContext{
		request: r,
		rw:      rw,
		input: NewRequest(r,
			WithRequestLogger(app.logger),
			WithMaxMultipartMemory(app.maxMultipartMemory),
			WithMaxBodySize(app.maxBodySize),
		),
		logger:  app.logger,
		cookies: app.cookieManager,
	}
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *requestContext) Err() error                  { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *requestContext) Request() *http.Request   { return c.request }
func (c *requestContext) Context() context.Context { return c.request.Context() }
func (c *requestContext) Input() *Request          { return c.input }
func (c *requestContext) Param(name string) string { return c.input.Param(name) }
func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) Query(name string) string {
	v, _ := c.input.Get.String(name)
	return v
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v, ok := c.input.Get.String(name); ok && v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	v, _ := c.input.Body().String(name)
	return v
}

func (c *requestContext) Bind(v any) (ValidationErrors, error) {
	err := c.input.Bind(v)
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, nil
	}
	return nil, err
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Logger() *slog.Logger { return c.logger }

func (c *requestContext) LogDebug(msg string, attrs ...any) { c.log(slog.LevelDebug, msg, attrs) }
func (c *requestContext) LogInfo(msg string, attrs ...any)  { c.log(slog.LevelInfo, msg, attrs) }
func (c *requestContext) LogWarn(msg string, attrs ...any)  { c.log(slog.LevelWarn, msg, attrs) }
func (c *requestContext) LogError(msg string, attrs ...any) { c.log(slog.LevelError, msg, attrs) }

func (c *requestContext) log(level slog.Level, msg string, attrs []any) {
	c.logger.Log(c.request.Context(), level, msg, attrs...)
}
