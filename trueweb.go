package trueweb

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/trueweb/internal"
	"github.com/dmitrymomot/trueweb/pkg/cookie"
	"github.com/dmitrymomot/trueweb/pkg/health"
	"github.com/dmitrymomot/trueweb/pkg/logger"
)

// Type aliases - public API
type (
	// App owns the HTTP mux and dispatches every request through the
	// registered handlers.
	App = internal.App

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Router is the matching session handlers declare routes on.
	Router = internal.Router

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// Gate guards a route group. Returning false skips the group body.
	Gate = internal.Gate

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Controller is a named handler dispatched by Router.Controller.
	Controller = internal.Controller

	// ControllerFunc adapts a function to Controller.
	ControllerFunc = internal.ControllerFunc

	// Vars are the auxiliary values passed to a controller.
	Vars = internal.Vars

	// Request is the parsed snapshot of the current request.
	Request = internal.Request

	// Data is a read-only bag of decoded values with sanitizing accessors.
	Data = internal.Data

	// FileField groups the files uploaded under one form field.
	FileField = internal.FileField

	// UploadedFile describes one uploaded file.
	UploadedFile = internal.UploadedFile

	// Params holds the captures of a matched pattern.
	Params = internal.Params

	// Pattern is a parsed route pattern.
	Pattern = internal.Pattern

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// RouterOption configures a standalone router session.
	RouterOption = internal.RouterOption

	// RequestOption configures request parsing.
	RequestOption = internal.RequestOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// HTTPError is an error carrying an HTTP status and a user-facing message.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ValidationErrors is a collection of validation errors.
	ValidationErrors = internal.ValidationErrors

	// FieldError is a single validation failure.
	FieldError = internal.FieldError

	// Extractor pulls a value from the first source that has one.
	Extractor = internal.Extractor

	// ExtractorSource is one place an Extractor looks.
	ExtractorSource = internal.ExtractorSource

	// ResponseWriter records the status and size of a response.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option
)

// Errors.
var (
	ErrControllerNotFound = internal.ErrControllerNotFound
	ErrRedirectTable      = internal.ErrRedirectTable
	ErrNoFile             = internal.ErrNoFile

	ErrCookieNotFound = cookie.ErrNotFound
	ErrCookieNoSecret = cookie.ErrNoSecret
	ErrCookieBadSig   = cookie.ErrBadSig
	ErrCookieDecrypt  = cookie.ErrDecrypt
)

// Constructors

// New creates a new application with the given options.
//
// Example:
//
//	app := trueweb.New(
//	    trueweb.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    trueweb.WithRedirectTable("redirects.json", http.StatusMovedPermanently),
//	    trueweb.WithHandlers(handlers.NewBlog(), handlers.NewPages()),
//	)
//
//	err := app.Run(trueweb.Address(":8080"), trueweb.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewRouter opens a matching session for c outside of an App.
// Useful in tests and when embedding the matcher in another handler.
func NewRouter(c Context, opts ...RouterOption) Router {
	return internal.NewRouter(c, opts...)
}

// WithRouterControllers registers controllers on a standalone router.
func WithRouterControllers(controllers map[string]Controller) RouterOption {
	return internal.WithRouterControllers(controllers)
}

// NewRequest parses r into a request snapshot.
func NewRequest(r *http.Request, opts ...RequestOption) *Request {
	return internal.NewRequest(r, opts...)
}

// NewData wraps a copy of m.
func NewData(m map[string]any) *Data {
	return internal.NewData(m)
}

// ParsePattern parses a route pattern for repeated matching.
func ParsePattern(pattern string) *Pattern {
	return internal.ParsePattern(pattern)
}

// Match reports whether path matches pattern and returns its captures.
func Match(pattern, path string) (Params, bool) {
	return internal.Match(pattern, path)
}

// LookupRedirect resolves requestPath against the JSON redirect table at
// tablePath. The table is read on every call.
func LookupRedirect(tablePath, requestPath string) (string, bool, error) {
	return internal.LookupRedirect(tablePath, requestPath)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Their Routes methods run on every request, in registration order.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithController registers a named controller for Router.Controller.
func WithController(name string, c Controller) Option {
	return internal.WithController(name, c)
}

// WithRedirectTable consults the JSON table at path before any handler.
// A hit answers with code and no route runs.
func WithRedirectTable(path string, code int) Option {
	return internal.WithRedirectTable(path, code)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	trueweb.New(
//	    trueweb.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the handler that runs when no route matched.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks enables health check endpoints.
// Liveness (/health/live) always returns OK while the process serves.
// Readiness (/health/ready) runs all configured checks.
//
// Example:
//
//	trueweb.WithHealthChecks(
//	    trueweb.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager behind Context cookies.
//
// Example:
//
//	trueweb.New(
//	    trueweb.WithCookieOptions(
//	        trueweb.WithCookieSecret(os.Getenv("COOKIE_SECRET")),
//	        trueweb.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithBodyLimits sets the multipart memory limit and the maximum body size.
func WithBodyLimits(multipartMemory, maxBody int64) Option {
	return internal.WithBodyLimits(multipartMemory, maxBody)
}

// Request options

// WithRequestLogger sets the logger that reports malformed bodies.
func WithRequestLogger(l *slog.Logger) RequestOption {
	return internal.WithRequestLogger(l)
}

// WithMaxMultipartMemory caps the memory used to parse multipart bodies.
func WithMaxMultipartMemory(n int64) RequestOption {
	return internal.WithMaxMultipartMemory(n)
}

// WithMaxBodySize caps the number of body bytes read.
func WithMaxBodySize(n int64) RequestOption {
	return internal.WithMaxBodySize(n)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessTimeout bounds one readiness run.
func WithReadinessTimeout(d time.Duration) HealthOption {
	return internal.WithReadinessTimeout(d)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the HTTP server address.
// Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Listener serves on ln instead of listening on Address.
func Listener(ln net.Listener) RunOption {
	return internal.Listener(ln)
}

// Logger sets the server lifecycle logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run after the listener is bound.
// A failing hook aborts the start.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or the type differs.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a route capture converted to T.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a query parameter converted to T.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns a query parameter converted to T, or defaultValue.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

// Input returns a value from the merged query and body data converted to T.
func Input[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) (T, bool) {
	return internal.Input[T](c, name)
}

// Var returns a controller variable as T.
func Var[T any](vars Vars, name string) (T, bool) {
	return internal.Var[T](vars, name)
}

// Extractors

// NewExtractor tries sources in order and returns the first value found.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

// FromCookie reads a plain cookie.
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }

// FromCookieSigned reads a signed cookie.
func FromCookieSigned(name string) ExtractorSource { return internal.FromCookieSigned(name) }

// FromCookieEncrypted reads an encrypted cookie.
func FromCookieEncrypted(name string) ExtractorSource { return internal.FromCookieEncrypted(name) }

// FromForm reads a body field.
func FromForm(name string) ExtractorSource { return internal.FromForm(name) }

// FromInput reads the merged query and body data.
func FromInput(name string) ExtractorSource { return internal.FromInput(name) }

// FromParam reads a route capture.
func FromParam(name string) ExtractorSource { return internal.FromParam(name) }

// FromBearerToken reads the token of an "Authorization: Bearer" header.
func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }

// Errors

// NewHTTPError creates an HTTPError with the given status.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// ErrBadRequest creates a 400 error.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrUnauthorized creates a 401 error.
func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

// ErrForbidden creates a 403 error.
func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

// ErrNotFound creates a 404 error.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrUnprocessable creates a 422 error.
func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

// ErrInternal creates a 500 error.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// WithDetail attaches a detail shown to the client.
func WithDetail(detail string) HTTPErrorOption {
	return internal.WithDetail(detail)
}

// WithCause attaches the underlying error. It is logged, never shown.
func WithCause(err error) HTTPErrorOption {
	return internal.WithCause(err)
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// IsValidationError reports whether err carries ValidationErrors.
func IsValidationError(err error) bool {
	return internal.IsValidationError(err)
}

// StatusOf maps an error to the status the default error handler uses.
func StatusOf(err error) int {
	return internal.StatusOf(err)
}

// DefaultErrorHandler renders err as JSON or as an HTML error page.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// Cookie options

// WithCookieSecret sets the secret for signing and encryption.
// Must be at least 32 bytes.
func WithCookieSecret(secret string) CookieOption {
	return cookie.WithSecret(secret)
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

// WithCookieHTTPOnly sets the HttpOnly flag.
func WithCookieHTTPOnly(httpOnly bool) CookieOption {
	return cookie.WithHTTPOnly(httpOnly)
}

// WithCookieSameSite sets the SameSite attribute.
func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}
