package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/trueweb/pkg/cookie"
	"github.com/dmitrymomot/trueweb/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle.
//
// Health checks and static files are served by a chi mux. Every other request
// is dispatched through a router session: the redirect tables are consulted
// first, then each Handler declares its routes against the live request in
// registration order.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router             chi.Router
	errorHandler       ErrorHandler
	notFoundHandler    HandlerFunc
	healthConfig       *healthConfig
	logger             *slog.Logger
	cookieManager      *cookie.Manager
	controllers        controllerRegistry
	redirectTables     []redirectTable
	middlewares        []Middleware
	handlers           []Handler
	staticRoutes       []staticRoute
	maxMultipartMemory int64
	maxBodySize        int64
}

// redirectTable is a JSON redirect table consulted before any route.
type redirectTable struct {
	path string
	code int
}

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := trueweb.New(
//	    trueweb.WithMiddleware(middlewares.RequestID()),
//	    trueweb.WithRedirectTable("redirects.json", http.StatusMovedPermanently),
//	    trueweb.WithHandlers(
//	        handlers.NewPages(),
//	        handlers.NewAPI(store),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:             chi.NewRouter(),
		logger:             logger.NewNope(), // Default: noop logger (before options)
		cookieManager:      cookie.New(),     // Default: cookie manager (no secret)
		controllers:        make(controllerRegistry),
		maxMultipartMemory: defaultMaxMultipartMemory,
		maxBodySize:        defaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router for the App.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// setupRoutes mounts the fixed endpoints and sends everything else to dispatch.
func (a *App) setupRoutes() {
	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}
	if a.healthConfig != nil {
		a.healthConfig.mount(a.router, a.logger)
	}

	a.router.NotFound(a.dispatch)
	a.router.MethodNotAllowed(a.dispatch)
}

// dispatch builds the request snapshot and runs a router session for it.
func (a *App) dispatch(w http.ResponseWriter, r *http.Request) {
	c := newContext(w, r, a)
	defer func() {
		if err := c.input.Close(); err != nil {
			a.logger.WarnContext(r.Context(), "failed to remove upload temp files", slog.String("error", err.Error()))
		}
	}()

	h := chain(a.route, a.middlewares)
	if err := h(c); err != nil {
		a.handleError(c, err)
	}
}

// route runs the redirect tables and every handler's routes against c.
func (a *App) route(c Context) error {
	s := newSession(c)
	s.controllers = a.controllers

	for _, t := range a.redirectTables {
		if s.Redirect(t.path, t.code) || s.Matched() {
			return s.State().Err()
		}
	}

	for _, h := range a.handlers {
		h.Routes(s)
	}

	if s.Matched() {
		return s.State().Err()
	}

	// A vetoing gate may have answered the request itself.
	if c.Written() {
		return nil
	}

	if a.notFoundHandler != nil {
		return a.notFoundHandler(c)
	}
	return ErrNotFound("Page not found")
}

// handleError handles errors from handlers using the configured error handler.
func (a *App) handleError(c Context, err error) {
	status := StatusOf(err)
	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("status", status),
		slog.String("method", c.Input().Method),
		slog.String("path", c.Input().Path),
	}
	if status >= http.StatusInternalServerError {
		c.LogError("request failed", attrs...)
	} else {
		c.LogDebug("request failed", attrs...)
	}

	// Check if response has already been written
	if c.Written() {
		return
	}

	h := a.errorHandler
	if h == nil {
		h = DefaultErrorHandler
	}
	if herr := h(c, err); herr != nil {
		c.LogError("error handler failed", slog.String("error", herr.Error()))
	}
}
