package internal

import (
	"log/slog"

	"github.com/dmitrymomot/trueweb/pkg/cookie"
	"github.com/dmitrymomot/trueweb/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware to the application.
// Global middleware wraps the whole dispatch of a request, redirect tables
// and route matching included. Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called for every request, in the order
// the handlers were registered, until one of their routes matches.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithController registers a named controller for Router.Controller routes.
// Names are compared after trimming spaces and slashes and dropping a
// trailing ".go", so "admin/users" and "/admin/users.go" are the same.
//
// Example:
//
//	trueweb.New(
//	    trueweb.WithController("blog/post", controllers.NewPost(store)),
//	)
func WithController(name string, c Controller) Option {
	return func(a *App) {
		a.controllers.register(name, c)
	}
}

// WithRedirectTable consults the JSON redirect table at path before any route.
// code is the redirect status; only 301, 303, 307 and 308 are used as given,
// anything else becomes 301. The file is read on every request.
// Tables are consulted in the order they were added.
//
// Example:
//
//	trueweb.New(
//	    trueweb.WithRedirectTable("config/redirects.json", http.StatusMovedPermanently),
//	)
func WithRedirectTable(path string, code int) Option {
	return func(a *App) {
		if path != "" {
			a.redirectTables = append(a.redirectTables, redirectTable{path: path, code: code})
		}
	}
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error and nothing was written yet.
//
// Example:
//
//	trueweb.WithErrorHandler(func(c trueweb.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets the handler run when no route matched.
//
// Example:
//
//	trueweb.WithNotFoundHandler(func(c trueweb.Context) error {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
//
// Example:
//
//	trueweb.New(
//	    trueweb.WithLogger("web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	trueweb.New(
//	    trueweb.WithCookieOptions(
//	        cookie.WithSecret(os.Getenv("COOKIE_SECRET")),
//	        cookie.WithSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithBodyLimits sets how much of a request body is read. multipartMemory is
// the part of a multipart body kept in memory (the rest spills to temp
// files); maxBody caps every body, multipart included. Zero keeps the 32MB
// default. Spilled temp files are removed when the request finishes.
func WithBodyLimits(multipartMemory, maxBody int64) Option {
	return func(a *App) {
		if multipartMemory > 0 {
			a.maxMultipartMemory = multipartMemory
		}
		if maxBody > 0 {
			a.maxBodySize = maxBody
		}
	}
}
