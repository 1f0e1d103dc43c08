package middlewares

import (
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/trueweb/internal"
)

// RequestLoggerConfig configures the request logging middleware.
type RequestLoggerConfig struct {
	SkipPaths     []string      // Exact paths that are not logged
	SlowThreshold time.Duration // Requests slower than this are logged at warn level
}

// RequestLoggerOption configures RequestLoggerConfig.
type RequestLoggerOption func(*RequestLoggerConfig)

// WithRequestLoggerSkipPaths excludes exact request paths from logging.
func WithRequestLoggerSkipPaths(paths ...string) RequestLoggerOption {
	return func(cfg *RequestLoggerConfig) {
		cfg.SkipPaths = append(cfg.SkipPaths, paths...)
	}
}

// WithRequestLoggerSlowThreshold sets the duration above which a request is
// logged at warn level. Zero disables the check.
func WithRequestLoggerSlowThreshold(d time.Duration) RequestLoggerOption {
	return func(cfg *RequestLoggerConfig) {
		cfg.SlowThreshold = d
	}
}

// RequestLogger returns middleware that logs one line per request with the
// method, path, status, response size and duration. 5xx responses are logged
// at error level, 4xx at warn, everything else at info.
func RequestLogger(opts ...RequestLoggerOption) internal.Middleware {
	cfg := &RequestLoggerConfig{
		SlowThreshold: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			in := c.Input()
			if slices.Contains(cfg.SkipPaths, in.Path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			rw := c.ResponseWriter()
			status := rw.Status()
			if err != nil && !rw.Written() {
				status = internal.StatusOf(err)
			}

			attrs := []any{
				slog.String("method", in.Method),
				slog.String("path", in.Path),
				slog.Int("status", status),
				slog.Int64("size", rw.Size()),
				slog.Duration("duration", elapsed),
			}

			switch {
			case status >= 500:
				c.LogError("request", attrs...)
			case status >= 400:
				c.LogWarn("request", attrs...)
			case cfg.SlowThreshold > 0 && elapsed > cfg.SlowThreshold:
				c.LogWarn("slow request", attrs...)
			default:
				c.LogInfo("request", attrs...)
			}

			return err
		}
	}
}
