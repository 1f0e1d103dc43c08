// Package logger builds slog loggers for trueweb applications.
//
// Loggers write JSON (or text) to stdout, inject request-scoped attributes
// through context extractors, and optionally forward warnings and errors to
// Sentry.
//
//	log := logger.NewWithConfig(logger.Config{Level: "debug"},
//	    middlewares.RequestIDExtractor(),
//	)
//	log.InfoContext(ctx, "listening", "addr", addr)
//
// An extractor reads one attribute from the context passed to the *Context
// logging methods:
//
//	func tenant(ctx context.Context) (slog.Attr, bool) {
//	    if id, ok := ctx.Value(tenantKey{}).(string); ok {
//	        return slog.String("tenant", id), true
//	    }
//	    return slog.Attr{}, false
//	}
//
// With an empty SentryConfig.DSN the Sentry handler is skipped, which keeps
// local development free of network calls.
package logger
