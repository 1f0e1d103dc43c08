package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the level, format and destinations of a logger.
// Field tags let it be embedded in an env-loaded application config.
type Config struct {
	// Output defaults to os.Stdout.
	Output io.Writer `env:"-" yaml:"-"`

	Level     string `env:"LOG_LEVEL" envDefault:"info" yaml:"level"`
	Format    string `env:"LOG_FORMAT" envDefault:"json" yaml:"format"`
	AddSource bool   `env:"LOG_ADD_SOURCE" yaml:"add_source"`

	Sentry SentryConfig `yaml:"sentry"`
}

// New creates a JSON logger at info level writing to stdout, with optional
// context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithConfig(Config{}, extractors...)
}

// NewWithConfig creates a logger from cfg. When cfg.Sentry has a DSN, warn
// and error records are also sent to Sentry. Extractors apply to every
// destination.
func NewWithConfig(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}

	if sh := newSentryHandler(cfg.Sentry, h); sh != nil {
		h = newFanout(h, sh)
	}

	return slog.New(WithExtractors(h, extractors...))
}

// NewNope creates a logger that discards all output.
// Use this as a default when logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a slog
// level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
