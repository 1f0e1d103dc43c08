package internal

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/trueweb/pkg/health"
)

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
	timeout       time.Duration
}

// HealthOption configures the health endpoints.
type HealthOption func(*healthConfig)

// WithHealthChecks mounts a liveness and a readiness endpoint ahead of the
// router. Liveness always answers OK; readiness runs the registered checks
// in parallel and answers 503 when one fails.
//
// Example:
//
//	trueweb.WithHealthChecks(
//	    trueweb.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			checks:        make(health.Checks),
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLivenessPath moves the liveness endpoint. Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath moves the readiness endpoint. Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessTimeout bounds one readiness run. Defaults to 5 seconds.
func WithReadinessTimeout(d time.Duration) HealthOption {
	return func(c *healthConfig) {
		c.timeout = d
	}
}

// WithReadinessCheck adds a named readiness check. A check registered twice
// under the same name replaces the first.
//
// Example:
//
//	trueweb.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return func(c *healthConfig) {
		if fn != nil {
			c.checks[name] = fn
		}
	}
}

func (c *healthConfig) mount(r chi.Router, log *slog.Logger) {
	r.Get(c.livenessPath, health.LivenessHandler())
	r.Get(c.readinessPath, health.ReadinessHandler(c.checks,
		health.WithLogger(log),
		health.WithTimeout(c.timeout),
	))
}
