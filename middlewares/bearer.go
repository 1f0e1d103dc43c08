package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/trueweb/internal"
	"github.com/dmitrymomot/trueweb/pkg/cache"
)

// TokenResolver looks up the subject an opaque token belongs to, with the
// duration the answer may be cached for. It returns cache.ErrNotFound for
// unknown tokens.
type TokenResolver func(ctx context.Context, token string) (subject string, ttl time.Duration, err error)

// BearerConfig configures the bearer token gate.
type BearerConfig struct {
	// Store maps tokens to subjects. Required.
	Store cache.Cache[string]

	// Resolve is consulted on a store miss and its answer is cached in Store.
	// When nil, only tokens already in Store are accepted.
	Resolve TokenResolver

	// ErrorHandler renders the 401 response. Defaults to internal.DefaultErrorHandler.
	ErrorHandler internal.ErrorHandler

	// Extractor locates the token. Defaults to the Authorization bearer header.
	Extractor *internal.Extractor
}

// BearerToken returns a gate that admits requests whose token resolves to a
// subject. The subject is available through GetPrincipal.
//
// Example:
//
//	tokens := cache.NewRedis[string](client, cache.WithRedisPrefix("tokens:"))
//	api, err := middlewares.BearerToken(middlewares.BearerConfig{Store: tokens})
//	r.Group("/api/*", apiRoutes, api)
func BearerToken(cfg BearerConfig) (internal.Gate, error) {
	if cfg.Store == nil {
		return nil, ErrNoTokenStore
	}

	extractor := internal.NewExtractor(internal.FromBearerToken())
	if cfg.Extractor != nil {
		extractor = *cfg.Extractor
	}

	lookup := func(ctx context.Context, token string) (string, error) {
		return cfg.Store.Get(ctx, token)
	}
	if cfg.Resolve != nil {
		lookup = func(ctx context.Context, token string) (string, error) {
			return cache.GetOrSet(ctx, cfg.Store, token, func(ctx context.Context) (string, time.Duration, error) {
				return cfg.Resolve(ctx, token)
			})
		}
	}

	return func(c internal.Context) bool {
		token, ok := extractor.Extract(c)
		if !ok {
			c.SetHeader("WWW-Authenticate", `Bearer`)
			return deny(c, cfg.ErrorHandler, internal.ErrUnauthorized("Missing token"))
		}

		subject, err := lookup(c, token)
		if err != nil {
			if !errors.Is(err, cache.ErrNotFound) {
				c.LogError("token lookup failed", "error", err)
			}
			c.SetHeader("WWW-Authenticate", `Bearer error="invalid_token"`)
			return deny(c, cfg.ErrorHandler, internal.ErrUnauthorized("Invalid token"))
		}

		setPrincipal(c, subject)
		return true
	}, nil
}
