package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/dmitrymomot/trueweb"
	"github.com/dmitrymomot/trueweb/middlewares"
	"github.com/dmitrymomot/trueweb/pkg/cache"
	"github.com/dmitrymomot/trueweb/pkg/config"
)

// gates holds the auth gates enabled by the configuration. A nil gate
// means the routes behind it are not mounted.
type gates struct {
	admin   trueweb.Gate
	bearer  trueweb.Gate
	jwt     trueweb.Gate
	session trueweb.Gate
	json    trueweb.Gate
}

func newGates(cfg config.Config, tokens cache.Cache[string]) (*gates, error) {
	g := &gates{}
	var err error

	g.json, err = middlewares.ContentType(middlewares.ContentTypeConfig{
		AllowedTypes: []string{"application/json"},
	})
	if err != nil {
		return nil, err
	}

	g.bearer, err = middlewares.BearerToken(middlewares.BearerConfig{Store: tokens})
	if err != nil {
		return nil, err
	}

	if cfg.Auth.AdminUser != "" {
		g.admin, err = middlewares.BasicAuth(middlewares.BasicAuthConfig{
			Credentials: map[string]string{cfg.Auth.AdminUser: cfg.Auth.AdminPassword},
			Realm:       "trueweb admin",
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.Auth.JWTSecret != "" {
		g.jwt, err = middlewares.JWT(middlewares.JWTConfig{
			Secret: []byte(cfg.Auth.JWTSecret),
			Issuer: cfg.Auth.JWTIssuer,
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.Auth.CookieSecret != "" {
		g.session, err = middlewares.CookieAuth(middlewares.CookieAuthConfig{
			Name:     cfg.Auth.CookieName,
			LoginURL: "/login",
		})
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

func newApp(cfg config.Config, log *slog.Logger, tokens cache.Cache[string], checks ...trueweb.HealthOption) (*trueweb.App, error) {
	g, err := newGates(cfg, tokens)
	if err != nil {
		return nil, err
	}

	opts := []trueweb.Option{
		trueweb.WithCustomLogger(log),
		trueweb.WithMiddleware(
			middlewares.RequestID(),
			middlewares.RequestLogger(),
			middlewares.Recover(),
		),
		trueweb.WithController("pages/show", trueweb.ControllerFunc(showPage)),
		trueweb.WithHandlers(
			&siteHandler{auth: cfg.Auth, gates: g},
			&apiHandler{tokens: tokens, ttl: cfg.Tokens.TTL, gates: g},
		),
		trueweb.WithHealthChecks(checks...),
	}

	if cfg.RedirectTable != "" {
		opts = append(opts, trueweb.WithRedirectTable(cfg.RedirectTable, cfg.RedirectCode))
	}
	if cfg.StaticDir != "" {
		opts = append(opts, trueweb.WithStaticFiles("/static/", os.DirFS(cfg.StaticDir), "."))
	}
	if cfg.Auth.CookieSecret != "" {
		opts = append(opts, trueweb.WithCookieOptions(
			trueweb.WithCookieSecret(cfg.Auth.CookieSecret),
			trueweb.WithCookieSameSite(http.SameSiteLaxMode),
		))
	}

	log.InfoContext(context.Background(), "app configured",
		slog.Bool("redirects", cfg.RedirectTable != ""),
		slog.Bool("admin", g.admin != nil),
		slog.Bool("jwt", g.jwt != nil),
		slog.Bool("sessions", g.session != nil),
	)

	return trueweb.New(opts...), nil
}
