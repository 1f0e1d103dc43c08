// Command trueweb runs a trueweb server configured from the environment.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/trueweb"
	"github.com/dmitrymomot/trueweb/middlewares"
	"github.com/dmitrymomot/trueweb/pkg/cache"
	"github.com/dmitrymomot/trueweb/pkg/config"
	"github.com/dmitrymomot/trueweb/pkg/logger"
	"github.com/dmitrymomot/trueweb/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("trueweb stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewWithConfig(cfg.Log, middlewares.RequestIDExtractor())

	var (
		tokens cache.Cache[string]
		checks []trueweb.HealthOption
		hooks  = []trueweb.RunOption{
			trueweb.Address(cfg.Addr),
			trueweb.Logger(log),
			trueweb.ShutdownTimeout(cfg.ShutdownTimeout),
		}
	)

	if cfg.Redis.URL != "" {
		client, err := redis.Open(context.Background(), cfg.Redis)
		if err != nil {
			return err
		}
		tokens = cache.NewRedis[string](client,
			cache.WithRedisPrefix(cfg.Tokens.Prefix),
			cache.WithRedisDefaultTTL(cfg.Tokens.TTL),
		)
		checks = append(checks, trueweb.WithReadinessCheck("redis", redis.Healthcheck(client)))
		hooks = append(hooks, trueweb.ShutdownHook(redis.Shutdown(client)))
	} else {
		log.Warn("REDIS_URL is not set, bearer tokens are kept in memory")
		mem := cache.NewMemory[string](cache.WithDefaultTTL(cfg.Tokens.TTL))
		tokens = mem
		hooks = append(hooks, trueweb.ShutdownHook(func(context.Context) error {
			return mem.Close()
		}))
	}

	app, err := newApp(cfg, log, tokens, checks...)
	if err != nil {
		return err
	}
	return app.Run(hooks...)
}
