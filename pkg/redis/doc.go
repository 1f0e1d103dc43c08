// Package redis opens go-redis clients from a Config and exposes the
// readiness check and shutdown hook the server wires in.
//
//	client, err := redis.Open(ctx, redis.Config{URL: "redis://localhost:6379/0"})
//	app := trueweb.New(
//	    trueweb.WithHealthChecks(trueweb.WithReadinessCheck("redis", redis.Healthcheck(client))),
//	)
//	app.Run(trueweb.ShutdownHook(redis.Shutdown(client)))
package redis
