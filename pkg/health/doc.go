// Package health serves liveness and readiness probes.
//
// Liveness answers 200 as long as the process can serve HTTP. Readiness runs
// every registered check in parallel under a shared deadline and answers 503
// if any fails:
//
//	mux.Handle("/health/ready", health.ReadinessHandler(health.Checks{
//		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
//	}, health.WithTimeout(2*time.Second)))
//
// Both handlers answer plain text by default and JSON when the request
// carries Accept: application/json or ?format=json.
package health
