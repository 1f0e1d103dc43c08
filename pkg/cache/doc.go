// Package cache provides a small generic TTL cache with an in-memory and a
// Redis implementation. The bearer token gate uses it to map tokens to
// subjects.
//
//	tokens := cache.NewMemory[string]()
//	subject, err := cache.GetOrSet(ctx, tokens, token, func(ctx context.Context) (string, time.Duration, error) {
//	    return lookupToken(ctx, token)
//	})
package cache
