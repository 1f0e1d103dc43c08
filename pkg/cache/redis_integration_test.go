//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/pkg/cache"
	"github.com/dmitrymomot/trueweb/pkg/redis"
)

func TestRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	ctx := context.Background()
	client, err := redis.Open(ctx, redis.Config{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	type session struct {
		User  string   `json:"user"`
		Roles []string `json:"roles"`
	}

	c := cache.NewRedis[session](client, cache.WithRedisPrefix("trueweb-test:"))
	t.Cleanup(func() { _ = c.Delete(ctx, "s1") })

	_, err = c.Get(ctx, "s1")
	require.ErrorIs(t, err, cache.ErrNotFound)

	want := session{User: "ann", Roles: []string{"admin"}}
	require.NoError(t, c.Set(ctx, "s1", want, time.Minute))

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	ttl, err := client.TTL(ctx, "trueweb-test:s1").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, "s1"))
	_, err = c.Get(ctx, "s1")
	require.ErrorIs(t, err, cache.ErrNotFound)
}
