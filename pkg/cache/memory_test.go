package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/pkg/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()
		m := cache.NewMemory[string]()
		t.Cleanup(func() { _ = m.Close() })

		_, err := m.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)

		require.NoError(t, m.Set(ctx, "k", "v", 0))
		v, err := m.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "v", v)

		require.NoError(t, m.Delete(ctx, "k"))
		_, err = m.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()
		m := cache.NewMemory[int](cache.WithCleanupInterval(0))
		t.Cleanup(func() { _ = m.Close() })

		require.NoError(t, m.Set(ctx, "short", 1, 10*time.Millisecond))
		require.NoError(t, m.Set(ctx, "forever", 2, -1))

		time.Sleep(30 * time.Millisecond)
		_, err := m.Get(ctx, "short")
		require.ErrorIs(t, err, cache.ErrNotFound)
		v, err := m.Get(ctx, "forever")
		require.NoError(t, err)
		require.Equal(t, 2, v)
	})

	t.Run("default ttl", func(t *testing.T) {
		t.Parallel()
		m := cache.NewMemory[int](cache.WithDefaultTTL(10*time.Millisecond), cache.WithCleanupInterval(0))
		t.Cleanup(func() { _ = m.Close() })

		require.NoError(t, m.Set(ctx, "k", 1, 0))
		time.Sleep(30 * time.Millisecond)
		_, err := m.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("janitor purges", func(t *testing.T) {
		t.Parallel()
		m := cache.NewMemory[int](cache.WithCleanupInterval(5 * time.Millisecond))
		t.Cleanup(func() { _ = m.Close() })

		require.NoError(t, m.Set(ctx, "k", 1, time.Millisecond))
		require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("closed cache rejects writes", func(t *testing.T) {
		t.Parallel()
		m := cache.NewMemory[int]()
		require.NoError(t, m.Close())
		require.NoError(t, m.Close())
		require.ErrorIs(t, m.Set(ctx, "k", 1, 0), cache.ErrClosed)
		require.ErrorIs(t, m.Delete(ctx, "k"), cache.ErrClosed)
	})
}
