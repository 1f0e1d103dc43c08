package cache

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/singleflight"
)

// Cache is a key-value store with per-entry expiry.
//
// TTL semantics for Set: a positive duration expires the entry after that
// long, zero uses the cache's default TTL, and a negative duration never
// expires.
type Cache[V any] interface {
	// Get returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var loads singleflight.Group

type loaded[V any] struct {
	value V
	ttl   time.Duration
}

// GetOrSet returns the cached value for key or computes it with fn on a miss.
// Concurrent misses for the same key share one fn call. Errors from fn are
// returned and nothing is cached; a failure to store the computed value is
// ignored.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := loads.Do(fmt.Sprintf("%p:%s", c, key), func() (any, error) {
		v, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, v, ttl)
		return loaded[V]{value: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(loaded[V]).value, nil
}

// codec serialises values for byte-oriented backends.
type codec[V any] struct{}

func (codec[V]) encode(v V) ([]byte, error) {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCodec, err)
	}
	return data, nil
}

func (codec[V]) decode(data []byte) (V, error) {
	var v V
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrCodec, err)
	}
	return v, nil
}
