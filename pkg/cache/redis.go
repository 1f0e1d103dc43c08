package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOption configures the Redis-backed cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

// WithRedisPrefix namespaces every key, e.g. "tokens:" + key.
func WithRedisPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithRedisDefaultTTL sets the expiry used when Set is called with a zero
// TTL. Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// Redis is a Cache shared between processes through Redis. Values are
// stored as JSON.
type Redis[V any] struct {
	client redis.Cmdable
	codec  codec[V]
	opts   redisOptions
}

// NewRedis creates a Redis-backed cache. The client's lifecycle stays with
// the caller (see pkg/redis.Shutdown).
//
// Example:
//
//	tokens := cache.NewRedis[string](client, cache.WithRedisPrefix("tokens:"))
func NewRedis[V any](client redis.Cmdable, opts ...RedisOption) *Redis[V] {
	o := redisOptions{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	return &Redis[V]{client: client, opts: o}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	data, err := r.client.Get(ctx, r.opts.prefix+key).Bytes()
	if err != nil {
		var zero V
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return r.codec.decode(data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.codec.encode(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	// Redis treats 0 as "no expiry".
	return r.client.Set(ctx, r.opts.prefix+key, data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.opts.prefix+key).Err()
}

// Close is a no-op; the client is owned by the caller.
func (r *Redis[V]) Close() error {
	return nil
}

var _ Cache[any] = (*Redis[any])(nil)
