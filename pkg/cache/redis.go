package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces cardstack entries in a shared database.
const DefaultRedisPrefix = "cardstack:"

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string

	// Prefix is prepended to every key. Empty selects DefaultRedisPrefix.
	Prefix string

	// Attempts bounds the calls made for one operation when the server is
	// unreachable. Zero means a single attempt.
	Attempts int

	// Delay is the wait before the first retry; it doubles per retry.
	Delay time.Duration
}

// RedisCache stores entries in Redis with native expiry.
type RedisCache struct {
	client   *redis.Client
	prefix   string
	attempts int
	delay    time.Duration
}

// NewRedisCache connects to the server at opts.URL. The connection is made
// lazily on first use.
func NewRedisCache(opts RedisOptions) (*RedisCache, error) {
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultRedisPrefix
	}
	if opts.Delay <= 0 {
		opts.Delay = 200 * time.Millisecond
	}
	return &RedisCache{
		client:   redis.NewClient(ro),
		prefix:   opts.Prefix,
		attempts: opts.Attempts,
		delay:    opts.Delay,
	}, nil
}

func (c *RedisCache) key(k string) string { return c.prefix + k }

// do runs fn with retries. Errors other than redis.Nil count as network
// failures.
func (c *RedisCache) do(ctx context.Context, fn func() error) error {
	return RetryWithBackoff(ctx, c.attempts, c.delay, func() error {
		err := fn()
		if err == nil || errors.Is(err, redis.Nil) {
			return err
		}
		return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	})
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.do(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.key(key)).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in Redis. A zero ttl never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.do(ctx, func() error {
		return c.client.Set(ctx, c.key(key), data, ttl).Err()
	})
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.do(ctx, func() error {
		return c.client.Del(ctx, c.key(key)).Err()
	})
}

// Clear deletes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	n := 0
	var cursor uint64
	for {
		var keys []string
		err := c.do(ctx, func() error {
			var err error
			keys, cursor, err = c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
			return err
		})
		if err != nil {
			return n, err
		}
		if len(keys) > 0 {
			if err := c.do(ctx, func() error { return c.client.Del(ctx, keys...).Err() }); err != nil {
				return n, err
			}
			n += len(keys)
		}
		if cursor == 0 {
			return n, nil
		}
	}
}

// Close closes the client connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
