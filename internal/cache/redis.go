// Package cache provides the Redis access layer backing the per-IP
// rate limiter.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
)

// PoolConfig bounds the Redis connection pool. Zero values fall back
// to the package defaults.
type PoolConfig struct {
	PoolSize     int
	MinIdleConns int
}

// Cache provides Redis cache access methods.
type Cache struct {
	client *redis.Client
}

// New connects a Redis client for redisURL and verifies it with a ping
// before returning.
func New(ctx context.Context, redisURL string, pool PoolConfig) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if pool.PoolSize <= 0 {
		pool.PoolSize = defaultPoolSize
	}
	if pool.MinIdleConns <= 0 {
		pool.MinIdleConns = defaultMinIdleConns
	}
	opt.PoolSize = pool.PoolSize
	opt.MinIdleConns = pool.MinIdleConns
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client.
// Use sparingly - prefer adding methods to Cache.
func (c *Cache) Client() *redis.Client {
	return c.client
}
