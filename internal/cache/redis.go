package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("cache: miss")

// Client wraps a redis connection used for caching list and search responses.
// A nil *Client is valid and behaves as an always-miss cache, so the API can
// run without redis in development.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis and verifies the connection.
func New(ctx context.Context, redisURL, password string, ttl time.Duration) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Str("component", "cache").Msg("connected to redis")
	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetJSON unmarshals a cached value into target. Returns ErrMiss when absent.
func (c *Client) GetJSON(ctx context.Context, key string, target interface{}) error {
	if c == nil {
		return ErrMiss
	}
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, target)
}

// SetJSON stores a value under key. ttl <= 0 falls back to the default TTL.
// Failures are logged, never propagated - caching is best-effort.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Str("component", "cache").Err(err).Str("key", key).Msg("marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Warn().Str("component", "cache").Err(err).Str("key", key).Msg("set failed")
	}
}

// Invalidate removes keys matching the given pattern.
func (c *Client) Invalidate(ctx context.Context, pattern string) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Str("component", "cache").Err(err).Str("key", iter.Val()).Msg("del failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Str("component", "cache").Err(err).Str("pattern", pattern).Msg("scan failed")
	}
}

// Close releases the redis connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
