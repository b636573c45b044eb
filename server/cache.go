package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/initializ/modelcatalog/catalog"
)

const cacheKey = "modelcatalog:models"

// Cache stores the aggregated catalog between requests.
type Cache interface {
	Get(ctx context.Context) ([]catalog.Entry, bool, error)
	Set(ctx context.Context, entries []catalog.Entry) error
	Invalidate(ctx context.Context) error
}

// RedisConfig holds connection settings for the Redis catalog cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache is a Cache backed by a single Redis key with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache connects to Redis and verifies the connection. TTL must be
// positive.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", cfg.TTL)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{rdb: rdb, ttl: cfg.TTL}, nil
}

// Get returns the cached catalog. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context) ([]catalog.Entry, bool, error) {
	data, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entries []catalog.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("decoding cached catalog: %w", err)
	}
	return entries, true, nil
}

func (c *RedisCache) Set(ctx context.Context, entries []catalog.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, cacheKey).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
