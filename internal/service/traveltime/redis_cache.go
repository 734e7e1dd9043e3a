package traveltime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache реализация Cache поверх Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache создает кеш поверх существующего Redis-клиента
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get возвращает значение по ключу или ErrCacheMiss
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("traveltime: redis get %s: %w", key, err)
	}
	return value, nil
}

// Set записывает значение с TTL
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("traveltime: redis set %s: %w", key, err)
	}
	return nil
}
