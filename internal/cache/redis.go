package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexweave/asklaw/internal/domain"
)

const redisKeyPrefix = "asklaw:cache:"

// RedisStore is a durable cache backend over redis. TTL enforcement is
// delegated to redis key expiry, so Get never returns a stale entry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed cache store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves a cache entry by key. Returns (nil, nil) when absent.
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.CachedResponse, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry domain.CachedResponse
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Put stores a cache entry with expiry matching entry.ExpiresAt.
func (s *RedisStore) Put(ctx context.Context, entry *domain.CachedResponse) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return s.client.Set(ctx, redisKeyPrefix+entry.Key, data, ttl).Err()
}

// Clear removes all cache entries under the asklaw prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
