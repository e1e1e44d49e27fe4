// Package cache provides the response cache consulted before every model
// invocation: an in-memory TTL map with an optional durable second level.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lexweave/asklaw/internal/domain"
)

// DefaultTTL is the time-to-live applied to cached model responses.
const DefaultTTL = 30 * time.Minute

// Store is a durable backend for cache entries. Implementations must
// return (nil, nil) when a key is absent. A failing store is treated as a
// cache miss and never blocks the request path.
type Store interface {
	Get(ctx context.Context, key string) (*domain.CachedResponse, error)
	Put(ctx context.Context, entry *domain.CachedResponse) error
	Clear(ctx context.Context) error
}

type cacheEntry struct {
	value     domain.ModelResult
	expiresAt time.Time
}

// ResponseCache is a bounded-lifetime key/value store for model responses.
// Expiry is lazy: entries are checked against the clock on read and never
// evicted early. Identical (query, model, history, docs) tuples within the
// TTL return the same value without re-invoking the model.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	store  Store // optional durable level, may be nil
	logger *zap.Logger
	now    func() time.Time

	hits   int
	misses int
}

// New creates a response cache. store may be nil for memory-only operation.
func New(store Store, logger *zap.Logger) *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the cached response for key, or false on a miss. An entry
// whose TTL has elapsed is removed and reported as a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) (*domain.ModelResult, bool) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok {
		if c.now().Before(entry.expiresAt) {
			c.hits++
			value := entry.value
			c.mu.Unlock()
			return &value, true
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if c.store != nil {
		persisted, err := c.store.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache store read failed, treating as miss",
				zap.Error(err))
		} else if persisted != nil && c.now().Before(persisted.ExpiresAt) {
			c.mu.Lock()
			c.entries[key] = cacheEntry{value: persisted.Value, expiresAt: persisted.ExpiresAt}
			c.hits++
			c.mu.Unlock()
			value := persisted.Value
			return &value, true
		}
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// Set stores a response under key, overwriting any existing entry with a
// fresh expiry.
func (c *ResponseCache) Set(ctx context.Context, key string, value domain.ModelResult, ttl time.Duration) {
	expiresAt := c.now().Add(ttl)

	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()

	if c.store != nil {
		err := c.store.Put(ctx, &domain.CachedResponse{
			Key:       key,
			Value:     value,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			c.logger.Warn("cache store write failed", zap.Error(err))
		}
	}
}

// Clear empties all entries, including the durable level.
func (c *ResponseCache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn("cache store clear failed", zap.Error(err))
		}
	}
}

// Stats returns the hit and miss counters.
func (c *ResponseCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
