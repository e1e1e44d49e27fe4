package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexweave/asklaw/internal/domain"
)

func sampleResult(answer string) domain.ModelResult {
	return domain.ModelResult{
		AIResult: domain.AIResult{
			Answer:     answer,
			Confidence: 0.85,
		},
		Model:      "gpt-4o",
		TokensUsed: 42,
		CostUSD:    0.001,
	}
}

func TestCacheSetGet(t *testing.T) {
	c := New(nil, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "key-1", sampleResult("answer one"), DefaultTTL)

	got, ok := c.Get(ctx, "key-1")
	require.True(t, ok)
	assert.Equal(t, "answer one", got.Answer)
	assert.Equal(t, "gpt-4o", got.Model)

	_, ok = c.Get(ctx, "key-2")
	assert.False(t, ok)
}

func TestCacheOverwriteReplacesValue(t *testing.T) {
	c := New(nil, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "key-1", sampleResult("first"), DefaultTTL)
	c.Set(ctx, "key-1", sampleResult("second"), DefaultTTL)

	got, ok := c.Get(ctx, "key-1")
	require.True(t, ok)
	assert.Equal(t, "second", got.Answer)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New(nil, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	c.Set(ctx, "key-1", sampleResult("answer"), DefaultTTL)

	current = base.Add(DefaultTTL - time.Second)
	_, ok := c.Get(ctx, "key-1")
	assert.True(t, ok, "entry within TTL must hit")

	current = base.Add(DefaultTTL)
	_, ok = c.Get(ctx, "key-1")
	assert.False(t, ok, "entry at TTL boundary must miss")

	// Expired entries are removed on read, not resurrected.
	current = base
	_, ok = c.Get(ctx, "key-1")
	assert.False(t, ok)
}

func TestCacheClear(t *testing.T) {
	c := New(nil, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "key-1", sampleResult("a"), DefaultTTL)
	c.Set(ctx, "key-2", sampleResult("b"), DefaultTTL)
	c.Clear(ctx)

	_, ok := c.Get(ctx, "key-1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "key-2")
	assert.False(t, ok)
}

func TestCacheStats(t *testing.T) {
	c := New(nil, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "key-1", sampleResult("a"), DefaultTTL)
	c.Get(ctx, "key-1")
	c.Get(ctx, "key-1")
	c.Get(ctx, "missing")

	hits, misses := c.Stats()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)
}

type fakeStore struct {
	entries map[string]*domain.CachedResponse
	getErr  error
	puts    int
	cleared bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]*domain.CachedResponse)}
}

func (s *fakeStore) Get(_ context.Context, key string) (*domain.CachedResponse, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.entries[key], nil
}

func (s *fakeStore) Put(_ context.Context, entry *domain.CachedResponse) error {
	s.puts++
	s.entries[entry.Key] = entry
	return nil
}

func (s *fakeStore) Clear(_ context.Context) error {
	s.cleared = true
	s.entries = make(map[string]*domain.CachedResponse)
	return nil
}

func TestCacheStoreFallback(t *testing.T) {
	store := newFakeStore()
	store.entries["key-1"] = &domain.CachedResponse{
		Key:       "key-1",
		Value:     sampleResult("persisted"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	c := New(store, zap.NewNop())
	ctx := context.Background()

	got, ok := c.Get(ctx, "key-1")
	require.True(t, ok)
	assert.Equal(t, "persisted", got.Answer)

	// The entry is promoted into memory; later reads don't need the store.
	store.getErr = errors.New("store down")
	got, ok = c.Get(ctx, "key-1")
	require.True(t, ok)
	assert.Equal(t, "persisted", got.Answer)
}

func TestCacheStoreErrorIsMiss(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("store down")

	c := New(store, zap.NewNop())

	_, ok := c.Get(context.Background(), "key-1")
	assert.False(t, ok)
}

func TestCacheStoreExpiredEntryIsMiss(t *testing.T) {
	store := newFakeStore()
	store.entries["key-1"] = &domain.CachedResponse{
		Key:       "key-1",
		Value:     sampleResult("stale"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	c := New(store, zap.NewNop())

	_, ok := c.Get(context.Background(), "key-1")
	assert.False(t, ok)
}

func TestCacheSetWritesThrough(t *testing.T) {
	store := newFakeStore()
	c := New(store, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "key-1", sampleResult("a"), DefaultTTL)
	assert.Equal(t, 1, store.puts)

	c.Clear(ctx)
	assert.True(t, store.cleared)
}
