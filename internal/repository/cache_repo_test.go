package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexweave/asklaw/internal/domain"
)

func TestCacheRepoPutGet(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	entry := &domain.CachedResponse{
		Key: "query|gpt-4o|doc-1",
		Value: domain.ModelResult{
			AIResult: domain.AIResult{Answer: "an answer", Confidence: 0.8},
			Model:    "gpt-4o",
			CostUSD:  0.003,
		},
		ExpiresAt: time.Now().Add(30 * time.Minute).UTC(),
	}
	require.NoError(t, repo.Put(ctx, entry))

	got, err := repo.Get(ctx, entry.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "an answer", got.Value.Answer)
	assert.Equal(t, "gpt-4o", got.Value.Model)
	assert.WithinDuration(t, entry.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestCacheRepoGetMissingReturnsNil(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))

	got, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheRepoPutOverwrites(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	first := &domain.CachedResponse{
		Key:       "k",
		Value:     domain.ModelResult{AIResult: domain.AIResult{Answer: "first"}},
		ExpiresAt: time.Now().Add(time.Minute).UTC(),
	}
	require.NoError(t, repo.Put(ctx, first))

	second := &domain.CachedResponse{
		Key:       "k",
		Value:     domain.ModelResult{AIResult: domain.AIResult{Answer: "second"}},
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, repo.Put(ctx, second))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.Value.Answer)
}

func TestCacheRepoClear(t *testing.T) {
	repo := NewCacheRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &domain.CachedResponse{
		Key:       "k",
		Value:     domain.ModelResult{AIResult: domain.AIResult{Answer: "v"}},
		ExpiresAt: time.Now().Add(time.Minute).UTC(),
	}))
	require.NoError(t, repo.Clear(ctx))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
