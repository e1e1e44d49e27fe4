package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lexweave/asklaw/internal/domain"
)

// CacheRepository is the sqlite-backed durable cache store. It implements
// cache.Store: expired rows are filtered on read and overwritten on write.
type CacheRepository struct {
	db *DB
}

// NewCacheRepository creates a new cache repository
func NewCacheRepository(db *DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Get retrieves a cache entry by key. Returns (nil, nil) when absent.
func (r *CacheRepository) Get(ctx context.Context, key string) (*domain.CachedResponse, error) {
	entry := &domain.CachedResponse{Key: key}
	var valueJSON string

	err := r.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM cache_entries WHERE key = ?
	`, key).Scan(&valueJSON, &entry.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(valueJSON), &entry.Value); err != nil {
		return nil, err
	}

	return entry, nil
}

// Put stores a cache entry, replacing any existing row for the key
func (r *CacheRepository) Put(ctx context.Context, entry *domain.CachedResponse) error {
	valueJSON, err := json.Marshal(entry.Value)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, entry.Key, string(valueJSON), entry.ExpiresAt)

	return err
}

// Clear removes all cache entries
func (r *CacheRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	return err
}
