package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// KVRepository stores opaque values by key in the kv_store table
type KVRepository struct {
	db *sqlx.DB
}

// NewKVRepository creates a new repository instance
func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key. A missing key is not an error.
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	query := r.db.Rebind("SELECT store_value FROM kv_store WHERE store_key = ?")
	err := r.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get value %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Put inserts or replaces the value under key
func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	var query string

	// Разные запросы для разных СУБД
	if r.db.DriverName() == DriverMySQL {
		query = `
			INSERT INTO kv_store (store_key, store_value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON DUPLICATE KEY UPDATE store_value = VALUES(store_value), updated_at = CURRENT_TIMESTAMP
		`
	} else {
		query = `
			INSERT INTO kv_store (store_key, store_value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (store_key) DO UPDATE SET store_value = excluded.store_value, updated_at = CURRENT_TIMESTAMP
		`
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), key, string(value)); err != nil {
		return fmt.Errorf("failed to put value %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	query := r.db.Rebind("DELETE FROM kv_store WHERE store_key = ?")
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete value %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys with the given prefix
func (r *KVRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	query := r.db.Rebind("SELECT store_key FROM kv_store WHERE store_key LIKE ? ORDER BY store_key")
	if err := r.db.SelectContext(ctx, &keys, query, prefix+"%"); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}
