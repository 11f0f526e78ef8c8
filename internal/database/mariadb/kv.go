package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_store (
		kv_key VARCHAR(255) NOT NULL PRIMARY KEY,
		kv_value LONGTEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) CHARACTER SET utf8mb4
`

// KVStore implements database.Store on a single MariaDB table.
type KVStore struct {
	pool *Pool
}

// Open connects to MariaDB and ensures the kv_store table exists.
func Open(ctx context.Context, cfg *config.StoreConfig) (*KVStore, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.EnsureSchema(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return &KVStore{pool: pool}, nil
}

// EnsureSchema creates the kv_store table when missing.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createKVTable); err != nil {
		return fmt.Errorf("create kv_store table: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.db.QueryRowContext(ctx, `SELECT kv_value FROM kv_store WHERE kv_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Put upserts the value stored under key.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_store (kv_key, kv_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE kv_value = VALUES(kv_value)`
	if _, err := s.pool.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *KVStore) Close() error {
	return s.pool.Close()
}
