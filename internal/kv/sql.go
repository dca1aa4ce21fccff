package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects the upsert statement used by SQLStore.
type Dialect int

const (
	MySQL Dialect = iota
	SQLite
)

// Schema creates the single table SQLStore reads and writes.
func Schema(d Dialect) string {
	if d == MySQL {
		return `CREATE TABLE IF NOT EXISTS kv_entries (
    k VARCHAR(191) NOT NULL PRIMARY KEY,
    v LONGBLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	}
	return `CREATE TABLE IF NOT EXISTS kv_entries (
    k TEXT PRIMARY KEY,
    v BLOB NOT NULL,
    updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
)`
}

// SQLStore keeps every logical key as one row of kv_entries.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps an open database. The caller owns db and must have run
// Migrate (or an equivalent schema) beforehand.
func NewSQLStore(db *sql.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d}
}

// Migrate creates the kv_entries table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	if _, err := db.ExecContext(ctx, Schema(d)); err != nil {
		return fmt.Errorf("create kv_entries: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, "SELECT v FROM kv_entries WHERE k = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return v, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := "INSERT INTO kv_entries (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)"
	if s.dialect == SQLite {
		query = "INSERT INTO kv_entries (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = strftime('%s','now')"
	}
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE k = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
