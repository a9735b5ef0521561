package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meikuraledutech/wfgraph"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS wfgraph_entries (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
`

// KV implements wfgraph.KV on an embedded SQLite database.
type KV struct {
	db *sql.DB
}

var (
	_ wfgraph.KV     = (*KV)(nil)
	_ wfgraph.Lister = (*KV)(nil)
)

// Open opens (or creates) the database at dsn and ensures the table exists.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, dsn string) (*KV, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := New(db)
	if err := s.CreateSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle. The schema must already exist.
func New(db *sql.DB) *KV {
	return &KV{db: db}
}

// CreateSchema creates the wfgraph_entries table if it doesn't exist.
func (s *KV) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("sqlite: create schema: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM wfgraph_entries WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: key=%s", wfgraph.ErrNotFound, key)
		}
		return "", fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key.
func (s *KV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO wfgraph_entries (key, value, updated_at) VALUES (?, ?, strftime('%s','now'))`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. No error if it doesn't exist.
func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM wfgraph_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in order.
func (s *KV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM wfgraph_entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlite: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows keys: %w", err)
	}
	return keys, nil
}

// Close closes the database.
func (s *KV) Close() error {
	return s.db.Close()
}
