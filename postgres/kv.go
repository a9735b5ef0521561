package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/wfgraph"
)

// Get fetches the value stored under key.
// Returns wfgraph.ErrNotFound if there is no row for key.
func (s *PGStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value::text FROM wfgraph_entries WHERE key = $1`, key,
	).Scan(&value)

	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("%w: key=%s", wfgraph.ErrNotFound, key)
		}
		return "", fmt.Errorf("postgres: get %s: %w", key, err)
	}

	return value, nil
}

// Set upserts value under key in a single statement.
// The value must be a JSON document; the column is JSONB.
func (s *PGStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO wfgraph_entries (key, value, updated_at) VALUES ($1, $2::jsonb, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("postgres: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
// No error if the key doesn't exist.
func (s *PGStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM wfgraph_entries WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("postgres: delete %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT key FROM wfgraph_entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("postgres: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows keys: %w", err)
	}

	return keys, nil
}

// isNoRows checks if the error is a "no rows" error from pgx.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
