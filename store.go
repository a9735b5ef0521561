package wfgraph

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("wfgraph: entry not found")
	ErrStorage         = errors.New("wfgraph: storage failure")
	ErrNotInitialized  = errors.New("wfgraph: store not initialized")
	ErrCorruptSnapshot = errors.New("wfgraph: corrupt snapshot")
	ErrNodeNotFound    = errors.New("wfgraph: node not found")
	ErrEdgeNotFound    = errors.New("wfgraph: edge not found")
)

// KV is the key-value medium snapshots are persisted to.
// Implementations return ErrNotFound (possibly wrapped) from Get when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	// Set replaces the value stored under key in a single write.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. No error if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// Lister is implemented by media that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}
