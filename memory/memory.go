package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/meikuraledutech/wfgraph"
)

// KV is an in-process implementation of wfgraph.KV.
type KV struct {
	entries map[string]string
	mu      sync.RWMutex
}

var (
	_ wfgraph.KV     = (*KV)(nil)
	_ wfgraph.Lister = (*KV)(nil)
)

// New creates an empty KV.
func New() *KV {
	return &KV{entries: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: key=%s", wfgraph.ErrNotFound, key)
	}
	return v, nil
}

// Set stores value under key.
func (s *KV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Delete removes key.
func (s *KV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Keys lists the stored keys in order.
func (s *KV) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored entries.
func (s *KV) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
