package fs

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/meikuraledutech/wfgraph"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// KV stores every key as a JSON file under a base URL.
// Any scheme afs supports works: a plain directory, file://, mem://, or a cloud bucket.
type KV struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var (
	_ wfgraph.KV     = (*KV)(nil)
	_ wfgraph.Lister = (*KV)(nil)
)

// New creates a KV rooted at baseURL, creating the directory when it is missing.
func New(ctx context.Context, baseURL string) (*KV, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("fs: base URL cannot be empty")
	}

	service := afs.New()
	baseURL = url.Normalize(baseURL, file.Scheme)

	exists, err := service.Exists(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("fs: check %s: %w", baseURL, err)
	}
	if !exists {
		if err := service.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("fs: create %s: %w", baseURL, err)
		}
	}

	return &KV{baseURL: baseURL, fs: service}, nil
}

// Get reads the file of key.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.path(key)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return "", fmt.Errorf("fs: check %s: %w", location, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", wfgraph.ErrNotFound, location)
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return "", fmt.Errorf("fs: read %s: %w", location, err)
	}
	return string(data), nil
}

// Set replaces the file of key with value.
func (s *KV) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.path(key)
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader([]byte(value))); err != nil {
		return fmt.Errorf("fs: write %s: %w", location, err)
	}
	return nil
}

// Delete removes the file of key. No error if it doesn't exist.
func (s *KV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.path(key)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("fs: check %s: %w", location, err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("fs: delete %s: %w", location, err)
	}
	return nil
}

// Keys lists the keys that have a file under the base URL, in order.
func (s *KV) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fs: list %s: %w", s.baseURL, err)
	}

	keys := []string{}
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(object.Name(), ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *KV) path(key string) string {
	return url.Join(s.baseURL, key+".json")
}
