package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/meikuraledutech/wfgraph"
)

// Options configures the Redis connection.
type Options struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	IdleTimeout  time.Duration
	// Prefix is prepended to every key, e.g. "wfgraph:".
	Prefix string
}

// KV is a Redis-backed implementation of wfgraph.KV.
type KV struct {
	client *redis.Client
	prefix string
}

var (
	_ wfgraph.KV     = (*KV)(nil)
	_ wfgraph.Lister = (*KV)(nil)
)

// New connects to Redis and verifies the connection with a PING.
func New(opts Options) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		IdleTimeout:  opts.IdleTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connect %s: %w", opts.Addr, err)
	}

	return &KV{client: client, prefix: opts.Prefix}, nil
}

// Get returns the value stored under key.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	k := s.prefix + key
	v, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: key=%s", wfgraph.ErrNotFound, k)
	}
	if err != nil {
		return "", fmt.Errorf("redis: get %s: %w", k, err)
	}
	return v, nil
}

// Set stores value under key without expiry.
func (s *KV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := s.prefix + key
	if err := s.client.Set(ctx, k, value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", k, err)
	}
	return nil
}

// Delete removes key.
func (s *KV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := s.prefix + key
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", k, err)
	}
	return nil
}

// Keys lists the keys under the configured prefix, with the prefix stripped, in order.
func (s *KV) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found, err := s.client.Keys(ctx, s.prefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list keys: %w", err)
	}
	keys := make([]string, 0, len(found))
	for _, k := range found {
		keys = append(keys, strings.TrimPrefix(k, s.prefix))
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the Redis client connection.
func (s *KV) Close() error {
	return s.client.Close()
}
