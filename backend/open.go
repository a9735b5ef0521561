package backend

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/wfgraph"
	"github.com/meikuraledutech/wfgraph/fs"
	"github.com/meikuraledutech/wfgraph/memory"
	"github.com/meikuraledutech/wfgraph/postgres"
	"github.com/meikuraledutech/wfgraph/redis"
	"github.com/meikuraledutech/wfgraph/sqlite"
	"github.com/meikuraledutech/wfgraph/tracing"
)

// Open connects the configured backend. The returned close func releases it and,
// when tracing is on, flushes the exporter.
func Open(ctx context.Context, cfg Config) (wfgraph.KV, func(), error) {
	kv, closer, err := open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Trace != "" {
		out := cfg.Trace
		if out == "stdout" {
			out = ""
		}
		shutdown, err := tracing.Init("wfgraph", out)
		if err != nil {
			closer()
			return nil, nil, fmt.Errorf("backend: init tracing: %w", err)
		}
		kv = tracing.Wrap(kv, cfg.Backend, nil)
		closeKV := closer
		closer = func() {
			closeKV()
			if err := shutdown(context.Background()); err != nil {
				log.Printf("backend: flush traces: %v", err)
			}
		}
	}
	return kv, closer, nil
}

func open(ctx context.Context, cfg Config) (wfgraph.KV, func(), error) {
	nop := func() {}

	switch cfg.Backend {
	case "memory":
		return memory.New(), nop, nil

	case "fs":
		kv, err := fs.New(ctx, cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return kv, nop, nil

	case "sqlite":
		kv, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { logClose("sqlite", kv.Close()) }, nil

	case "redis":
		kv, err := redis.New(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { logClose("redis", kv.Close()) }, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("backend: connect postgres: %w", err)
		}
		kv := postgres.New(pool)
		if err := kv.CreateSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("backend: postgres schema: %w", err)
		}
		return kv, pool.Close, nil
	}

	return nil, nil, fmt.Errorf("backend: unknown backend %q", cfg.Backend)
}

func logClose(name string, err error) {
	if err != nil {
		log.Printf("backend: close %s: %v", name, err)
	}
}
