package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/meikuraledutech/wfgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("WFGRAPH_BACKEND", "")
		t.Setenv("WFGRAPH_KEY", "")
		t.Setenv("PORT", "")
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "fs", cfg.Backend)
		assert.Equal(t, wfgraph.DefaultKey, cfg.Key)
		assert.Equal(t, "3000", cfg.Port)
	})

	t.Run("PostgresNeedsURL", func(t *testing.T) {
		t.Setenv("WFGRAPH_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		t.Setenv("WFGRAPH_BACKEND", "etcd")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("BadRedisDB", func(t *testing.T) {
		t.Setenv("WFGRAPH_BACKEND", "redis")
		t.Setenv("REDIS_DB", "one")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("WFGRAPH_BACKEND=memory\nWFGRAPH_KEY=fromfile\n"), 0o644))

	t.Setenv("WFGRAPH_BACKEND", "")
	t.Setenv("WFGRAPH_KEY", "")
	os.Unsetenv("WFGRAPH_BACKEND")
	os.Unsetenv("WFGRAPH_KEY")

	cfg, err := Load(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, "fromfile", cfg.Key)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []Config{
		{Backend: "memory", Key: "k"},
		{Backend: "fs", Key: "k", Dir: t.TempDir()},
		{Backend: "sqlite", Key: "k", SQLitePath: filepath.Join(t.TempDir(), "t.db")},
	} {
		t.Run(cfg.Backend, func(t *testing.T) {
			kv, closeFn, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer closeFn()

			require.NoError(t, kv.Set(ctx, cfg.Key, `{"nodes":{}}`))
			got, err := kv.Get(ctx, cfg.Key)
			require.NoError(t, err)
			assert.Equal(t, `{"nodes":{}}`, got)
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := Open(ctx, Config{Backend: "etcd"})
		assert.Error(t, err)
	})
}
