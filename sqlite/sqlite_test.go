package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/meikuraledutech/wfgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV(t *testing.T) {
	ctx := context.Background()

	t.Run("SetGetDelete", func(t *testing.T) {
		kv, err := Open(ctx, ":memory:")
		require.NoError(t, err)
		defer kv.Close()

		_, err = kv.Get(ctx, "k")
		assert.ErrorIs(t, err, wfgraph.ErrNotFound)

		require.NoError(t, kv.Set(ctx, "k", "v1"))
		require.NoError(t, kv.Set(ctx, "k", "v2"))
		got, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v2", got)

		require.NoError(t, kv.Delete(ctx, "k"))
		require.NoError(t, kv.Delete(ctx, "k"))
		_, err = kv.Get(ctx, "k")
		assert.ErrorIs(t, err, wfgraph.ErrNotFound)
	})

	t.Run("Keys", func(t *testing.T) {
		kv, err := Open(ctx, ":memory:")
		require.NoError(t, err)
		defer kv.Close()

		keys, err := kv.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)

		require.NoError(t, kv.Set(ctx, "workflowStore", "{}"))
		require.NoError(t, kv.Set(ctx, "draft", "{}"))
		keys, err = kv.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"draft", "workflowStore"}, keys)
	})

	t.Run("PersistsAcrossOpen", func(t *testing.T) {
		dsn := filepath.Join(t.TempDir(), "wfgraph.db")

		kv, err := Open(ctx, dsn)
		require.NoError(t, err)
		gs := wfgraph.New(kv)
		gs.Initialize(ctx)
		gs.SetEdge("edge4", wfgraph.Edge{Source: "node4", Target: "node1", Label: "loop"})
		require.NoError(t, gs.Save(ctx))
		require.NoError(t, kv.Close())

		kv, err = Open(ctx, dsn)
		require.NoError(t, err)
		defer kv.Close()
		reloaded := wfgraph.New(kv)
		assert.Equal(t, wfgraph.OriginSnapshot, reloaded.Initialize(ctx))

		e, ok := reloaded.Edge("edge4")
		require.True(t, ok)
		assert.Equal(t, wfgraph.Edge{Source: "node4", Target: "node1", Label: "loop"}, e)
	})
}
