package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/meikuraledutech/wfgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV(t *testing.T) {
	t.Run("SetAndGet", func(t *testing.T) {
		kv := New()
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, "a", "1"))
		got, err := kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "1", got)

		require.NoError(t, kv.Set(ctx, "a", "2"))
		got, err = kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "2", got)
		assert.Equal(t, 1, kv.Len())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := New().Get(context.Background(), "nope")
		assert.ErrorIs(t, err, wfgraph.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		kv := New()
		ctx := context.Background()
		require.NoError(t, kv.Set(ctx, "a", "1"))
		require.NoError(t, kv.Delete(ctx, "a"))
		require.NoError(t, kv.Delete(ctx, "a"))

		_, err := kv.Get(ctx, "a")
		assert.ErrorIs(t, err, wfgraph.ErrNotFound)
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		kv := New()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, kv.Set(ctx, "a", "1"), context.Canceled)
		_, err := kv.Get(ctx, "a")
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, kv.Delete(ctx, "a"), context.Canceled)
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		kv := New()
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("k%d", i)
				if err := kv.Set(ctx, key, key); err != nil {
					t.Errorf("Set %s: %v", key, err)
				}
				if _, err := kv.Get(ctx, key); err != nil {
					t.Errorf("Get %s: %v", key, err)
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 100, kv.Len())
	})

	t.Run("Keys", func(t *testing.T) {
		kv := New()
		ctx := context.Background()
		require.NoError(t, kv.Set(ctx, "workflowStore", "{}"))
		require.NoError(t, kv.Set(ctx, "draft", "{}"))

		keys, err := kv.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"draft", "workflowStore"}, keys)
	})
}
