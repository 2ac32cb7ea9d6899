package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_LoadCoalescesConcurrentCallers(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) ([]int, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []int{1, 2}, nil
	}

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			<-start
			got, err := Load(context.Background(), store, "standings:1", loader)
			if err != nil || len(got) != 2 {
				t.Errorf("unexpected load result %v %v", got, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.EqualValues(t, 1, calls.Load())
}

func TestStore_ExpiresAndDeletesByPrefix(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "standings:1:a", "x")
	store.Set(ctx, "standings:2:a", "y")

	store.DeletePrefix(ctx, "standings:1:")
	_, ok := store.Get(ctx, "standings:1:a")
	require.False(t, ok)

	v, ok := store.Get(ctx, "standings:2:a")
	require.True(t, ok)
	require.Equal(t, "y", v)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get(ctx, "standings:2:a")
	require.False(t, ok)
}
