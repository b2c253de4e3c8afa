package balancechanges

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(liquid, locked uint64) entity.BalanceSnapshot {
	return entity.BalanceSnapshot{
		Liquid: uint128.From64(liquid),
		Locked: uint128.From64(locked),
	}
}

func loadValue(value entity.BalanceSnapshot) LoadFunc {
	return func(context.Context) (entity.BalanceSnapshot, error) {
		return value, nil
	}
}

func TestNewPreviousBalanceCache(t *testing.T) {
	_, err := NewPreviousBalanceCache(0)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = NewPreviousBalanceCache(-1)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	cache, err := NewPreviousBalanceCache(1)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestPreviousBalanceCacheEviction(t *testing.T) {
	cache, err := NewPreviousBalanceCache(2)
	require.NoError(t, err)

	cache.Set("a.near", snapshot(1, 0))
	cache.Set("b.near", snapshot(2, 0))

	// touch a.near so b.near becomes the least recently used
	_, ok := cache.Get("a.near")
	require.True(t, ok)

	cache.Set("c.near", snapshot(3, 0))
	assert.Equal(t, 2, cache.Len())

	_, ok = cache.Get("b.near")
	assert.False(t, ok)

	got, ok := cache.Get("a.near")
	assert.True(t, ok)
	assert.Equal(t, snapshot(1, 0), got)

	got, ok = cache.Get("c.near")
	assert.True(t, ok)
	assert.Equal(t, snapshot(3, 0), got)
}

func TestPreviousBalanceCacheGetOrLoad(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		cache, err := NewPreviousBalanceCache(10)
		require.NoError(t, err)
		cache.Set("alice.near", snapshot(100, 0))

		got, err := cache.GetOrLoad(context.Background(), "alice.near", func(context.Context) (entity.BalanceSnapshot, error) {
			t.Fatal("load must not be called on a hit")
			return entity.BalanceSnapshot{}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, snapshot(100, 0), got)
	})

	t.Run("miss_is_cached", func(t *testing.T) {
		cache, err := NewPreviousBalanceCache(10)
		require.NoError(t, err)

		got, err := cache.GetOrLoad(context.Background(), "alice.near", loadValue(snapshot(1000, 200)))
		require.NoError(t, err)
		assert.Equal(t, snapshot(1000, 200), got)

		cached, ok := cache.Get("alice.near")
		assert.True(t, ok)
		assert.Equal(t, snapshot(1000, 200), cached)
	})

	t.Run("load_error_is_not_cached", func(t *testing.T) {
		cache, err := NewPreviousBalanceCache(10)
		require.NoError(t, err)

		loadErr := errors.New("node unavailable")
		_, err = cache.GetOrLoad(context.Background(), "alice.near", func(context.Context) (entity.BalanceSnapshot, error) {
			return entity.BalanceSnapshot{}, loadErr
		})
		assert.ErrorIs(t, err, loadErr)
		assert.Equal(t, 0, cache.Len())

		got, err := cache.GetOrLoad(context.Background(), "alice.near", loadValue(snapshot(7, 0)))
		require.NoError(t, err)
		assert.Equal(t, snapshot(7, 0), got)
	})

	t.Run("concurrent_callers_load_once", func(t *testing.T) {
		cache, err := NewPreviousBalanceCache(10)
		require.NoError(t, err)

		var loads atomic.Int32
		load := func(context.Context) (entity.BalanceSnapshot, error) {
			loads.Add(1)
			time.Sleep(10 * time.Millisecond)
			return snapshot(42, 0), nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := cache.GetOrLoad(context.Background(), "alice.near", load)
				assert.NoError(t, err)
				assert.Equal(t, snapshot(42, 0), got)
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, loads.Load())
	})

	t.Run("canceled_context", func(t *testing.T) {
		cache, err := NewPreviousBalanceCache(10)
		require.NoError(t, err)

		release := make(chan struct{})
		started := make(chan struct{})
		go func() {
			_, _ = cache.GetOrLoad(context.Background(), "slow.near", func(context.Context) (entity.BalanceSnapshot, error) {
				close(started)
				<-release
				return snapshot(1, 0), nil
			})
		}()
		<-started

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = cache.GetOrLoad(ctx, "alice.near", loadValue(snapshot(1, 0)))
		assert.ErrorIs(t, err, context.Canceled)
		close(release)
	})
}

func TestPreviousBalanceCacheModify(t *testing.T) {
	t.Run("returns_previous_and_stores_next", func(t *testing.T) {
		cache, err := NewPreviousBalanceCache(10)
		require.NoError(t, err)
		cache.Set("alice.near", snapshot(100, 5))

		prev, err := cache.Modify(context.Background(), "alice.near", loadValue(snapshot(0, 0)), func(prev entity.BalanceSnapshot) (entity.BalanceSnapshot, error) {
			return snapshot(150, 5), nil
		})
		require.NoError(t, err)
		assert.Equal(t, snapshot(100, 5), prev)

		got, ok := cache.Get("alice.near")
		assert.True(t, ok)
		assert.Equal(t, snapshot(150, 5), got)
	})

	t.Run("failed_modify_keeps_loaded_value", func(t *testing.T) {
		cache, err := NewPreviousBalanceCache(10)
		require.NoError(t, err)

		modifyErr := errors.New("rejected")
		_, err = cache.Modify(context.Background(), "alice.near", loadValue(snapshot(3, 0)), func(entity.BalanceSnapshot) (entity.BalanceSnapshot, error) {
			return entity.BalanceSnapshot{}, modifyErr
		})
		assert.ErrorIs(t, err, modifyErr)

		got, ok := cache.Get("alice.near")
		assert.True(t, ok)
		assert.Equal(t, snapshot(3, 0), got)
	})

	t.Run("concurrent_modifications_are_not_lost", func(t *testing.T) {
		cache, err := NewPreviousBalanceCache(10)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := cache.Modify(context.Background(), "alice.near", loadValue(snapshot(1000, 0)), func(prev entity.BalanceSnapshot) (entity.BalanceSnapshot, error) {
					return entity.BalanceSnapshot{Liquid: prev.Liquid.Sub64(1), Locked: prev.Locked}, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, ok := cache.Get("alice.near")
		assert.True(t, ok)
		assert.Equal(t, snapshot(950, 0), got)
	})
}

func TestPreviousBalanceCachePurge(t *testing.T) {
	cache, err := NewPreviousBalanceCache(10)
	require.NoError(t, err)
	cache.Set("a.near", snapshot(1, 0))
	cache.Set("b.near", snapshot(2, 0))

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("a.near")
	assert.False(t, ok)
}

func TestPreviousBalanceCacheReadsWaitForLoad(t *testing.T) {
	cache, err := NewPreviousBalanceCache(10)
	require.NoError(t, err)

	loading := make(chan struct{})
	release := make(chan struct{})
	loaded := make(chan error, 1)
	go func() {
		_, err := cache.GetOrLoad(context.Background(), "alice.near", func(context.Context) (entity.BalanceSnapshot, error) {
			close(loading)
			<-release
			return snapshot(7, 0), nil
		})
		loaded <- err
	}()
	<-loading

	got := make(chan entity.BalanceSnapshot, 1)
	go func() {
		value, _ := cache.Get("alice.near")
		got <- value
	}()

	select {
	case <-got:
		t.Fatal("Get returned while a load held the lock")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-loaded)
	assert.Equal(t, snapshot(7, 0), <-got)
	assert.Equal(t, 1, cache.Len())
}
