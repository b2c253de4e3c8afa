package balancechanges

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/sync/semaphore"
)

// LoadFunc returns the balance of an account that is not in the cache.
type LoadFunc func(ctx context.Context) (entity.BalanceSnapshot, error)

// PreviousBalanceCache holds the last known balance of accounts with least-recently-used eviction.
//
// Every operation runs under a single exclusive lock. The lock is also held while loading a missing
// entry, so concurrent callers never load the same account twice and never lose an update.
type PreviousBalanceCache struct {
	sem *semaphore.Weighted
	lru *simplelru.LRU[string, entity.BalanceSnapshot]
}

func NewPreviousBalanceCache(capacity int) (*PreviousBalanceCache, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(errs.InvalidArgument, "cache capacity must be positive, got %d", capacity)
	}
	lru, err := simplelru.NewLRU[string, entity.BalanceSnapshot](capacity, nil)
	if err != nil {
		return nil, errors.Wrap(err, "can't create lru cache")
	}
	return &PreviousBalanceCache{
		sem: semaphore.NewWeighted(1),
		lru: lru,
	}, nil
}

func (c *PreviousBalanceCache) acquire(ctx context.Context) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "can't acquire cache lock")
	}
	return nil
}

// lock blocks until the lock is held. Acquire only fails once its context is done.
func (c *PreviousBalanceCache) lock() {
	_ = c.sem.Acquire(context.Background(), 1)
}

func (c *PreviousBalanceCache) release() {
	c.sem.Release(1)
}

func (c *PreviousBalanceCache) Get(accountId string) (entity.BalanceSnapshot, bool) {
	c.lock()
	defer c.release()
	return c.lru.Get(accountId)
}

func (c *PreviousBalanceCache) Set(accountId string, snapshot entity.BalanceSnapshot) {
	c.lock()
	defer c.release()
	c.lru.Add(accountId, snapshot)
}

// GetOrLoad returns the cached snapshot, or loads and caches it on a miss. Load errors are not cached.
func (c *PreviousBalanceCache) GetOrLoad(ctx context.Context, accountId string, load LoadFunc) (entity.BalanceSnapshot, error) {
	return c.Modify(ctx, accountId, load, nil)
}

// Modify resolves the snapshot of the account like GetOrLoad, then replaces it with the result of modify,
// all in one critical section. It returns the snapshot prior to the modification.
// If modify fails, the loaded snapshot is still cached but left unmodified.
func (c *PreviousBalanceCache) Modify(ctx context.Context, accountId string, load LoadFunc, modify func(prev entity.BalanceSnapshot) (entity.BalanceSnapshot, error)) (entity.BalanceSnapshot, error) {
	if err := c.acquire(ctx); err != nil {
		return entity.BalanceSnapshot{}, errors.WithStack(err)
	}
	defer c.release()

	prev, ok := c.lru.Get(accountId)
	if !ok {
		loaded, err := load(ctx)
		if err != nil {
			return entity.BalanceSnapshot{}, errors.WithStack(err)
		}
		prev = loaded
		c.lru.Add(accountId, prev)
	}
	if modify == nil {
		return prev, nil
	}

	next, err := modify(prev)
	if err != nil {
		return entity.BalanceSnapshot{}, errors.WithStack(err)
	}
	c.lru.Add(accountId, next)
	return prev, nil
}

// Purge drops every entry.
func (c *PreviousBalanceCache) Purge() {
	c.lock()
	defer c.release()
	c.lru.Purge()
}

func (c *PreviousBalanceCache) Len() int {
	c.lock()
	defer c.release()
	return c.lru.Len()
}
