package balancechanges

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/nearrpc"
)

// AccountBalanceResolver returns previous balances from the cache, falling back to a point-in-time
// account query on a miss. Retrying failed queries is up to the querier.
type AccountBalanceResolver struct {
	cache   *PreviousBalanceCache
	querier nearrpc.AccountQuerier
}

func NewAccountBalanceResolver(cache *PreviousBalanceCache, querier nearrpc.AccountQuerier) *AccountBalanceResolver {
	return &AccountBalanceResolver{
		cache:   cache,
		querier: querier,
	}
}

// Resolve returns the balance of the account as of blockHash.
func (r *AccountBalanceResolver) Resolve(ctx context.Context, accountId string, blockHash types.CryptoHash) (entity.BalanceSnapshot, error) {
	snapshot, err := r.cache.GetOrLoad(ctx, accountId, r.loader(accountId, blockHash))
	if err != nil {
		return entity.BalanceSnapshot{}, errors.WithStack(err)
	}
	return snapshot, nil
}

// Apply resolves the balance of the account as of blockHash and replaces it with the result of fn atomically.
// It returns the resolved (previous) balance.
func (r *AccountBalanceResolver) Apply(ctx context.Context, accountId string, blockHash types.CryptoHash, fn func(prev entity.BalanceSnapshot) (entity.BalanceSnapshot, error)) (entity.BalanceSnapshot, error) {
	prev, err := r.cache.Modify(ctx, accountId, r.loader(accountId, blockHash), fn)
	if err != nil {
		return entity.BalanceSnapshot{}, errors.WithStack(err)
	}
	return prev, nil
}

func (r *AccountBalanceResolver) loader(accountId string, blockHash types.CryptoHash) LoadFunc {
	return func(ctx context.Context) (entity.BalanceSnapshot, error) {
		logger.DebugContext(ctx, "Previous balance cache miss, querying account",
			slog.String("account_id", accountId),
			slog.String("block_hash", blockHash.String()),
		)
		view, err := r.querier.ViewAccount(ctx, accountId, blockHash.String())
		if err != nil {
			return entity.BalanceSnapshot{}, errors.Wrapf(errors.Join(ErrResolution, err), "can't resolve balance of %s at block %s", accountId, blockHash)
		}
		return entity.BalanceSnapshot{
			Liquid: view.Amount,
			Locked: view.Locked,
		}, nil
	}
}
