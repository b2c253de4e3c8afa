package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/datagateway"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

var _ datagateway.BalanceChangesDataGateway = (*Repository)(nil)

func (r *Repository) GetLatestBlock(ctx context.Context) (types.BlockHeader, error) {
	block, err := r.queries.GetLatestIndexedBlock(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.BlockHeader{}, errors.WithStack(errs.NotFound)
		}
		return types.BlockHeader{}, errors.Wrap(err, "error during query")
	}
	indexedBlock, err := mapIndexedBlockModelToType(block)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "failed to parse indexed block model")
	}
	return types.BlockHeader{
		Height:    indexedBlock.Height,
		Hash:      indexedBlock.Hash,
		PrevHash:  indexedBlock.PrevHash,
		Timestamp: indexedBlock.Timestamp,
	}, nil
}

func (r *Repository) GetBalanceChangesByAccount(ctx context.Context, params datagateway.GetBalanceChangesByAccountParams) ([]*entity.BalanceChange, error) {
	var toTimestamp pgtype.Numeric
	if params.ToTimestamp != nil {
		toTimestamp = numericFromInt64(*params.ToTimestamp)
	}
	models, err := r.queries.GetBalanceChangesByAccount(ctx, gen.GetBalanceChangesByAccountParams{
		AffectedAccountID: params.AccountId,
		ToTimestamp:       toTimestamp,
		LimitCount:        params.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}

	changes := make([]*entity.BalanceChange, 0, len(models))
	for _, model := range models {
		change, err := mapBalanceChangeModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse balance change model")
		}
		changes = append(changes, &change)
	}
	return changes, nil
}

func (r *Repository) CreateBalanceChanges(ctx context.Context, changes []*entity.BalanceChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, batch := range lo.Chunk(changes, insertBatchSize) {
		params, err := mapBalanceChangesTypeToParams(batch)
		if err != nil {
			return errors.Wrap(err, "failed to map balance changes to params")
		}
		if err := r.queries.BatchCreateBalanceChangesPatched(ctx, params); err != nil {
			return errors.Wrapf(err, "error during exec sub-batch %d (%d rows)", i, len(batch))
		}
	}
	return nil
}

func (r *Repository) CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.queries.CreateIndexedBlock(ctx, mapIndexedBlockTypeToParams(block)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
