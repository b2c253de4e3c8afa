package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/datagateway"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.IndexerInfoDataGateway = (*Repository)(nil)

func (r *Repository) GetLatestIndexerState(ctx context.Context) (entity.IndexerState, error) {
	model, err := r.queries.GetLatestIndexerState(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.IndexerState{}, errors.WithStack(errs.NotFound)
		}
		return entity.IndexerState{}, errors.Wrap(err, "error during query")
	}
	return mapIndexerStateModelToType(model), nil
}

func (r *Repository) SetIndexerState(ctx context.Context, state entity.IndexerState) error {
	if err := r.queries.SetIndexerState(ctx, mapIndexerStateTypeToParams(state)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
