package datagateway

import (
	"context"

	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
)

type IndexerInfoDataGateway interface {
	GetLatestIndexerState(ctx context.Context) (entity.IndexerState, error)
	SetIndexerState(ctx context.Context, state entity.IndexerState) error
}
