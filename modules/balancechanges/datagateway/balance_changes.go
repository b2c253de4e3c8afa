package datagateway

import (
	"context"

	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
)

type BalanceChangesDataGateway interface {
	BalanceChangesReaderDataGateway
	BalanceChangesWriterDataGateway

	// BeginBalanceChangesTx returns a new BalanceChangesDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	// Write operations of the returned datagateway are safe for concurrent use.
	BeginBalanceChangesTx(ctx context.Context) (BalanceChangesDataGatewayWithTx, error)
}

type BalanceChangesDataGatewayWithTx interface {
	BalanceChangesDataGateway
	Tx
}

type BalanceChangesReaderDataGateway interface {
	// GetLatestBlock returns the last indexed block. Returns errs.NotFound if no block has been indexed.
	GetLatestBlock(ctx context.Context) (types.BlockHeader, error)
	// GetBalanceChangesByAccount returns the latest balance changes of the account, newest first.
	GetBalanceChangesByAccount(ctx context.Context, params GetBalanceChangesByAccountParams) ([]*entity.BalanceChange, error)
}

type BalanceChangesWriterDataGateway interface {
	// CreateBalanceChanges inserts the balance changes in sub-batches of bounded size, in order.
	// It stops at the first failed sub-batch.
	CreateBalanceChanges(ctx context.Context, changes []*entity.BalanceChange) error
	CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error
}

type GetBalanceChangesByAccountParams struct {
	AccountId string
	// ToTimestamp filters out changes after the given block timestamp if set.
	ToTimestamp *int64
	Limit       int32
}
