package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/core/types"
)

func (u *Usecase) GetLatestBlock(ctx context.Context) (types.BlockHeader, error) {
	blockHeader, err := u.balanceChangesDg.GetLatestBlock(ctx)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "failed to get latest block")
	}
	return blockHeader, nil
}
