package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/datagateway"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
)

// GetBalanceChangesByAccount returns the latest balance changes of the account, newest first.
// If toTimestamp is not nil, changes after it (nanoseconds) are excluded.
func (u *Usecase) GetBalanceChangesByAccount(ctx context.Context, accountId string, toTimestamp *int64, limit int32) ([]*entity.BalanceChange, error) {
	changes, err := u.balanceChangesDg.GetBalanceChangesByAccount(ctx, datagateway.GetBalanceChangesByAccountParams{
		AccountId:   accountId,
		ToTimestamp: toTimestamp,
		Limit:       limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance changes by account")
	}
	return changes, nil
}
