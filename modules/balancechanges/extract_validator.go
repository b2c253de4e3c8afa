package balancechanges

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/near-balance-indexer/pkg/decimals"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
)

// ValidatorUpdateExtractor derives balance changes of account updates caused by validator bookkeeping.
type ValidatorUpdateExtractor struct {
	resolver *AccountBalanceResolver
}

func NewValidatorUpdateExtractor(resolver *AccountBalanceResolver) *ValidatorUpdateExtractor {
	return &ValidatorUpdateExtractor{
		resolver: resolver,
	}
}

// Extract returns the balance changes of the state changes in source order.
// Causes that can't appear in a regular block fail with ErrUnrecognizedCause.
func (e *ValidatorUpdateExtractor) Extract(ctx context.Context, stateChanges []*types.StateChangeWithCause, header types.BlockHeader, shardId uint64) ([]*entity.BalanceChange, error) {
	changes := make([]*entity.BalanceChange, 0)
	for i, stateChange := range stateChanges {
		if stateChange.Value.Type != types.ValueAccountUpdate {
			continue
		}

		switch stateChange.Cause.Type {
		case types.CauseValidatorAccountsUpdate:
		case types.CauseNotWritableToDisk,
			types.CauseInitialState,
			types.CauseUpdatedDelayedReceipts,
			types.CauseMigration,
			types.CauseResharding:
			logger.ErrorContext(ctx, "Unexpected state change cause", ErrUnrecognizedCause,
				slog.String("cause", stateChange.Cause.Type.Print()),
				slog.String("account_id", stateChange.Value.AccountId),
				slog.Int("index", i),
			)
			return nil, errors.Wrapf(ErrUnrecognizedCause, "cause %s of account update for %s at block %d", stateChange.Cause.Type.Print(), stateChange.Value.AccountId, header.Height)
		default:
			// transaction and receipt causes have their own producers
			continue
		}

		account := stateChange.Value.Account
		if account == nil {
			return nil, errors.Wrapf(errs.InternalError, "account update for %s has no account", stateChange.Value.AccountId)
		}
		next := entity.BalanceSnapshot{
			Liquid: account.Amount,
			Locked: account.Locked,
		}

		prev, err := e.resolver.Apply(ctx, stateChange.Value.AccountId, header.PrevHash, func(entity.BalanceSnapshot) (entity.BalanceSnapshot, error) {
			return next, nil
		})
		if err != nil {
			return nil, errors.WithStack(err)
		}

		changes = append(changes, &entity.BalanceChange{
			BlockTimestamp:       header.Timestamp,
			AffectedAccountId:    stateChange.Value.AccountId,
			Direction:            entity.DirectionNone,
			Cause:                stateChange.Cause.Type.Print(),
			DeltaLiquidAmount:    decimals.Delta(next.Liquid, prev.Liquid),
			AbsoluteLiquidAmount: next.Liquid,
			DeltaLockedAmount:    decimals.Delta(next.Locked, prev.Locked),
			AbsoluteLockedAmount: next.Locked,
			ShardId:              shardId,
		})
	}
	return changes, nil
}
