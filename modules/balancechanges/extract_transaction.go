package balancechanges

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/near-balance-indexer/pkg/decimals"
	"github.com/shopspring/decimal"
)

// TransactionOutcomeExtractor derives the fee burns charged to the account converting a transaction into a receipt.
type TransactionOutcomeExtractor struct {
	resolver *AccountBalanceResolver
}

func NewTransactionOutcomeExtractor(resolver *AccountBalanceResolver) *TransactionOutcomeExtractor {
	return &TransactionOutcomeExtractor{
		resolver: resolver,
	}
}

func (e *TransactionOutcomeExtractor) Extract(ctx context.Context, transactions []*types.TransactionWithOutcome, header types.BlockHeader, shardId uint64) ([]*entity.BalanceChange, error) {
	changes := make([]*entity.BalanceChange, 0, len(transactions))
	for _, tx := range transactions {
		accountId := tx.Outcome.ExecutorId
		tokensBurnt := tx.Outcome.TokensBurnt

		var next entity.BalanceSnapshot
		_, err := e.resolver.Apply(ctx, accountId, header.PrevHash, func(prev entity.BalanceSnapshot) (entity.BalanceSnapshot, error) {
			if prev.Liquid.Cmp(tokensBurnt) < 0 {
				return entity.BalanceSnapshot{}, errors.Wrapf(ErrBalanceUnderflow, "%s burnt %s yoctoNEAR with liquid balance %s in transaction %s", accountId, tokensBurnt, prev.Liquid, tx.Hash)
			}
			next = entity.BalanceSnapshot{
				Liquid: prev.Liquid.Sub(tokensBurnt),
				Locked: prev.Locked,
			}
			return next, nil
		})
		if err != nil {
			return nil, errors.WithStack(err)
		}

		changes = append(changes, &entity.BalanceChange{
			BlockTimestamp:       header.Timestamp,
			TransactionHash:      &tx.Hash,
			AffectedAccountId:    accountId,
			Direction:            entity.DirectionActionFromAffectedAccount,
			Cause:                types.CauseTransactionProcessing.Print(),
			DeltaLiquidAmount:    decimals.FromUint128(tokensBurnt).Neg(),
			AbsoluteLiquidAmount: next.Liquid,
			DeltaLockedAmount:    decimal.Zero,
			AbsoluteLockedAmount: next.Locked,
			ShardId:              shardId,
		})
	}
	return changes, nil
}
