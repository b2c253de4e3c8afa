package balancechanges

import (
	"context"
	"testing"

	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorUpdateExtractor(t *testing.T) {
	header := testHeader(100)

	t.Run("cached_previous_balance", func(t *testing.T) {
		querier := newFakeQuerier()
		resolver, cache := newTestResolver(t, querier)
		cache.Set("validator.near", snapshot(100, 0))

		changes, err := NewValidatorUpdateExtractor(resolver).Extract(context.Background(), []*types.StateChangeWithCause{
			validatorUpdate("validator.near", 150, 0),
		}, header, 3)
		require.NoError(t, err)
		require.Len(t, changes, 1)

		change := changes[0]
		assert.Equal(t, header.Timestamp, change.BlockTimestamp)
		assert.Equal(t, "validator.near", change.AffectedAccountId)
		assert.Nil(t, change.ReceiptId)
		assert.Nil(t, change.TransactionHash)
		assert.Nil(t, change.InvolvedAccountId)
		assert.Equal(t, entity.DirectionNone, change.Direction)
		assert.Equal(t, "VALIDATOR_ACCOUNTS_UPDATE", change.Cause)
		assert.Equal(t, "50", change.DeltaLiquidAmount.String())
		assert.Equal(t, uint128.From64(150), change.AbsoluteLiquidAmount)
		assert.Equal(t, "0", change.DeltaLockedAmount.String())
		assert.Equal(t, uint128.Zero, change.AbsoluteLockedAmount)
		assert.EqualValues(t, 3, change.ShardId)
		assert.Equal(t, 0, querier.queryCount())

		cached, ok := cache.Get("validator.near")
		assert.True(t, ok)
		assert.Equal(t, snapshot(150, 0), cached)
	})

	t.Run("stake_moves_to_locked", func(t *testing.T) {
		querier := newFakeQuerier()
		querier.setAccount("validator.near", 1000, 500)
		resolver, _ := newTestResolver(t, querier)

		changes, err := NewValidatorUpdateExtractor(resolver).Extract(context.Background(), []*types.StateChangeWithCause{
			validatorUpdate("validator.near", 900, 600),
		}, header, 0)
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "-100", changes[0].DeltaLiquidAmount.String())
		assert.Equal(t, "100", changes[0].DeltaLockedAmount.String())
		assert.Equal(t, []accountQuery{{AccountId: "validator.near", BlockHash: header.PrevHash.String()}}, querier.queries)
	})

	t.Run("skips_other_values_and_causes", func(t *testing.T) {
		querier := newFakeQuerier()
		resolver, _ := newTestResolver(t, querier)

		changes, err := NewValidatorUpdateExtractor(resolver).Extract(context.Background(), []*types.StateChangeWithCause{
			{
				Cause: types.StateChangeCause{Type: types.CauseValidatorAccountsUpdate},
				Value: types.StateChangeValue{Type: types.ValueAccessKeyUpdate, AccountId: "alice.near"},
			},
			accountUpdate(types.CauseTransactionProcessing, "alice.near", 10, 0),
			accountUpdate(types.CauseReceiptProcessing, "bob.near", 10, 0),
			accountUpdate(types.CauseActionReceiptGasReward, "contract.near", 10, 0),
		}, header, 0)
		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Equal(t, 0, querier.queryCount())
	})

	t.Run("keeps_source_order", func(t *testing.T) {
		querier := newFakeQuerier()
		resolver, cache := newTestResolver(t, querier)
		cache.Set("a.near", snapshot(1, 0))
		cache.Set("b.near", snapshot(2, 0))

		changes, err := NewValidatorUpdateExtractor(resolver).Extract(context.Background(), []*types.StateChangeWithCause{
			validatorUpdate("b.near", 20, 0),
			accountUpdate(types.CauseReceiptProcessing, "c.near", 10, 0),
			validatorUpdate("a.near", 10, 0),
		}, header, 0)
		require.NoError(t, err)
		require.Len(t, changes, 2)
		assert.Equal(t, "b.near", changes[0].AffectedAccountId)
		assert.Equal(t, "a.near", changes[1].AffectedAccountId)
	})

	t.Run("unrecognized_causes", func(t *testing.T) {
		for _, cause := range []types.StateChangeCauseType{
			types.CauseNotWritableToDisk,
			types.CauseInitialState,
			types.CauseUpdatedDelayedReceipts,
			types.CauseMigration,
			types.CauseResharding,
		} {
			t.Run(string(cause), func(t *testing.T) {
				querier := newFakeQuerier()
				resolver, _ := newTestResolver(t, querier)

				_, err := NewValidatorUpdateExtractor(resolver).Extract(context.Background(), []*types.StateChangeWithCause{
					accountUpdate(cause, "alice.near", 10, 0),
				}, header, 0)
				assert.ErrorIs(t, err, ErrUnrecognizedCause)
				assert.Equal(t, 0, querier.queryCount())
			})
		}
	})

	t.Run("resolution_failure", func(t *testing.T) {
		querier := newFakeQuerier()
		resolver, _ := newTestResolver(t, querier)

		_, err := NewValidatorUpdateExtractor(resolver).Extract(context.Background(), []*types.StateChangeWithCause{
			validatorUpdate("ghost.near", 10, 0),
		}, header, 0)
		assert.ErrorIs(t, err, ErrResolution)
	})
}

func TestTransactionOutcomeExtractor(t *testing.T) {
	header := testHeader(200)

	t.Run("queried_previous_balance", func(t *testing.T) {
		querier := newFakeQuerier()
		querier.setAccount("alice.near", 1000, 200)
		resolver, cache := newTestResolver(t, querier)

		tx := feeBurn(7, "alice.near", 5)
		changes, err := NewTransactionOutcomeExtractor(resolver).Extract(context.Background(), []*types.TransactionWithOutcome{tx}, header, 1)
		require.NoError(t, err)
		require.Len(t, changes, 1)

		change := changes[0]
		assert.Equal(t, header.Timestamp, change.BlockTimestamp)
		require.NotNil(t, change.TransactionHash)
		assert.Equal(t, tx.Hash, *change.TransactionHash)
		assert.Nil(t, change.ReceiptId)
		assert.Nil(t, change.InvolvedAccountId)
		assert.Equal(t, "alice.near", change.AffectedAccountId)
		assert.Equal(t, entity.DirectionActionFromAffectedAccount, change.Direction)
		assert.Equal(t, "TRANSACTION_PROCESSING", change.Cause)
		assert.Equal(t, "-5", change.DeltaLiquidAmount.String())
		assert.Equal(t, uint128.From64(995), change.AbsoluteLiquidAmount)
		assert.Equal(t, "0", change.DeltaLockedAmount.String())
		assert.Equal(t, uint128.From64(200), change.AbsoluteLockedAmount)
		assert.EqualValues(t, 1, change.ShardId)
		assert.Equal(t, []accountQuery{{AccountId: "alice.near", BlockHash: header.PrevHash.String()}}, querier.queries)

		cached, ok := cache.Get("alice.near")
		assert.True(t, ok)
		assert.Equal(t, snapshot(995, 200), cached)
	})

	t.Run("same_account_chains_balances", func(t *testing.T) {
		querier := newFakeQuerier()
		querier.setAccount("alice.near", 1000, 0)
		resolver, _ := newTestResolver(t, querier)

		changes, err := NewTransactionOutcomeExtractor(resolver).Extract(context.Background(), []*types.TransactionWithOutcome{
			feeBurn(1, "alice.near", 5),
			feeBurn(2, "alice.near", 10),
		}, header, 0)
		require.NoError(t, err)
		require.Len(t, changes, 2)
		assert.Equal(t, uint128.From64(995), changes[0].AbsoluteLiquidAmount)
		assert.Equal(t, uint128.From64(985), changes[1].AbsoluteLiquidAmount)
		assert.Equal(t, "-10", changes[1].DeltaLiquidAmount.String())
		assert.Equal(t, 1, querier.queryCount())
	})

	t.Run("zero_burn", func(t *testing.T) {
		querier := newFakeQuerier()
		resolver, cache := newTestResolver(t, querier)
		cache.Set("alice.near", snapshot(10, 0))

		changes, err := NewTransactionOutcomeExtractor(resolver).Extract(context.Background(), []*types.TransactionWithOutcome{
			feeBurn(1, "alice.near", 0),
		}, header, 0)
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "0", changes[0].DeltaLiquidAmount.String())
		assert.Equal(t, uint128.From64(10), changes[0].AbsoluteLiquidAmount)
	})

	t.Run("burn_exceeds_liquid_balance", func(t *testing.T) {
		querier := newFakeQuerier()
		resolver, cache := newTestResolver(t, querier)
		cache.Set("alice.near", snapshot(3, 0))

		_, err := NewTransactionOutcomeExtractor(resolver).Extract(context.Background(), []*types.TransactionWithOutcome{
			feeBurn(1, "alice.near", 5),
		}, header, 0)
		assert.ErrorIs(t, err, ErrBalanceUnderflow)

		cached, ok := cache.Get("alice.near")
		assert.True(t, ok)
		assert.Equal(t, snapshot(3, 0), cached)
	})

	t.Run("resolution_failure", func(t *testing.T) {
		querier := newFakeQuerier()
		resolver, _ := newTestResolver(t, querier)

		_, err := NewTransactionOutcomeExtractor(resolver).Extract(context.Background(), []*types.TransactionWithOutcome{
			feeBurn(1, "ghost.near", 5),
		}, header, 0)
		assert.ErrorIs(t, err, ErrResolution)
	})

	t.Run("no_transactions", func(t *testing.T) {
		resolver, _ := newTestResolver(t, newFakeQuerier())

		changes, err := NewTransactionOutcomeExtractor(resolver).Extract(context.Background(), nil, header, 0)
		require.NoError(t, err)
		assert.Empty(t, changes)
	})
}
