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

func TestAssembleChunk(t *testing.T) {
	validatorChanges := []*entity.BalanceChange{
		{AffectedAccountId: "v1.near"},
		{AffectedAccountId: "v2.near"},
	}
	transactionChanges := []*entity.BalanceChange{
		{AffectedAccountId: "t1.near"},
		{AffectedAccountId: "t2.near"},
		{AffectedAccountId: "t3.near"},
	}

	changes := AssembleChunk(validatorChanges, transactionChanges)
	assert.Len(t, changes, 5)
	for i, want := range []string{"v1.near", "v2.near", "t1.near", "t2.near", "t3.near"} {
		assert.Equal(t, want, changes[i].AffectedAccountId)
		assert.EqualValues(t, i, changes[i].IndexInChunk)
	}

	assert.Empty(t, AssembleChunk(nil, nil))

	onlyTransactions := AssembleChunk(nil, []*entity.BalanceChange{{AffectedAccountId: "t.near"}})
	assert.Len(t, onlyTransactions, 1)
	assert.EqualValues(t, 0, onlyTransactions[0].IndexInChunk)
}

func TestAssembleChunkValidatorUpdateThenFeeBurn(t *testing.T) {
	ctx := context.Background()
	header := testHeader(10)
	querier := newFakeQuerier()
	querier.setAccount("alice.near", 100, 10)
	resolver, cache := newTestResolver(t, querier)

	validatorChanges, err := NewValidatorUpdateExtractor(resolver).Extract(ctx, []*types.StateChangeWithCause{
		validatorUpdate("alice.near", 150, 10),
	}, header, 0)
	require.NoError(t, err)
	transactionChanges, err := NewTransactionOutcomeExtractor(resolver).Extract(ctx, []*types.TransactionWithOutcome{
		feeBurn(1, "alice.near", 5),
	}, header, 0)
	require.NoError(t, err)

	changes := AssembleChunk(validatorChanges, transactionChanges)
	require.Len(t, changes, 2)

	validator := changes[0]
	assert.EqualValues(t, 0, validator.IndexInChunk)
	assert.Equal(t, "50", validator.DeltaLiquidAmount.String())
	assert.Equal(t, uint128.From64(150), validator.AbsoluteLiquidAmount)

	fee := changes[1]
	assert.EqualValues(t, 1, fee.IndexInChunk)
	assert.Equal(t, "-5", fee.DeltaLiquidAmount.String())
	assert.Equal(t, uint128.From64(145), fee.AbsoluteLiquidAmount)
	assert.Equal(t, uint128.From64(10), fee.AbsoluteLockedAmount)

	cached, ok := cache.Get("alice.near")
	require.True(t, ok)
	assert.Equal(t, snapshot(145, 10), cached)
	assert.Equal(t, 1, querier.queryCount())
}
