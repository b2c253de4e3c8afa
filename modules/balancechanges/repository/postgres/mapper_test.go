package postgres

import (
	"testing"
	"time"

	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/repository/postgres/gen"
	"github.com/gaze-network/near-balance-indexer/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHash(t *testing.T) types.CryptoHash {
	t.Helper()
	hash, err := types.NewCryptoHashFromString("81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo")
	require.NoError(t, err)
	return hash
}

func TestNumeric(t *testing.T) {
	t.Run("decimal", func(t *testing.T) {
		for _, value := range []string{"0", "-5", "340282366920938463463374607431768211455", "-340282366920938463463374607431768211455"} {
			d := decimals.MustFromString(value)
			result, err := decimalFromNumeric(numericFromDecimal(d))
			require.NoError(t, err)
			assert.True(t, d.Equal(result), "expected %s, got %s", d, result)
		}
	})

	t.Run("uint128_with_exponent", func(t *testing.T) {
		// postgres may return trailing zeros as exponent
		result, err := uint128FromNumeric(pgtype.Numeric{Int: uint128.From64(15).Big(), Exp: 23, Valid: true})
		require.NoError(t, err)
		assert.Equal(t, "1500000000000000000000000", result.String())
	})

	t.Run("negative_uint128", func(t *testing.T) {
		_, err := uint128FromNumeric(numericFromDecimal(decimal.NewFromInt(-1)))
		assert.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := decimalFromNumeric(pgtype.Numeric{})
		assert.Error(t, err)
		_, err = decimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true})
		assert.Error(t, err)
	})

	t.Run("time", func(t *testing.T) {
		ts := time.Unix(1_700_000_000, 123_456_789).UTC()
		result, err := timeFromNumeric(numericFromTime(ts))
		require.NoError(t, err)
		assert.Equal(t, ts, result)
	})
}

func TestMapBalanceChangeModelToType(t *testing.T) {
	hash := testHash(t)
	model := gen.BalanceChange{
		BlockTimestamp:       numericFromInt64(1_700_000_000_000_000_001),
		TransactionHash:      pgtype.Text{String: hash.String(), Valid: true},
		AffectedAccountID:    "bob.near",
		Direction:            string(entity.DirectionActionFromAffectedAccount),
		Cause:                "TRANSACTION_PROCESSING",
		DeltaLiquidAmount:    numericFromDecimal(decimal.NewFromInt(-5)),
		AbsoluteLiquidAmount: numericFromUint128(uint128.From64(995)),
		DeltaLockedAmount:    numericFromDecimal(decimal.Zero),
		AbsoluteLockedAmount: numericFromUint128(uint128.From64(200)),
		ShardID:              2,
		IndexInChunk:         7,
	}

	change, err := mapBalanceChangeModelToType(model)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000_000_000_001), change.BlockTimestamp.UnixNano())
	assert.Nil(t, change.ReceiptId)
	require.NotNil(t, change.TransactionHash)
	assert.Equal(t, hash, *change.TransactionHash)
	assert.Nil(t, change.InvolvedAccountId)
	assert.Equal(t, "bob.near", change.AffectedAccountId)
	assert.Equal(t, entity.DirectionActionFromAffectedAccount, change.Direction)
	assert.Equal(t, "-5", change.DeltaLiquidAmount.String())
	assert.Equal(t, uint128.From64(995), change.AbsoluteLiquidAmount)
	assert.True(t, change.DeltaLockedAmount.IsZero())
	assert.Equal(t, uint128.From64(200), change.AbsoluteLockedAmount)
	assert.Equal(t, uint64(2), change.ShardId)
	assert.Equal(t, int32(7), change.IndexInChunk)
}

func TestMapIndexedBlock(t *testing.T) {
	block := &entity.IndexedBlock{
		Height:    100,
		Hash:      testHash(t),
		PrevHash:  types.ZeroHash,
		Timestamp: time.Unix(0, 1_700_000_000_000_000_000).UTC(),
	}
	params := mapIndexedBlockTypeToParams(block)

	result, err := mapIndexedBlockModelToType(gen.BalanceChangesIndexedBlock{
		Height:    params.Height,
		Hash:      params.Hash,
		PrevHash:  params.PrevHash,
		Timestamp: params.Timestamp,
	})
	require.NoError(t, err)
	assert.Equal(t, *block, result)
}
