package decimals

import (
	"testing"

	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUint128(t *testing.T) {
	assert.Equal(t, "0", FromUint128(uint128.Zero).String())
	assert.Equal(t, "340282366920938463463374607431768211455", FromUint128(uint128.Max).String())
}

func TestDelta(t *testing.T) {
	testcases := []struct {
		after, before uint64
		expected      string
	}{
		{100, 40, "60"},
		{40, 100, "-60"},
		{7, 7, "0"},
	}
	for _, tc := range testcases {
		assert.Equal(t, tc.expected, Delta(uint128.From64(tc.after), uint128.From64(tc.before)).String())
	}

	t.Run("max_range", func(t *testing.T) {
		assert.Equal(t, "-340282366920938463463374607431768211455", Delta(uint128.Zero, uint128.Max).String())
	})
}

func TestToUint128(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		u128, err := ToUint128(MustFromString("1000000000000000000000000"))
		require.NoError(t, err)
		assert.Equal(t, "1000000000000000000000000", u128.String())
	})
	t.Run("negative", func(t *testing.T) {
		_, err := ToUint128(decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, errs.OverflowUint128)
	})
	t.Run("overflow", func(t *testing.T) {
		_, err := ToUint128(MustFromString("340282366920938463463374607431768211456"))
		assert.ErrorIs(t, err, errs.OverflowUint128)
	})
	t.Run("fraction", func(t *testing.T) {
		_, err := ToUint128(MustFromString("1.5"))
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}

func TestToNear(t *testing.T) {
	assert.Equal(t, "1.5", ToNear(MustFromString("1500000000000000000000000")).String())
	assert.Equal(t, "0.000000000000000000000001", ToNear(decimal.NewFromInt(1)).String())
}
