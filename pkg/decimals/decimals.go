package decimals

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36

	// YoctoNearDecimals is the number of decimals between yoctoNEAR and NEAR.
	YoctoNearDecimals = 24
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// FromUint128 convert uint128.Uint128 to decimal.Decimal without losing precision.
func FromUint128(v uint128.Uint128) decimal.Decimal {
	return decimal.NewFromBigInt(v.Big(), 0)
}

// Delta returns after - before. The result may be negative.
func Delta(after, before uint128.Uint128) decimal.Decimal {
	return FromUint128(after).Sub(FromUint128(before))
}

// ToUint128 convert decimal.Decimal to uint128.Uint128.
// The value must be a non-negative integer that fits in 128 bits.
func ToUint128(d decimal.Decimal) (uint128.Uint128, error) {
	if !d.IsInteger() {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "%s is not an integer", d.String())
	}
	u128, err := uint128.FromBig(d.BigInt())
	if err != nil {
		return uint128.Zero, errors.Join(errors.Wrapf(err, "can't convert %s", d.String()), errs.OverflowUint128)
	}
	return u128, nil
}

// ToNear convert an amount in yoctoNEAR to NEAR.
func ToNear(yocto decimal.Decimal) decimal.Decimal {
	return yocto.Shift(-YoctoNearDecimals)
}
