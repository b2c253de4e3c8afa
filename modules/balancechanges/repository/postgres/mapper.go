package postgres

import (
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/repository/postgres/gen"
	"github.com/gaze-network/near-balance-indexer/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func numericFromDecimal(src decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   src.Coefficient(),
		Exp:   src.Exponent(),
		Valid: true,
	}
}

func numericFromUint128(src uint128.Uint128) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   src.Big(),
		Valid: true,
	}
}

func numericFromInt64(src int64) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   big.NewInt(src),
		Valid: true,
	}
}

// numericFromTime stores a timestamp as nanoseconds since the unix epoch.
func numericFromTime(src time.Time) pgtype.Numeric {
	return numericFromInt64(src.UnixNano())
}

func decimalFromNumeric(src pgtype.Numeric) (decimal.Decimal, error) {
	if !src.Valid || src.NaN || src.InfinityModifier != pgtype.Finite || src.Int == nil {
		return decimal.Decimal{}, errors.Errorf("invalid numeric value: %+v", src)
	}
	return decimal.NewFromBigInt(src.Int, src.Exp), nil
}

func uint128FromNumeric(src pgtype.Numeric) (uint128.Uint128, error) {
	d, err := decimalFromNumeric(src)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	result, err := decimals.ToUint128(d)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return result, nil
}

func timeFromNumeric(src pgtype.Numeric) (time.Time, error) {
	d, err := decimalFromNumeric(src)
	if err != nil {
		return time.Time{}, errors.WithStack(err)
	}
	if !d.IsInteger() {
		return time.Time{}, errors.Errorf("timestamp %s is not an integer", d.String())
	}
	return time.Unix(0, d.IntPart()).UTC(), nil
}

func textFromHash(src *types.CryptoHash) pgtype.Text {
	if src == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: src.String(), Valid: true}
}

func hashFromText(src pgtype.Text) (*types.CryptoHash, error) {
	if !src.Valid {
		return nil, nil
	}
	hash, err := types.NewCryptoHashFromString(src.String)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &hash, nil
}

func textFromString(src *string) pgtype.Text {
	if src == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *src, Valid: true}
}

func mapBalanceChangesTypeToParams(src []*entity.BalanceChange) (gen.BatchCreateBalanceChangesPatchedParams, error) {
	params := gen.BatchCreateBalanceChangesPatchedParams{
		BatchCreateBalanceChangesParams: gen.BatchCreateBalanceChangesParams{
			BlockTimestampArr:       make([]pgtype.Numeric, 0, len(src)),
			AffectedAccountIDArr:    make([]string, 0, len(src)),
			DirectionArr:            make([]string, 0, len(src)),
			CauseArr:                make([]string, 0, len(src)),
			DeltaLiquidAmountArr:    make([]pgtype.Numeric, 0, len(src)),
			AbsoluteLiquidAmountArr: make([]pgtype.Numeric, 0, len(src)),
			DeltaLockedAmountArr:    make([]pgtype.Numeric, 0, len(src)),
			AbsoluteLockedAmountArr: make([]pgtype.Numeric, 0, len(src)),
			ShardIDArr:              make([]int32, 0, len(src)),
			IndexInChunkArr:         make([]int32, 0, len(src)),
		},
		ReceiptIDArr:         make([]pgtype.Text, 0, len(src)),
		TransactionHashArr:   make([]pgtype.Text, 0, len(src)),
		InvolvedAccountIDArr: make([]pgtype.Text, 0, len(src)),
	}
	for _, change := range src {
		if change.ShardId > uint64(1<<31-1) {
			return gen.BatchCreateBalanceChangesPatchedParams{}, errors.Errorf("shard id %d is out of range", change.ShardId)
		}
		params.BlockTimestampArr = append(params.BlockTimestampArr, numericFromTime(change.BlockTimestamp))
		params.ReceiptIDArr = append(params.ReceiptIDArr, textFromHash(change.ReceiptId))
		params.TransactionHashArr = append(params.TransactionHashArr, textFromHash(change.TransactionHash))
		params.AffectedAccountIDArr = append(params.AffectedAccountIDArr, change.AffectedAccountId)
		params.InvolvedAccountIDArr = append(params.InvolvedAccountIDArr, textFromString(change.InvolvedAccountId))
		params.DirectionArr = append(params.DirectionArr, string(change.Direction))
		params.CauseArr = append(params.CauseArr, change.Cause)
		params.DeltaLiquidAmountArr = append(params.DeltaLiquidAmountArr, numericFromDecimal(change.DeltaLiquidAmount))
		params.AbsoluteLiquidAmountArr = append(params.AbsoluteLiquidAmountArr, numericFromUint128(change.AbsoluteLiquidAmount))
		params.DeltaLockedAmountArr = append(params.DeltaLockedAmountArr, numericFromDecimal(change.DeltaLockedAmount))
		params.AbsoluteLockedAmountArr = append(params.AbsoluteLockedAmountArr, numericFromUint128(change.AbsoluteLockedAmount))
		params.ShardIDArr = append(params.ShardIDArr, int32(change.ShardId))
		params.IndexInChunkArr = append(params.IndexInChunkArr, change.IndexInChunk)
	}
	return params, nil
}

func mapBalanceChangeModelToType(src gen.BalanceChange) (entity.BalanceChange, error) {
	blockTimestamp, err := timeFromNumeric(src.BlockTimestamp)
	if err != nil {
		return entity.BalanceChange{}, errors.Wrap(err, "failed to parse block timestamp")
	}
	receiptId, err := hashFromText(src.ReceiptID)
	if err != nil {
		return entity.BalanceChange{}, errors.Wrap(err, "failed to parse receipt id")
	}
	txHash, err := hashFromText(src.TransactionHash)
	if err != nil {
		return entity.BalanceChange{}, errors.Wrap(err, "failed to parse transaction hash")
	}
	deltaLiquid, err := decimalFromNumeric(src.DeltaLiquidAmount)
	if err != nil {
		return entity.BalanceChange{}, errors.Wrap(err, "failed to parse delta liquid amount")
	}
	absoluteLiquid, err := uint128FromNumeric(src.AbsoluteLiquidAmount)
	if err != nil {
		return entity.BalanceChange{}, errors.Wrap(err, "failed to parse absolute liquid amount")
	}
	deltaLocked, err := decimalFromNumeric(src.DeltaLockedAmount)
	if err != nil {
		return entity.BalanceChange{}, errors.Wrap(err, "failed to parse delta locked amount")
	}
	absoluteLocked, err := uint128FromNumeric(src.AbsoluteLockedAmount)
	if err != nil {
		return entity.BalanceChange{}, errors.Wrap(err, "failed to parse absolute locked amount")
	}
	var involvedAccountId *string
	if src.InvolvedAccountID.Valid {
		involvedAccountId = &src.InvolvedAccountID.String
	}
	return entity.BalanceChange{
		BlockTimestamp:       blockTimestamp,
		ReceiptId:            receiptId,
		TransactionHash:      txHash,
		AffectedAccountId:    src.AffectedAccountID,
		InvolvedAccountId:    involvedAccountId,
		Direction:            entity.Direction(src.Direction),
		Cause:                src.Cause,
		DeltaLiquidAmount:    deltaLiquid,
		AbsoluteLiquidAmount: absoluteLiquid,
		DeltaLockedAmount:    deltaLocked,
		AbsoluteLockedAmount: absoluteLocked,
		ShardId:              uint64(src.ShardID),
		IndexInChunk:         src.IndexInChunk,
	}, nil
}

func mapIndexedBlockTypeToParams(src *entity.IndexedBlock) gen.CreateIndexedBlockParams {
	return gen.CreateIndexedBlockParams{
		Height:    src.Height,
		Hash:      src.Hash.String(),
		PrevHash:  src.PrevHash.String(),
		Timestamp: numericFromTime(src.Timestamp),
	}
}

func mapIndexedBlockModelToType(src gen.BalanceChangesIndexedBlock) (entity.IndexedBlock, error) {
	hash, err := types.NewCryptoHashFromString(src.Hash)
	if err != nil {
		return entity.IndexedBlock{}, errors.Wrap(err, "invalid block hash")
	}
	prevHash, err := types.NewCryptoHashFromString(src.PrevHash)
	if err != nil {
		return entity.IndexedBlock{}, errors.Wrap(err, "invalid prev block hash")
	}
	timestamp, err := timeFromNumeric(src.Timestamp)
	if err != nil {
		return entity.IndexedBlock{}, errors.Wrap(err, "invalid block timestamp")
	}
	return entity.IndexedBlock{
		Height:    src.Height,
		Hash:      hash,
		PrevHash:  prevHash,
		Timestamp: timestamp,
	}, nil
}

func mapIndexerStateModelToType(src gen.BalanceChangesIndexerState) entity.IndexerState {
	var createdAt time.Time
	if src.CreatedAt.Valid {
		createdAt = src.CreatedAt.Time.UTC()
	}
	return entity.IndexerState{
		DBVersion:     src.DbVersion,
		Network:       common.Network(src.Network),
		ClientVersion: src.ClientVersion,
		CreatedAt:     createdAt,
	}
}

func mapIndexerStateTypeToParams(src entity.IndexerState) gen.SetIndexerStateParams {
	return gen.SetIndexerStateParams{
		DbVersion:     src.DBVersion,
		Network:       src.Network.String(),
		ClientVersion: src.ClientVersion,
	}
}
