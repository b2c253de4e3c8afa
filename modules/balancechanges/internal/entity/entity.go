package entity

import (
	"time"

	"github.com/gaze-network/near-balance-indexer/common"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionNone                      Direction = "NONE"
	DirectionActionFromAffectedAccount Direction = "ACTION_FROM_AFFECTED_ACCOUNT"
)

// BalanceSnapshot is the balance of an account at a point in chain history.
type BalanceSnapshot struct {
	Liquid uint128.Uint128
	Locked uint128.Uint128
}

type BalanceChange struct {
	BlockTimestamp       time.Time
	ReceiptId            *types.CryptoHash
	TransactionHash      *types.CryptoHash
	AffectedAccountId    string
	InvolvedAccountId    *string
	Direction            Direction
	Cause                string
	DeltaLiquidAmount    decimal.Decimal
	AbsoluteLiquidAmount uint128.Uint128
	DeltaLockedAmount    decimal.Decimal
	AbsoluteLockedAmount uint128.Uint128
	ShardId              uint64
	IndexInChunk         int32
}

type IndexedBlock struct {
	Height    int64
	Hash      types.CryptoHash
	PrevHash  types.CryptoHash
	Timestamp time.Time
}

type IndexerState struct {
	DBVersion     int32
	Network       common.Network
	ClientVersion string
	CreatedAt     time.Time
}
