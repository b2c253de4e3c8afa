package types

import "time"

type BlockHeader struct {
	Height    int64
	Hash      CryptoHash
	PrevHash  CryptoHash
	Timestamp time.Time // nanosecond precision
}

// Block is a final block with the data of every shard.
type Block struct {
	Header BlockHeader
	Shards []*Shard
}

func (b *Block) BlockHeader() BlockHeader {
	return b.Header
}

type Shard struct {
	ShardId      uint64
	StateChanges []*StateChangeWithCause

	// Chunk is nil when the shard did not produce a chunk in this block.
	Chunk *Chunk
}

type Chunk struct {
	Transactions []*TransactionWithOutcome
}

type TransactionWithOutcome struct {
	Hash     CryptoHash
	SignerId string
	Outcome  ExecutionOutcome
}

type ExecutionOutcome struct {
	// ExecutorId is the account paying for the transaction conversion to a receipt.
	ExecutorId  string
	GasBurnt    uint64
	TokensBurnt Amount
}
