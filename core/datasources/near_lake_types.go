package datasources

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/uint128"
)

type (
	lakeBlock struct {
		Header struct {
			Height    int64            `json:"height"`
			Hash      types.CryptoHash `json:"hash"`
			PrevHash  types.CryptoHash `json:"prev_hash"`
			Timestamp uint64           `json:"timestamp"` // unix nanoseconds
		} `json:"header"`
		Chunks []struct {
			ShardId uint64 `json:"shard_id"`
		} `json:"chunks"`
	}

	lakeShard struct {
		ShardId      uint64             `json:"shard_id"`
		Chunk        *lakeChunk         `json:"chunk"`
		StateChanges []lakeStateChanges `json:"state_changes"`
	}

	lakeChunk struct {
		Transactions []struct {
			Transaction struct {
				Hash     types.CryptoHash `json:"hash"`
				SignerId string           `json:"signer_id"`
			} `json:"transaction"`
			Outcome struct {
				ExecutionOutcome struct {
					Outcome struct {
						ExecutorId  string `json:"executor_id"`
						GasBurnt    uint64 `json:"gas_burnt"`
						TokensBurnt string `json:"tokens_burnt"`
					} `json:"outcome"`
				} `json:"execution_outcome"`
			} `json:"outcome"`
		} `json:"transactions"`
	}

	lakeStateChanges struct {
		Cause struct {
			Type        string            `json:"type"`
			TxHash      *types.CryptoHash `json:"tx_hash"`
			ReceiptHash *types.CryptoHash `json:"receipt_hash"`
		} `json:"cause"`
		Type   string `json:"type"`
		Change struct {
			AccountId string  `json:"account_id"`
			Amount    *string `json:"amount"`
			Locked    *string `json:"locked"`
		} `json:"change"`
	}
)

func (b lakeBlock) ToBlockHeader() types.BlockHeader {
	return types.BlockHeader{
		Height:    b.Header.Height,
		Hash:      b.Header.Hash,
		PrevHash:  b.Header.PrevHash,
		Timestamp: time.Unix(0, int64(b.Header.Timestamp)).UTC(),
	}
}

func (s lakeShard) ToShard() (*types.Shard, error) {
	shard := &types.Shard{
		ShardId:      s.ShardId,
		StateChanges: make([]*types.StateChangeWithCause, 0, len(s.StateChanges)),
	}

	for i, sc := range s.StateChanges {
		change := &types.StateChangeWithCause{
			Cause: types.StateChangeCause{
				Type:        types.StateChangeCauseType(sc.Cause.Type),
				TxHash:      sc.Cause.TxHash,
				ReceiptHash: sc.Cause.ReceiptHash,
			},
			Value: types.StateChangeValue{
				Type:      types.StateChangeValueType(sc.Type),
				AccountId: sc.Change.AccountId,
			},
		}
		if change.Value.Type == types.ValueAccountUpdate {
			if sc.Change.Amount == nil || sc.Change.Locked == nil {
				return nil, errors.Errorf("state change %d: account update of %q has no balances", i, sc.Change.AccountId)
			}
			amount, err := uint128.FromString(*sc.Change.Amount)
			if err != nil {
				return nil, errors.Wrapf(err, "state change %d: invalid amount", i)
			}
			locked, err := uint128.FromString(*sc.Change.Locked)
			if err != nil {
				return nil, errors.Wrapf(err, "state change %d: invalid locked amount", i)
			}
			change.Value.Account = &types.AccountView{
				Amount: amount,
				Locked: locked,
			}
		}
		shard.StateChanges = append(shard.StateChanges, change)
	}

	if s.Chunk != nil {
		shard.Chunk = &types.Chunk{
			Transactions: make([]*types.TransactionWithOutcome, 0, len(s.Chunk.Transactions)),
		}
		for i, tx := range s.Chunk.Transactions {
			outcome := tx.Outcome.ExecutionOutcome.Outcome
			tokensBurnt, err := uint128.FromString(outcome.TokensBurnt)
			if err != nil {
				return nil, errors.Wrapf(err, "transaction %d: invalid tokens burnt", i)
			}
			shard.Chunk.Transactions = append(shard.Chunk.Transactions, &types.TransactionWithOutcome{
				Hash:     tx.Transaction.Hash,
				SignerId: tx.Transaction.SignerId,
				Outcome: types.ExecutionOutcome{
					ExecutorId:  outcome.ExecutorId,
					GasBurnt:    outcome.GasBurnt,
					TokensBurnt: tokensBurnt,
				},
			})
		}
	}

	return shard, nil
}
