package balancechanges

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/pkg/nearrpc"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/require"
)

type accountQuery struct {
	AccountId string
	BlockHash string
}

type fakeQuerier struct {
	mu       sync.Mutex
	accounts map[string]nearrpc.AccountView
	err      error
	queries  []accountQuery
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		accounts: make(map[string]nearrpc.AccountView),
	}
}

func (f *fakeQuerier) setAccount(accountId string, amount, locked uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[accountId] = nearrpc.AccountView{
		Amount: uint128.From64(amount),
		Locked: uint128.From64(locked),
	}
}

func (f *fakeQuerier) ViewAccount(_ context.Context, accountId string, blockHash string) (nearrpc.AccountView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, accountQuery{AccountId: accountId, BlockHash: blockHash})
	if f.err != nil {
		return nearrpc.AccountView{}, f.err
	}
	account, ok := f.accounts[accountId]
	if !ok {
		return nearrpc.AccountView{}, errors.Wrapf(errs.NotFound, "account %s", accountId)
	}
	return account, nil
}

func (f *fakeQuerier) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newTestResolver(t *testing.T, querier nearrpc.AccountQuerier) (*AccountBalanceResolver, *PreviousBalanceCache) {
	t.Helper()
	cache, err := NewPreviousBalanceCache(100)
	require.NoError(t, err)
	return NewAccountBalanceResolver(cache, querier), cache
}

func testHeader(height int64) types.BlockHeader {
	return types.BlockHeader{
		Height:    height,
		Hash:      types.CryptoHash{byte(height), 1},
		PrevHash:  types.CryptoHash{byte(height - 1), 1},
		Timestamp: time.Unix(0, 1_700_000_000_000_000_000+height),
	}
}

func validatorUpdate(accountId string, amount, locked uint64) *types.StateChangeWithCause {
	return accountUpdate(types.CauseValidatorAccountsUpdate, accountId, amount, locked)
}

func accountUpdate(cause types.StateChangeCauseType, accountId string, amount, locked uint64) *types.StateChangeWithCause {
	return &types.StateChangeWithCause{
		Cause: types.StateChangeCause{Type: cause},
		Value: types.StateChangeValue{
			Type:      types.ValueAccountUpdate,
			AccountId: accountId,
			Account: &types.AccountView{
				Amount: uint128.From64(amount),
				Locked: uint128.From64(locked),
			},
		},
	}
}

func feeBurn(hash byte, executorId string, tokensBurnt uint64) *types.TransactionWithOutcome {
	return &types.TransactionWithOutcome{
		Hash:     types.CryptoHash{hash},
		SignerId: executorId,
		Outcome: types.ExecutionOutcome{
			ExecutorId:  executorId,
			GasBurnt:    tokensBurnt / 100_000_000,
			TokensBurnt: uint128.From64(tokensBurnt),
		},
	}
}
