package types

import (
	"encoding/json"
	"testing"

	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoHash(t *testing.T) {
	const encoded = "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo"

	hash, err := NewCryptoHashFromString(encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, hash.String())
	assert.False(t, hash.IsZero())
	assert.True(t, hash.IsEqual(&hash))
	assert.False(t, hash.IsEqual(nil))
	assert.False(t, hash.IsEqual(&ZeroHash))
	assert.True(t, ZeroHash.IsZero())

	_, err = NewCryptoHashFromString("abc")
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = NewCryptoHashFromString("0OIl")
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestCryptoHashJSON(t *testing.T) {
	var header struct {
		Hash     CryptoHash  `json:"hash"`
		PrevHash *CryptoHash `json:"prev_hash"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"hash":"81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo","prev_hash":null}`), &header))
	assert.Equal(t, "81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo", header.Hash.String())
	assert.Nil(t, header.PrevHash)

	raw, err := json.Marshal(header.Hash)
	require.NoError(t, err)
	assert.Equal(t, `"81k9ked5s34zh13EjJt26mxw5npa485SY4UNoPi6yYLo"`, string(raw))

	assert.Error(t, json.Unmarshal([]byte(`{"hash":"short"}`), &header))
}

func TestStateChangeCausePrint(t *testing.T) {
	assert.Equal(t, "VALIDATOR_ACCOUNTS_UPDATE", CauseValidatorAccountsUpdate.Print())
	assert.Equal(t, "TRANSACTION_PROCESSING", CauseTransactionProcessing.Print())
}
