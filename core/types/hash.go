package types

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
)

// HashSize is the size of a CryptoHash in bytes.
const HashSize = 32

// CryptoHash is a sha256 digest identifying blocks, chunks, transactions and receipts.
// Its text form is base58.
type CryptoHash [HashSize]byte

// ZeroHash is the hash of the genesis block's parent.
var ZeroHash CryptoHash

// NewCryptoHashFromString parses a base58 encoded hash.
func NewCryptoHashFromString(s string) (CryptoHash, error) {
	var h CryptoHash
	b := base58.Decode(s)
	if len(b) != HashSize {
		return h, errors.Wrapf(errs.InvalidArgument, "invalid hash %q: decoded length %d, expected %d", s, len(b), HashSize)
	}
	copy(h[:], b)
	return h, nil
}

func (h CryptoHash) String() string {
	return base58.Encode(h[:])
}

func (h CryptoHash) IsZero() bool {
	return h == ZeroHash
}

func (h CryptoHash) IsEqual(target *CryptoHash) bool {
	if target == nil {
		return false
	}
	return h == *target
}

func (h CryptoHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *CryptoHash) UnmarshalText(text []byte) error {
	parsed, err := NewCryptoHashFromString(string(text))
	if err != nil {
		return errors.WithStack(err)
	}
	*h = parsed
	return nil
}
