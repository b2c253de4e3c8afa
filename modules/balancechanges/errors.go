package balancechanges

import "github.com/cockroachdb/errors"

var (
	// ErrResolution is returned when the previous balance of an account can't be resolved from the account query service.
	ErrResolution = errors.New("can't resolve previous balance")

	// ErrUnrecognizedCause is returned when an account update carries a cause that is not modeled.
	ErrUnrecognizedCause = errors.New("unrecognized state change cause")

	// ErrStorage is returned when balance changes can't be persisted.
	ErrStorage = errors.New("can't store balance changes")

	// ErrBalanceUnderflow is returned when tokens burnt exceed the previous liquid balance.
	ErrBalanceUnderflow = errors.New("balance underflow")
)
