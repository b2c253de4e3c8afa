package types

import (
	"strings"

	"github.com/gaze-network/uint128"
)

// Amount is a yoctoNEAR amount.
type Amount = uint128.Uint128

// StateChangeCauseType is the protocol-level reason of a state change.
type StateChangeCauseType string

const (
	CauseNotWritableToDisk              StateChangeCauseType = "not_writable_to_disk"
	CauseInitialState                   StateChangeCauseType = "initial_state"
	CauseTransactionProcessing          StateChangeCauseType = "transaction_processing"
	CauseActionReceiptProcessingStarted StateChangeCauseType = "action_receipt_processing_started"
	CauseActionReceiptGasReward         StateChangeCauseType = "action_receipt_gas_reward"
	CauseReceiptProcessing              StateChangeCauseType = "receipt_processing"
	CausePostponedReceipt               StateChangeCauseType = "postponed_receipt"
	CauseUpdatedDelayedReceipts         StateChangeCauseType = "updated_delayed_receipts"
	CauseValidatorAccountsUpdate        StateChangeCauseType = "validator_accounts_update"
	CauseMigration                      StateChangeCauseType = "migration"
	CauseResharding                     StateChangeCauseType = "resharding"
)

// Print returns the SCREAMING_SNAKE_CASE form stored in the database, e.g. `VALIDATOR_ACCOUNTS_UPDATE`.
func (c StateChangeCauseType) Print() string {
	return strings.ToUpper(string(c))
}

type StateChangeCause struct {
	Type StateChangeCauseType

	// set for transaction_processing
	TxHash *CryptoHash
	// set for receipt related causes
	ReceiptHash *CryptoHash
}

type StateChangeValueType string

const (
	ValueAccountUpdate        StateChangeValueType = "account_update"
	ValueAccountDeletion      StateChangeValueType = "account_deletion"
	ValueAccessKeyUpdate      StateChangeValueType = "access_key_update"
	ValueAccessKeyDeletion    StateChangeValueType = "access_key_deletion"
	ValueDataUpdate           StateChangeValueType = "data_update"
	ValueDataDeletion         StateChangeValueType = "data_deletion"
	ValueContractCodeUpdate   StateChangeValueType = "contract_code_update"
	ValueContractCodeDeletion StateChangeValueType = "contract_code_deletion"
)

type StateChangeValue struct {
	Type      StateChangeValueType
	AccountId string

	// Account is set only for account_update values.
	Account *AccountView
}

type StateChangeWithCause struct {
	Cause StateChangeCause
	Value StateChangeValue
}

// AccountView is the balance part of an account state.
type AccountView struct {
	Amount Amount
	Locked Amount
}
