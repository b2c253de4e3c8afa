package balancechanges

import (
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
)

// AssembleChunk concatenates the balance changes of a shard, validator updates first,
// and numbers them with their position in the chunk.
func AssembleChunk(validatorChanges, transactionChanges []*entity.BalanceChange) []*entity.BalanceChange {
	changes := make([]*entity.BalanceChange, 0, len(validatorChanges)+len(transactionChanges))
	changes = append(changes, validatorChanges...)
	changes = append(changes, transactionChanges...)
	for i, change := range changes {
		change.IndexInChunk = int32(i)
	}
	return changes
}
