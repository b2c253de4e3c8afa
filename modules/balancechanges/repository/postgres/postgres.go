package postgres

import (
	"sync"

	"github.com/gaze-network/near-balance-indexer/internal/postgres"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
)

// insertBatchSize is the max number of rows per insert statement.
const insertBatchSize = 10

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
	tx      pgx.Tx

	// mu serializes statements on tx, a pgx.Tx can't be used concurrently.
	mu sync.Mutex
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}
