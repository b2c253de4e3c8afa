package indexer

import (
	"context"

	"github.com/gaze-network/near-balance-indexer/core/types"
)

type IndexerWorker interface {
	Run(ctx context.Context) error
	Shutdown() error
}

// Input is a unit of data handed from a datasource to a processor.
type Input interface {
	BlockHeader() types.BlockHeader
}

type Processor[T Input] interface {
	Name() string

	// Process processes the input data and indexes it.
	// Inputs are ordered and linked by their parent hash.
	Process(ctx context.Context, inputs []T) error

	// CurrentBlock returns the latest indexed block header.
	// errs.NotFound means nothing has been indexed yet.
	CurrentBlock(ctx context.Context) (types.BlockHeader, error)

	// Shutdown gracefully stops the processor and releases its resources.
	Shutdown(ctx context.Context) error
}
