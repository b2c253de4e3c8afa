package indexer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/core/datasources"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/logger/slogx"
)

const (
	// pollingInterval is the default polling interval for the indexer polling worker
	pollingInterval = 5 * time.Second

	shutdownTimeout = 180 * time.Second
)

// Indexer generic indexer for fetching and processing data
type Indexer[T Input] struct {
	Processor    Processor[T]
	Datasource   datasources.Datasource[T]
	currentBlock types.BlockHeader

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// New create new generic indexer
func New[T Input](processor Processor[T], datasource datasources.Datasource[T]) *Indexer[T] {
	return &Indexer[T]{
		Processor:  processor,
		Datasource: datasource,

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (i *Indexer[T]) Shutdown() error {
	return i.ShutdownWithContext(context.Background())
}

func (i *Indexer[T]) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return i.ShutdownWithContext(ctx)
}

func (i *Indexer[T]) ShutdownWithContext(ctx context.Context) (err error) {
	i.quitOnce.Do(func() {
		close(i.quit)
		select {
		case <-i.done:
		case <-time.After(shutdownTimeout):
			err = errors.Wrap(errs.Timeout, "indexer shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "indexer shutdown context canceled")
		}
	})
	return
}

func (i *Indexer[T]) Run(ctx context.Context) (err error) {
	defer close(i.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "indexer"),
		slog.String("processor", i.Processor.Name()),
		slog.String("datasource", i.Datasource.Name()),
	)

	// height -1 means start from the datasource's first available block
	i.currentBlock, err = i.Processor.CurrentBlock(ctx)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "can't init state, failed to get indexer current block")
		}
		i.currentBlock.Height = -1
	}

	ticker := time.NewTicker(pollingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-i.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping indexer")
			if err := i.Processor.Shutdown(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown processor", err)
				return errors.Wrap(err, "processor shutdown failed")
			}
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := i.process(ctx); err != nil {
				logger.ErrorContext(ctx, "Indexer failed while processing", err)
				return errors.Wrap(err, "process failed")
			}
			logger.DebugContext(ctx, "Waiting for next polling interval")
		}
	}
}

func (i *Indexer[T]) process(ctx context.Context) (err error) {
	// NEAR heights may skip, the datasource resolves the next existing block.
	from, to := i.currentBlock.Height+1, int64(-1)

	logger.InfoContext(ctx, "Start fetching input data", slog.Int64("from", from))
	ch := make(chan []T)
	subscription, err := i.Datasource.FetchAsync(ctx, from, to, ch)
	if err != nil {
		return errors.Wrap(err, "failed to fetch input data")
	}
	defer subscription.Unsubscribe()

	for {
		select {
		case <-i.quit:
			return nil
		case inputs := <-ch:
			// empty inputs
			if len(inputs) == 0 {
				continue
			}

			startAt := time.Now()
			ctx := logger.WithContext(ctx,
				slogx.Int64("from", inputs[0].BlockHeader().Height),
				slogx.Int64("to", inputs[len(inputs)-1].BlockHeader().Height),
			)

			if err := i.validateInputs(inputs); err != nil {
				return errors.WithStack(err)
			}

			ctx = logger.WithContext(ctx, slog.Int("total_inputs", len(inputs)))

			// Start processing input
			logger.InfoContext(ctx, "Processing inputs")
			if err := i.Processor.Process(ctx, inputs); err != nil {
				return errors.WithStack(err)
			}

			// Update current state
			i.currentBlock = inputs[len(inputs)-1].BlockHeader()

			logger.InfoContext(ctx, "Processed inputs successfully",
				slogx.String("event", "processed_inputs"),
				slogx.Int64("current_block", i.currentBlock.Height),
				slogx.Duration("duration", time.Since(startAt)),
			)
		case <-subscription.Done():
			// end current round
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "context done")
			}
			return nil
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case err := <-subscription.Err():
			if err != nil {
				return errors.Wrap(err, "got error while fetch async")
			}
		}
	}
}

// validateInputs ensures the inputs extend the current block as a hash-linked chain.
// Only final blocks are indexed, so a broken link can't be a reorg.
func (i *Indexer[T]) validateInputs(inputs []T) error {
	first := inputs[0].BlockHeader()
	if i.currentBlock.Height >= 0 && !i.currentBlock.Hash.IsZero() {
		if !first.PrevHash.IsEqual(&i.currentBlock.Hash) {
			return errors.Wrapf(errs.InternalError, "input is not linked to current block, current hash: %s, input[0] prev hash: %s", i.currentBlock.Hash, first.PrevHash)
		}
	}
	for n := 1; n < len(inputs); n++ {
		header := inputs[n].BlockHeader()
		prevHeader := inputs[n-1].BlockHeader()
		if header.Height <= prevHeader.Height {
			return errors.Wrapf(errs.InternalError, "input is not ordered, input[%d] height: %d, input[%d] height: %d", n-1, prevHeader.Height, n, header.Height)
		}
		if !header.PrevHash.IsEqual(&prevHeader.Hash) {
			return errors.Wrapf(errs.InternalError, "input is not linked, input[%d] hash: %s, input[%d] prev hash: %s", n-1, prevHeader.Hash, n, header.PrevHash)
		}
	}
	return nil
}
