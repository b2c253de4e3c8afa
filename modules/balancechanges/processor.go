package balancechanges

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/core/indexer"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/datagateway"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

// DBVersion is the schema version the processor writes.
const DBVersion = 1

var _ indexer.Processor[*types.Block] = (*Processor)(nil)

type Processor struct {
	balanceChangesDg datagateway.BalanceChangesDataGateway
	indexerInfoDg    datagateway.IndexerInfoDataGateway
	cache            *PreviousBalanceCache

	validatorExtractor   *ValidatorUpdateExtractor
	transactionExtractor *TransactionOutcomeExtractor

	network          common.Network
	startBlockHeight int64
	cleanupFuncs     []func(context.Context) error
}

func NewProcessor(balanceChangesDg datagateway.BalanceChangesDataGateway, indexerInfoDg datagateway.IndexerInfoDataGateway, cache *PreviousBalanceCache, resolver *AccountBalanceResolver, network common.Network, startBlockHeight int64, cleanupFuncs []func(context.Context) error) *Processor {
	return &Processor{
		balanceChangesDg:     balanceChangesDg,
		indexerInfoDg:        indexerInfoDg,
		cache:                cache,
		validatorExtractor:   NewValidatorUpdateExtractor(resolver),
		transactionExtractor: NewTransactionOutcomeExtractor(resolver),
		network:              network,
		startBlockHeight:     startBlockHeight,
		cleanupFuncs:         cleanupFuncs,
	}
}

// VerifyStates ensures the database was written by this schema version on the same network.
func (p *Processor) VerifyStates(ctx context.Context) error {
	indexerState, err := p.indexerInfoDg.GetLatestIndexerState(ctx)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get latest indexer state")
	}
	if err == nil {
		if indexerState.DBVersion != DBVersion {
			return errors.Wrapf(errs.ConflictSetting, "db version mismatch: current version is %d. Please upgrade to version %d", indexerState.DBVersion, DBVersion)
		}
		if indexerState.Network != p.network {
			return errors.Wrapf(errs.ConflictSetting, "network mismatch: latest indexed network is %q, configured network is %q. If you want to change the network, please reset the database", indexerState.Network, p.network)
		}
		if indexerState.ClientVersion == Version {
			return nil
		}
	}
	if err := p.indexerInfoDg.SetIndexerState(ctx, entity.IndexerState{
		DBVersion:     DBVersion,
		Network:       p.network,
		ClientVersion: Version,
	}); err != nil {
		return errors.Wrap(err, "failed to set indexer state")
	}
	return nil
}

func (p *Processor) Name() string {
	return "BalanceChanges"
}

func (p *Processor) CurrentBlock(ctx context.Context) (types.BlockHeader, error) {
	blockHeader, err := p.balanceChangesDg.GetLatestBlock(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) && p.startBlockHeight > 0 {
			return types.BlockHeader{
				Height: p.startBlockHeight - 1,
			}, nil
		}
		return types.BlockHeader{}, errors.Wrap(err, "failed to get latest block")
	}
	return blockHeader, nil
}

// Process indexes the blocks one by one. A block is either fully stored or not at all.
func (p *Processor) Process(ctx context.Context, blocks []*types.Block) error {
	for _, block := range blocks {
		if err := p.processBlock(ctx, block); err != nil {
			// the cache may hold balances of the failed block
			p.cache.Purge()
			return errors.Wrapf(err, "failed to process block %d", block.Header.Height)
		}
	}
	return nil
}

func (p *Processor) processBlock(ctx context.Context, block *types.Block) (err error) {
	startAt := time.Now()
	ctx = logger.WithContext(ctx,
		slogx.Int64("height", block.Header.Height),
		slogx.Stringer("hash", block.Header.Hash),
	)

	balanceChangesDgTx, err := p.balanceChangesDg.BeginBalanceChangesTx(ctx)
	if err != nil {
		return errors.Wrap(errors.Join(ErrStorage, err), "failed to begin transaction")
	}
	defer func() {
		if err := balanceChangesDgTx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	counts := make([]int, len(block.Shards))
	eg, ectx := errgroup.WithContext(ctx)
	for i, shard := range block.Shards {
		eg.Go(func() error {
			changes, err := p.processShard(ectx, block.Header, shard)
			if err != nil {
				return errors.Wrapf(err, "failed to process shard %d", shard.ShardId)
			}
			if err := balanceChangesDgTx.CreateBalanceChanges(ectx, changes); err != nil {
				return errors.Wrapf(errors.Join(ErrStorage, err), "failed to store balance changes of shard %d", shard.ShardId)
			}
			counts[i] = len(changes)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return errors.WithStack(err)
	}

	if err := balanceChangesDgTx.CreateIndexedBlock(ctx, &entity.IndexedBlock{
		Height:    block.Header.Height,
		Hash:      block.Header.Hash,
		PrevHash:  block.Header.PrevHash,
		Timestamp: block.Header.Timestamp,
	}); err != nil {
		return errors.Wrap(errors.Join(ErrStorage, err), "failed to create indexed block")
	}
	if err := balanceChangesDgTx.Commit(ctx); err != nil {
		return errors.Wrap(errors.Join(ErrStorage, err), "failed to commit transaction")
	}

	total := 0
	for _, count := range counts {
		total += count
	}
	logger.DebugContext(ctx, "Indexed block",
		slog.Int("shards", len(block.Shards)),
		slog.Int("balance_changes", total),
		slogx.Duration("duration", time.Since(startAt)),
	)
	return nil
}

// processShard derives the balance changes of a shard, validator updates first.
func (p *Processor) processShard(ctx context.Context, header types.BlockHeader, shard *types.Shard) ([]*entity.BalanceChange, error) {
	ctx = logger.WithContext(ctx, slogx.Uint64("shard_id", shard.ShardId))

	validatorChanges, err := p.validatorExtractor.Extract(ctx, shard.StateChanges, header, shard.ShardId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract validator updates")
	}

	var transactionChanges []*entity.BalanceChange
	if shard.Chunk != nil {
		transactionChanges, err = p.transactionExtractor.Extract(ctx, shard.Chunk.Transactions, header, shard.ShardId)
		if err != nil {
			return nil, errors.Wrap(err, "failed to extract transaction outcomes")
		}
	}

	return AssembleChunk(validatorChanges, transactionChanges), nil
}

func (p *Processor) Shutdown(ctx context.Context) error {
	var cleanupErrs []error
	for _, cleanup := range p.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			cleanupErrs = append(cleanupErrs, err)
		}
	}
	return errors.WithStack(errors.Join(cleanupErrs...))
}
