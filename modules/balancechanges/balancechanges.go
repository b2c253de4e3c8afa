package balancechanges

import (
	"context"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/core/datasources"
	"github.com/gaze-network/near-balance-indexer/core/indexer"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/internal/config"
	"github.com/gaze-network/near-balance-indexer/internal/postgres"
	balancechangesapi "github.com/gaze-network/near-balance-indexer/modules/balancechanges/api"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/datagateway"
	balancechangespostgres "github.com/gaze-network/near-balance-indexer/modules/balancechanges/repository/postgres"
	balancechangesusecase "github.com/gaze-network/near-balance-indexer/modules/balancechanges/usecase"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/logger/slogx"
	"github.com/gaze-network/near-balance-indexer/pkg/nearrpc"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

func New(injector do.Injector) (indexer.IndexerWorker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	moduleConf := conf.Modules.BalanceChanges

	var (
		balanceChangesDg datagateway.BalanceChangesDataGateway
		indexerInfoDg    datagateway.IndexerInfoDataGateway
	)
	var cleanupFuncs []func(context.Context) error
	switch strings.ToLower(moduleConf.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, moduleConf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for indexer")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		repo := balancechangespostgres.NewRepository(pg)
		balanceChangesDg = repo
		indexerInfoDg = repo
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for indexer is not supported", moduleConf.Database)
	}

	var nearDatasource datasources.Datasource[*types.Block]
	switch strings.ToLower(moduleConf.Datasource) {
	case "near-lake", "":
		lakeConf := moduleConf.NearLake
		defaultBucket, defaultRegion := conf.Network.LakeBucket()
		lakeConf.Bucket = utils.Default(lakeConf.Bucket, defaultBucket)
		lakeConf.Region = utils.Default(lakeConf.Region, defaultRegion)
		nearLake, err := datasources.NewNearLake(ctx, lakeConf)
		if err != nil {
			return nil, errors.Wrap(err, "can't create NEAR Lake datasource")
		}
		nearDatasource = nearLake
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q datasource is not supported", moduleConf.Datasource)
	}

	rpcConf := moduleConf.NearRPC
	rpcConf.URL = utils.Default(rpcConf.URL, conf.Network.ArchivalRPC())
	rpcClient, err := nearrpc.New(rpcConf)
	if err != nil {
		return nil, errors.Wrap(err, "invalid NEAR RPC configuration")
	}
	querier, err := nearrpc.NewRetryClient(rpcClient, rpcConf.Retry)
	if err != nil {
		return nil, errors.Wrap(err, "invalid NEAR RPC retry configuration")
	}
	logger.InfoContext(ctx, "Using NEAR archival RPC", slogx.String("url", rpcConf.URL))

	cache, err := NewPreviousBalanceCache(utils.Default(moduleConf.CacheCapacity, DefaultCacheCapacity))
	if err != nil {
		return nil, errors.Wrap(err, "can't create previous balance cache")
	}
	resolver := NewAccountBalanceResolver(cache, querier)

	processor := NewProcessor(balanceChangesDg, indexerInfoDg, cache, resolver, conf.Network, moduleConf.NearLake.StartBlockHeight, cleanupFuncs)
	if err := processor.VerifyStates(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	// Mount API
	apiHandlers := lo.Uniq(moduleConf.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			usecase := balancechangesusecase.New(balanceChangesDg)
			httpHandler := balancechangesapi.NewHTTPHandler(usecase)
			if err := httpHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount balance changes API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	indexer := indexer.New(processor, nearDatasource)
	return indexer, nil
}
