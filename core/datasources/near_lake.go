// NEAR Lake Datasource
// - https://github.com/near/near-lake-framework-rs
//
// Final blocks are stored as `<height:012>/block.json` and `<height:012>/shard_<id>.json`.
// Buckets are requester-pays, AWS credentials are loaded from the default chain.
package datasources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/core/types"
	"github.com/gaze-network/near-balance-indexer/internal/subscription"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/logger/slogx"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLakeBatchSize = 20

	// lakeDownloadConcurrency limits concurrent object downloads per batch
	lakeDownloadConcurrency = 16
)

type NearLakeConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	BatchSize int    `mapstructure:"fetch_batch_size"` // Default is 20

	// StartBlockHeight is the first block to index when nothing has been indexed yet.
	StartBlockHeight int64 `mapstructure:"start_block_height"`
}

// lakeS3API is the subset of the S3 client used by the datasource.
type lakeS3API interface {
	manager.DownloadAPIClient
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Make sure to implement the Datasource interface
var _ Datasource[*types.Block] = (*NearLakeDatasource)(nil)

type NearLakeDatasource struct {
	s3Client  lakeS3API
	s3Bucket  string
	batchSize int
}

func NewNearLake(ctx context.Context, conf NearLakeConfig) (*NearLakeDatasource, error) {
	if conf.Bucket == "" || conf.Region == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "near lake bucket and region are required")
	}

	sdkConfig, err := config.LoadDefaultConfig(ctx, config.WithRegion(conf.Region))
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}

	return newNearLake(s3.NewFromConfig(sdkConfig), conf), nil
}

func newNearLake(client lakeS3API, conf NearLakeConfig) *NearLakeDatasource {
	return &NearLakeDatasource{
		s3Client:  client,
		s3Bucket:  conf.Bucket,
		batchSize: utils.Default(conf.BatchSize, DefaultLakeBatchSize),
	}
}

func (NearLakeDatasource) Name() string {
	return "near_lake"
}

// Fetch blocks from NEAR Lake
//
//   - from: block height to start fetching, if -1, it will start from the first block in the bucket
//   - to: block height to stop fetching, if -1, it will fetch until the latest block
func (d *NearLakeDatasource) Fetch(ctx context.Context, from, to int64) ([]*types.Block, error) {
	ch := make(chan []*types.Block)
	subscription, err := d.FetchAsync(ctx, from, to, ch)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer subscription.Unsubscribe()

	blocks := make([]*types.Block, 0)
	for {
		select {
		case b, ok := <-ch:
			if !ok {
				return blocks, nil
			}
			blocks = append(blocks, b...)
		case <-subscription.Done():
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "context done")
			}
			return blocks, nil
		case err := <-subscription.Err():
			if err != nil {
				return nil, errors.Wrap(err, "got error while fetch async")
			}
			return blocks, nil
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "context done")
		}
	}
}

// FetchAsync streams batches of blocks from NEAR Lake asynchronously (non-blocking).
// The subscription is closed when the latest block in the bucket (or `to`) is reached.
func (d *NearLakeDatasource) FetchAsync(ctx context.Context, from, to int64, ch chan<- []*types.Block) (*subscription.ClientSubscription[[]*types.Block], error) {
	ctx = logger.WithContext(ctx,
		slogx.String("package", "datasources"),
		slogx.String("datasource", d.Name()),
	)

	subscription := subscription.NewSubscription(ch)
	go func() {
		defer subscription.Complete()

		next := max(from, 0)
		for {
			if to >= 0 && next > to {
				return
			}

			heights, err := d.listBlockHeights(ctx, next, d.batchSize)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to list block heights from near lake", err)
				if err := subscription.SendError(ctx, errors.WithStack(err)); err != nil {
					logger.WarnContext(ctx, "Failed to send datasource error to subscription client", slogx.Error(err))
				}
				return
			}
			if to >= 0 {
				heights = lo.Filter(heights, func(h int64, _ int) bool { return h <= to })
			}

			// reach the end of available data
			if len(heights) == 0 {
				return
			}

			blocks, err := d.fetchBlocks(ctx, heights)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to fetch blocks from near lake", err, slogx.Int64("start", heights[0]))
				if err := subscription.SendError(ctx, errors.WithStack(err)); err != nil {
					logger.WarnContext(ctx, "Failed to send datasource error to subscription client", slogx.Error(err))
				}
				return
			}

			if err := subscription.Send(ctx, blocks); err != nil {
				if errors.Is(err, errs.Closed) {
					return
				}
				logger.WarnContext(ctx, "Failed to send blocks to subscription client",
					slogx.Int64("start", heights[0]),
					slogx.Int64("end", heights[len(heights)-1]),
					slogx.Error(err),
				)
				return
			}

			next = heights[len(heights)-1] + 1
		}
	}()

	return subscription.Client(), nil
}

func (d *NearLakeDatasource) GetBlockHeader(ctx context.Context, height int64) (types.BlockHeader, error) {
	raw, err := d.downloadFile(ctx, blockKey(height))
	if err != nil {
		return types.BlockHeader{}, errors.Wrapf(err, "failed to download block %d", height)
	}
	var block lakeBlock
	if err := json.Unmarshal(raw, &block); err != nil {
		return types.BlockHeader{}, errors.Wrapf(err, "can't unmarshal block %d", height)
	}
	return block.ToBlockHeader(), nil
}

// fetchBlocks downloads the given heights concurrently, the result keeps the input order.
func (d *NearLakeDatasource) fetchBlocks(ctx context.Context, heights []int64) ([]*types.Block, error) {
	blocks := make([]*types.Block, len(heights))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(lakeDownloadConcurrency)
	for i, height := range heights {
		eg.Go(func() error {
			block, err := d.fetchBlock(ectx, height)
			if err != nil {
				return errors.Wrapf(err, "failed to fetch block %d", height)
			}
			blocks[i] = block
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	return blocks, nil
}

func (d *NearLakeDatasource) fetchBlock(ctx context.Context, height int64) (*types.Block, error) {
	raw, err := d.downloadFile(ctx, blockKey(height))
	if err != nil {
		return nil, errors.Wrap(err, "can't download block file")
	}
	var block lakeBlock
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, errors.Wrap(err, "can't unmarshal block file")
	}

	shards := make([]*types.Shard, 0, len(block.Chunks))
	for _, chunk := range block.Chunks {
		raw, err := d.downloadFile(ctx, shardKey(height, chunk.ShardId))
		if err != nil {
			return nil, errors.Wrapf(err, "can't download shard %d file", chunk.ShardId)
		}
		var shard lakeShard
		if err := json.Unmarshal(raw, &shard); err != nil {
			return nil, errors.Wrapf(err, "can't unmarshal shard %d file", chunk.ShardId)
		}
		s, err := shard.ToShard()
		if err != nil {
			return nil, errors.Wrapf(err, "can't convert shard %d", chunk.ShardId)
		}
		shards = append(shards, s)
	}

	return &types.Block{
		Header: block.ToBlockHeader(),
		Shards: shards,
	}, nil
}

// listBlockHeights returns up to limit existing block heights, starting from `from` (inclusive).
func (d *NearLakeDatasource) listBlockHeights(ctx context.Context, from int64, limit int) ([]int64, error) {
	result, err := d.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:       aws.String(d.s3Bucket),
		Delimiter:    aws.String("/"),
		StartAfter:   aws.String(fmt.Sprintf("%012d", from)),
		MaxKeys:      aws.Int32(int32(limit)),
		RequestPayer: s3types.RequestPayerRequester,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "can't list s3 bucket objects for bucket %q after %d", d.s3Bucket, from)
	}

	heights := make([]int64, 0, len(result.CommonPrefixes))
	for _, prefix := range result.CommonPrefixes {
		if prefix.Prefix == nil {
			continue
		}
		height, err := strconv.ParseInt(strings.TrimSuffix(*prefix.Prefix, "/"), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid block prefix %q", *prefix.Prefix)
		}
		heights = append(heights, height)
	}
	return heights, nil
}

func (d *NearLakeDatasource) downloadFile(ctx context.Context, key string) ([]byte, error) {
	downloader := manager.NewDownloader(d.s3Client, func(d *manager.Downloader) {
		d.Concurrency = 1
	})

	buffer := manager.NewWriteAtBuffer([]byte{})
	numBytes, err := downloader.Download(ctx, buffer, &s3.GetObjectInput{
		Bucket:       aws.String(d.s3Bucket),
		Key:          aws.String(key),
		RequestPayer: s3types.RequestPayerRequester,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download file for bucket %q and key %q", d.s3Bucket, key)
	}

	if numBytes < 1 {
		return nil, errors.Wrap(errs.NotFound, "got empty file")
	}

	return buffer.Bytes(), nil
}

func blockKey(height int64) string {
	return fmt.Sprintf("%012d/block.json", height)
}

func shardKey(height int64, shardId uint64) string {
	return fmt.Sprintf("%012d/shard_%d.json", height, shardId)
}
