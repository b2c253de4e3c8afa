package nearrpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/logger/slogx"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultMaxRetries    = 5
	DefaultBaseDelay     = 200 * time.Millisecond
	DefaultMaxDelay      = 5 * time.Second
	DefaultJitterPercent = 10
)

type RetryConfig struct {
	MaxRetries    uint64        `mapstructure:"max_retries"`
	BaseDelay     time.Duration `mapstructure:"base_delay"`
	MaxDelay      time.Duration `mapstructure:"max_delay"`
	JitterPercent uint64        `mapstructure:"jitter_percent"`
}

var _ AccountQuerier = (*RetryClient)(nil)

// RetryClient retries failed account queries with a bounded exponential backoff.
// NotFound, invalid arguments and context cancellation are never retried.
type RetryClient struct {
	querier AccountQuerier
	conf    RetryConfig
}

func NewRetryClient(querier AccountQuerier, conf RetryConfig) (*RetryClient, error) {
	conf.MaxRetries = utils.Default(conf.MaxRetries, DefaultMaxRetries)
	conf.BaseDelay = utils.Default(conf.BaseDelay, DefaultBaseDelay)
	conf.MaxDelay = utils.Default(conf.MaxDelay, DefaultMaxDelay)
	conf.JitterPercent = utils.Default(conf.JitterPercent, DefaultJitterPercent)
	if conf.BaseDelay < 0 || conf.MaxDelay < conf.BaseDelay {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid retry delays: base %s, max %s", conf.BaseDelay, conf.MaxDelay)
	}
	return &RetryClient{
		querier: querier,
		conf:    conf,
	}, nil
}

// backoff is stateful, so every call gets its own.
func (c *RetryClient) backoff() retry.Backoff {
	b := retry.NewExponential(c.conf.BaseDelay)
	b = retry.WithJitterPercent(c.conf.JitterPercent, b)
	b = retry.WithCappedDuration(c.conf.MaxDelay, b)
	return retry.WithMaxRetries(c.conf.MaxRetries, b)
}

func (c *RetryClient) ViewAccount(ctx context.Context, accountId string, blockHash string) (AccountView, error) {
	var (
		result  AccountView
		attempt int
	)
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		view, err := c.querier.ViewAccount(ctx, accountId, blockHash)
		if err != nil {
			if !isRetryable(err) {
				return err
			}
			logger.WarnContext(ctx, "Account query failed, retrying",
				slog.String("package", "nearrpc"),
				slog.String("account_id", accountId),
				slog.String("block_hash", blockHash),
				slog.Int("attempt", attempt),
				slogx.Error(err),
			)
			return retry.RetryableError(err)
		}
		result = view
		return nil
	})
	if err != nil {
		return AccountView{}, errors.Wrapf(err, "account query failed after %d attempt(s)", attempt)
	}
	return result, nil
}

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, errs.NotFound),
		errors.Is(err, errs.InvalidArgument),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
