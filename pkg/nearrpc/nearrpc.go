// Package nearrpc is a minimal NEAR JSON-RPC client for point-in-time account queries.
package nearrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/pkg/httpclient"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/uint128"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Debug   bool          `mapstructure:"debug"`
}

// AccountView is the state of an account as of a specific block.
type AccountView struct {
	Amount       uint128.Uint128
	Locked       uint128.Uint128
	CodeHash     string
	StorageUsage uint64
	BlockHeight  int64
	BlockHash    string
}

// AccountQuerier answers "what was this account's balance at block X".
type AccountQuerier interface {
	ViewAccount(ctx context.Context, accountId string, blockHash string) (AccountView, error)
}

var _ AccountQuerier = (*Client)(nil)

type Client struct {
	client *httpclient.Client
	nextId atomic.Uint64
}

func New(conf Config) (*Client, error) {
	if conf.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "near rpc url is required")
	}
	client, err := httpclient.New(conf.URL, httpclient.Config{
		Debug:   conf.Debug,
		Timeout: utils.Default(conf.Timeout, DefaultTimeout),
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &Client{
		client: client,
	}, nil
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	Id      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Id      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

type viewAccountParams struct {
	RequestType string `json:"request_type"`
	AccountId   string `json:"account_id"`
	BlockId     string `json:"block_id"`
}

type viewAccountResult struct {
	// Older nodes report query failures inside a successful result.
	Error *string `json:"error"`

	Amount       string `json:"amount"`
	Locked       string `json:"locked"`
	CodeHash     string `json:"code_hash"`
	StorageUsage uint64 `json:"storage_usage"`
	BlockHeight  int64  `json:"block_height"`
	BlockHash    string `json:"block_hash"`
}

// ViewAccount queries the account state as of the given block hash.
// It returns errs.NotFound if the account or the block does not exist.
func (c *Client) ViewAccount(ctx context.Context, accountId string, blockHash string) (AccountView, error) {
	var result viewAccountResult
	if err := c.call(ctx, "query", viewAccountParams{
		RequestType: "view_account",
		AccountId:   accountId,
		BlockId:     blockHash,
	}, &result); err != nil {
		return AccountView{}, errors.Wrapf(err, "can't view account %s at block %s", accountId, blockHash)
	}
	if result.Error != nil {
		return AccountView{}, errors.Wrapf(classifyMessage(*result.Error), "can't view account %s at block %s: %s", accountId, blockHash, *result.Error)
	}

	amount, err := uint128.FromString(result.Amount)
	if err != nil {
		return AccountView{}, errors.Wrapf(err, "invalid amount %q", result.Amount)
	}
	locked, err := uint128.FromString(result.Locked)
	if err != nil {
		return AccountView{}, errors.Wrapf(err, "invalid locked amount %q", result.Locked)
	}
	return AccountView{
		Amount:       amount,
		Locked:       locked,
		CodeHash:     result.CodeHash,
		StorageUsage: result.StorageUsage,
		BlockHeight:  result.BlockHeight,
		BlockHash:    result.BlockHash,
	}, nil
}

func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Id:      strconv.FormatUint(c.nextId.Add(1), 10),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.Wrap(err, "can't marshal request")
	}

	resp, err := c.client.Post(ctx, "/", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}

	var rpcResp response
	if err := resp.UnmarshalBody(&rpcResp); err != nil {
		if resp.StatusCode() >= 300 {
			return errors.Errorf("unexpected status code %d from %s", resp.StatusCode(), resp.URL)
		}
		return errors.Wrap(err, "can't unmarshal response")
	}
	if rpcResp.Error != nil {
		logger.DebugContext(ctx, "JSON-RPC call failed",
			slog.String("package", "nearrpc"),
			slog.String("method", method),
			slog.String("error_name", rpcResp.Error.Name),
			slog.String("cause", rpcResp.Error.CauseName()),
		)
		return errors.WithStack(rpcResp.Error)
	}
	if len(rpcResp.Result) == 0 {
		return errors.Errorf("empty result from %s", resp.URL)
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return errors.Wrapf(err, "can't unmarshal result %q", string(rpcResp.Result))
	}
	return nil
}

// Error is a structured JSON-RPC error returned by nearcore.
type Error struct {
	Name    string      `json:"name"`
	Cause   *ErrorCause `json:"cause"`
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    any         `json:"data"`
}

type ErrorCause struct {
	Name string          `json:"name"`
	Info json.RawMessage `json:"info"`
}

func (e *Error) CauseName() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Name
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
	if e.Name != "" {
		msg += ", " + e.Name
	}
	if cause := e.CauseName(); cause != "" {
		msg += "/" + cause
	}
	if e.Data != nil {
		msg += fmt.Sprintf(" (%v)", e.Data)
	}
	return msg
}

// Is reports NotFound for unknown accounts and blocks that are not available on the node.
func (e *Error) Is(target error) bool {
	if target != errs.NotFound {
		return false
	}
	switch e.CauseName() {
	case "UNKNOWN_ACCOUNT", "UNKNOWN_BLOCK", "GARBAGE_COLLECTED_BLOCK":
		return true
	}
	return false
}
