package httphandler

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type getBalanceChangesRequest struct {
	AccountId     string `params:"accountId"`
	Limit         int32  `query:"limit"`
	FromTimestamp *int64 `query:"fromTimestamp"`
}

func (r getBalanceChangesRequest) Validate() error {
	var errList []error
	if strings.TrimSpace(r.AccountId) == "" {
		errList = append(errList, errors.New("'accountId' is required"))
	}
	if r.Limit < 0 || r.Limit > maxLimit {
		errList = append(errList, errors.Errorf("'limit' must be between 1 and %d", maxLimit))
	}
	if r.FromTimestamp != nil && *r.FromTimestamp < 0 {
		errList = append(errList, errors.New("'fromTimestamp' must be a non-negative unix timestamp in nanoseconds"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type balanceChange struct {
	BlockTimestamp       int64   `json:"blockTimestamp"`
	ReceiptId            *string `json:"receiptId"`
	TransactionHash      *string `json:"transactionHash"`
	AffectedAccountId    string  `json:"affectedAccountId"`
	InvolvedAccountId    *string `json:"involvedAccountId"`
	Direction            string  `json:"direction"`
	Cause                string  `json:"cause"`
	DeltaLiquidAmount    string  `json:"deltaLiquidAmount"`
	AbsoluteLiquidAmount string  `json:"absoluteLiquidAmount"`
	DeltaLockedAmount    string  `json:"deltaLockedAmount"`
	AbsoluteLockedAmount string  `json:"absoluteLockedAmount"`
	ShardId              uint64  `json:"shardId"`
	IndexInChunk         int32   `json:"indexInChunk"`
}

type getBalanceChangesResult struct {
	List []balanceChange `json:"list"`
}

type getBalanceChangesResponse = HttpResponse[getBalanceChangesResult]

func (h *HttpHandler) GetBalanceChangesByAccount(ctx *fiber.Ctx) (err error) {
	var req getBalanceChangesRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}

	changes, err := h.usecase.GetBalanceChangesByAccount(ctx.UserContext(), req.AccountId, req.FromTimestamp, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetBalanceChangesByAccount")
	}

	resp := getBalanceChangesResponse{
		Result: &getBalanceChangesResult{
			List: lo.Map(changes, func(change *entity.BalanceChange, _ int) balanceChange {
				return mapBalanceChange(change)
			}),
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}

func mapBalanceChange(src *entity.BalanceChange) balanceChange {
	var receiptId, txHash *string
	if src.ReceiptId != nil {
		receiptId = lo.ToPtr(src.ReceiptId.String())
	}
	if src.TransactionHash != nil {
		txHash = lo.ToPtr(src.TransactionHash.String())
	}
	return balanceChange{
		BlockTimestamp:       src.BlockTimestamp.UnixNano(),
		ReceiptId:            receiptId,
		TransactionHash:      txHash,
		AffectedAccountId:    src.AffectedAccountId,
		InvolvedAccountId:    src.InvolvedAccountId,
		Direction:            string(src.Direction),
		Cause:                src.Cause,
		DeltaLiquidAmount:    src.DeltaLiquidAmount.String(),
		AbsoluteLiquidAmount: src.AbsoluteLiquidAmount.String(),
		DeltaLockedAmount:    src.DeltaLockedAmount.String(),
		AbsoluteLockedAmount: src.AbsoluteLockedAmount.String(),
		ShardId:              src.ShardId,
		IndexInChunk:         src.IndexInChunk,
	}
}
