package gen

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"
)

// BatchCreateBalanceChangesPatchedParams replaces the optional text columns with nullable arrays,
// which sqlc can't generate for unnest parameters.
type BatchCreateBalanceChangesPatchedParams struct {
	BatchCreateBalanceChangesParams
	ReceiptIDArr         []pgtype.Text
	TransactionHashArr   []pgtype.Text
	InvolvedAccountIDArr []pgtype.Text
}

func (q *Queries) BatchCreateBalanceChangesPatched(ctx context.Context, arg BatchCreateBalanceChangesPatchedParams) error {
	_, err := q.db.Exec(ctx, batchCreateBalanceChanges,
		arg.BlockTimestampArr,
		arg.ReceiptIDArr,
		arg.TransactionHashArr,
		arg.AffectedAccountIDArr,
		arg.InvolvedAccountIDArr,
		arg.DirectionArr,
		arg.CauseArr,
		arg.DeltaLiquidAmountArr,
		arg.AbsoluteLiquidAmountArr,
		arg.DeltaLockedAmountArr,
		arg.AbsoluteLockedAmountArr,
		arg.ShardIDArr,
		arg.IndexInChunkArr,
	)
	return errors.WithStack(err)
}
