package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type errorResponse = common.HttpResponse[any]

// New setup error handler middleware
func New() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(errorResponse{
				Error: lo.ToPtr(e.Message()),
			}))
		}
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(ctx.Status(http.StatusNotFound).JSON(errorResponse{
				Error: lo.ToPtr("not found"),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(errorResponse{
				Error: lo.ToPtr(e.Error()),
			}))
		}
		logger.ErrorContext(ctx.UserContext(), "Something went wrong, api error", err,
			slogx.String("event", "api_error"),
		)
		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(errorResponse{
			Error: lo.ToPtr("Internal Server Error"),
		}))
	}
}
