package requestcontext

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gaze-network/near-balance-indexer/common"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err != nil {
				logger.ErrorContext(ctx, "failed to extract request context",
					err,
					slog.String("event", "requestcontext/error"),
					slog.Int("optionIndex", i),
				)
				return c.Status(http.StatusInternalServerError).JSON(common.HttpResponse[any]{Error: lo.ToPtr("internal server error")})
			}
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
