package requestlogger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	WithRequestQuery bool `mapstructure:"request_query"`
	Disable          bool `mapstructure:"disable"` // Disable logger level `INFO`
}

// New logs every completed request. Failed requests are always logged at level `ERROR`.
func New(config Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		level := slog.LevelInfo
		if err != nil || status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		if config.Disable && level == slog.LevelInfo {
			return errors.WithStack(err)
		}

		requestAttributes := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", c.IP()),
			slog.Any("params", c.AllParams()),
		}
		if config.WithRequestQuery {
			requestAttributes = append(requestAttributes, slog.String("query", string(c.Request().URI().QueryString())))
		}

		attrs := []slog.Attr{
			slog.String("event", "api_request"),
			slog.Int64("latency", latency.Milliseconds()),
			slog.String("latencyHuman", latency.String()),
			{Key: "request", Value: slog.GroupValue(requestAttributes...)},
			{Key: "response", Value: slog.GroupValue(
				slog.Int("status", status),
				slog.Int("length", len(c.Response().Body())),
			)},
		}
		if level == slog.LevelError {
			logErr := err
			if logErr == nil {
				logErr = fiber.NewError(status)
			}
			attrs = append(attrs, slog.Any("error", logErr))
		}

		logger.LogAttrs(c.UserContext(), level, "Request Completed", attrs...)
		return errors.WithStack(err)
	}
}
