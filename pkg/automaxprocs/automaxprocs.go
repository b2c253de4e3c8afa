package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

// Init sets GOMAXPROCS to match the container CPU quota, if any.
// An explicit GOMAXPROCS environment variable is honored.
func Init() error {
	prev := runtime.GOMAXPROCS(0)
	log := logger.With(
		slogx.String("package", "automaxprocs"),
		slogx.String("event", "set_gomaxprocs"),
		slogx.Int("prev_maxprocs", prev),
	)

	printf := func(format string, v ...any) {
		var attrs []slog.Attr
		if val, ok := utils.Optional(v); ok {
			if _, exists := os.LookupEnv("GOMAXPROCS"); exists {
				val = runtime.GOMAXPROCS(0)
			}
			if n, ok := val.(int); ok {
				attrs = append(attrs, slogx.Int("set_maxprocs", n))
			}
		}
		log.LogAttrs(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...), attrs...)
	}

	if _, err := maxprocs.Set(maxprocs.Logger(printf), maxprocs.Min(1)); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
