package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common"
	"github.com/gaze-network/near-balance-indexer/common/errs"
	"github.com/gaze-network/near-balance-indexer/core/indexer"
	"github.com/gaze-network/near-balance-indexer/internal/config"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges"
	"github.com/gaze-network/near-balance-indexer/pkg/automaxprocs"
	"github.com/gaze-network/near-balance-indexer/pkg/logger"
	"github.com/gaze-network/near-balance-indexer/pkg/logger/slogx"
	"github.com/gaze-network/near-balance-indexer/pkg/middleware/errorhandler"
	"github.com/gaze-network/near-balance-indexer/pkg/middleware/requestcontext"
	"github.com/gaze-network/near-balance-indexer/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Register Modules
var Modules = do.Package(
	do.LazyNamed(common.ModuleBalanceChanges.String(), balancechanges.New),
)

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start balance changes indexer service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Bool("api-only", false, "Run only API server")
	flags.String("modules", "", "Enable specific modules to run. E.g. `balance_changes`")

	// Bind flags to configuration
	config.BindPFlag("api_only", flags.Lookup("api-only"))
	config.BindPFlag("enable_modules", flags.Lookup("modules"))

	return runCmd
}

const (
	shutdownTimeout = 60 * time.Second
)

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	if !conf.Network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName: "NEAR Balance Indexer",
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024)
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", errors.Newf("panic: %v", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(errorhandler.New()).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		return app, nil
	})

	// Initialize worker context to separate worker's lifecycle from main process
	ctxWorker, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	ctxWorker = logger.WithContext(ctxWorker, slogx.Stringer("network", conf.Network))

	// Run modules
	{
		modules := lo.Map(conf.EnableModules, func(item string, _ int) string { return strings.TrimSpace(item) })
		modules = lo.Uniq(lo.Compact(modules))
		for _, module := range modules {
			ctx := logger.WithContext(ctxWorker, slogx.String("module", module))

			indexer, err := do.InvokeNamed[indexer.IndexerWorker](injector, module)
			if err != nil {
				if errors.Is(err, do.ErrServiceNotFound) {
					return errors.Errorf("Module %q is not supported", module)
				}
				return errors.Wrapf(err, "can't init module %q", module)
			}

			if !conf.APIOnly {
				go func() {
					// stop main process if indexer stopped
					defer stop()

					logger.InfoContext(ctx, "Starting indexer")
					if err := indexer.Run(ctx); err != nil {
						logger.ErrorContext(ctx, "Something went wrong, error during running indexer", err)
					}
				}()
			}
		}
	}

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.ErrorContext(ctx, "Something went wrong, error during running HTTP server", err)
		}
	}()

	logger.InfoContext(ctxWorker, "NEAR balance indexer started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := httpServer.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.ErrorContext(ctx, "Failed to shutdown HTTP server", err)
	}
	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}
