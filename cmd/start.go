package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prime-sync/core/config"
	"prime-sync/core/loader"
	"prime-sync/core/logger"
	"prime-sync/core/metrics"
	"prime-sync/core/middleware/auth"
	"prime-sync/core/middleware/rayid"
	"prime-sync/feature/ingest"
	"prime-sync/feature/ledger"
	"prime-sync/feature/pipeline"
	"prime-sync/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the drain of the pipeline on exit.
const shutdownTimeout = 30 * time.Second

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync pipeline and the capture server",
	Long:  `Loads the battle ledger, starts the sync pipeline and serves the capture endpoints until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if !cfg.Ledger.IsValidBackend() {
			return fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 3. Metrics
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.NewCollector(reg)

		// 4. Ledger store and pipeline
		store, err := ledger.OpenStore(ctx, cfg.Ledger, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to open ledger store: %w", err)
		}

		p, err := pipeline.New(cfg.Sync, cfg.Game, store, logg, m)
		if err != nil {
			return err
		}
		p.Start(ctx)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             16 * 1024 * 1024,
		})

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(requestLogger(logg))
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/health"}}))

		// 6. Register and load features
		mgr := loader.NewManager(logg)
		mgr.Register(ingest.NewFeature(p, p, logg))
		var metricsHandler http.Handler
		if cfg.Server.Metrics {
			metricsHandler = m.Handler()
		}
		mgr.Register(status.NewFeature(p, metricsHandler))
		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		// 7. Serve until a signal arrives, then drain
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logg.Info("Shutting down server...")
			if err := app.Shutdown(); err != nil {
				logg.Warn("Server shutdown failed", zap.Error(err))
			}

			drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := p.Stop(drainCtx); err != nil {
				return fmt.Errorf("failed to drain sync pipeline: %w", err)
			}
			return nil
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
