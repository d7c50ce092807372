package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/reeldle/internal/api"
	"github.com/amaumene/reeldle/internal/config"
	"github.com/amaumene/reeldle/internal/controllers"
	"github.com/amaumene/reeldle/internal/engine"
	"github.com/amaumene/reeldle/internal/metrics"
	"github.com/amaumene/reeldle/internal/models"
	"github.com/amaumene/reeldle/internal/scheduler"
	"github.com/amaumene/reeldle/internal/services/tmdb"
	"github.com/amaumene/reeldle/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Reeldle")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	if cfg.TracingEnabled {
		shutdownTracing := metrics.SetupTracing(logger)
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.WithError(err).Warn("Failed to flush traces")
			}
		}()
		logger.Info("Tracing enabled")
	}

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Load catalog
	titles, err := utils.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load catalog, using built-in titles")
		titles = utils.DefaultCatalog()
	}
	pool, err := engine.NewPool(titles, nil)
	if err != nil {
		return fmt.Errorf("failed to build title pool: %w", err)
	}
	logger.WithField("titles", pool.Size()).Info("Catalog loaded")

	// 5. Initialize services
	m := metrics.New(prometheus.DefaultRegisterer)

	tmdbClient, err := tmdb.NewClient(cfg, m, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	// 6. Initialize controller
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameCtrl := controllers.NewGameController(db, db, tmdbClient, pool, cfg.Location, m, logger)
	if err := gameCtrl.Init(ctx); err != nil {
		// The scheduler retries until the provider is reachable again
		logger.WithError(err).Error("Failed to initialize today's game")
	}
	logger.Info("Game controller initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(gameCtrl, cfg.Location, cfg.TMDBTimeout*2, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, gameCtrl, tmdbClient, prometheus.DefaultGatherer, logger)

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Reeldle is running")

	if err := serveUntilSignal(ctx, server, sigChan, logger); err != nil {
		return err
	}

	logger.Info("Reeldle stopped")
	return nil
}

// serveUntilSignal runs server until it fails or a signal arrives. Canceling
// the server context is the only shutdown path.
func serveUntilSignal(parent context.Context, server *api.Server, sigChan <-chan os.Signal, logger *logrus.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.Start(ctx)
	}()

	select {
	case err := <-serverErrChan:
		return err
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := <-serverErrChan; err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
		return nil
	}
}
