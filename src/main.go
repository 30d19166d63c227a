package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/contre95/songbook/src/features/config"
	"github.com/contre95/songbook/src/features/hosting"
	"github.com/contre95/songbook/src/features/logging"
	"github.com/contre95/songbook/src/features/metrics"
	"github.com/contre95/songbook/src/features/songs"
	"github.com/contre95/songbook/src/infra/database"
)

func main() {
	// Load configuration
	configPath := config.Path()
	cfgManager, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := cfgManager.Get()

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger.Logger)
	cfgManager.OnUpdate(logger.Reconfigure)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reload the config file when it changes
	watcher, err := config.NewWatcher(cfgManager, configPath)
	if err != nil {
		slog.Error("Failed to create config watcher", "error", err)
	} else if err := watcher.Start(ctx); err != nil {
		slog.Error("Failed to start config watcher", "error", err)
	} else {
		defer watcher.Stop()
	}

	var metricsManager *metrics.Manager
	var storageOpts []database.Option
	if cfg.Metrics.Enabled {
		metricsManager = metrics.NewManager(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithHistogramBuckets(cfg.Metrics.Buckets),
		)
		storageOpts = append(storageOpts, database.WithObserver(metricsManager))
	}
	if cfg.Breaker.Enabled {
		var observer database.BreakerObserver
		if metricsManager != nil {
			observer = metricsManager
		}
		storageOpts = append(storageOpts, database.WithBreaker(database.NewBreaker(cfg.Breaker, observer)))
	}

	// Open the songs storage
	storage, err := database.Open(cfg.Database, storageOpts...)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer storage.Close()
	if err := storage.Ping(ctx); err != nil {
		slog.Warn("Songs storage is not reachable yet", "driver", cfg.Database.Driver, "error", err)
	}

	songsService := songs.NewService(storage, cfgManager)

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, songsService, metricsManager)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
			stop()
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfg.Server.Port, "mode", cfg.Query.Mode)

	// Wait for a shutdown signal
	<-ctx.Done()
	slog.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
