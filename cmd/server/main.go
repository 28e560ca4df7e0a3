/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the daily activity ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load configuration
  2. Open the configured key-value store
  3. Migrate persisted records to the current schema
  4. Create the Ledger Store on the current ledger day
  5. Configure HTTP router and rollover scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML configuration file (optional)
  -port    HTTP server port, overrides http.address
  -db      Store path, overrides store.path
           Use ":memory:" with the sqlite driver for an in-memory database

ENVIRONMENT:
  DAYLEDGER_* variables, see config/config.go.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the rollover scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the store
  5. Exit

EXAMPLES:
  ./server -db="./data/dayledger.db"
  DAYLEDGER_STORE_DRIVER=badger ./server -db="./data/badger"
  ./server -config=dayledger.yaml -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration sources
  - store/store.go: Store selection
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/window/dayledger/api"
	"github.com/window/dayledger/config"
	"github.com/window/dayledger/day"
	"github.com/window/dayledger/observability"
	"github.com/window/dayledger/store"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "Store path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Address = fmt.Sprintf(":%d", *port)
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// Initialize store
	repo, closer, err := store.OpenRepository(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closer.Close()

	metrics := observability.NewLedgerMetrics(prometheus.DefaultRegisterer)

	report, err := day.Migrate(ctx, repo)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	metrics.MigrationCompleted(report)

	ledger, err := day.NewLedgerStore(ctx, repo,
		day.WithLogger(logger),
		day.WithObserver(metrics))
	if err != nil {
		return err
	}

	handler := api.NewHandler(ledger, repo, cfg.Goals, logger)
	router := api.NewRouter(handler, promhttp.Handler())

	if cfg.Rollover.Enabled {
		scheduler, err := api.NewRolloverScheduler(handler, cfg.Rollover.Schedule, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"address", cfg.HTTP.Address,
			"store", cfg.Store.Driver,
			"day", ledger.CurrentDate())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
