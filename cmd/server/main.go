/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the benefits cost engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment)
  2. Open the storage backend and the Roster (seeds on first run)
  3. Create API handler, metrics and summary publisher
  4. Configure HTTP router
  5. Start server with graceful shutdown

ENVIRONMENT:
  See config/config.go. The most common ones:
  PORT              HTTP server port (default: 8080)
  STORAGE_BACKEND   sqlite | redis | file | memory (default: sqlite)
  SQLITE_PATH       SQLite database path (default: benefits.db)
  LOG_FORMAT        json | console

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the summary publisher
  4. Close the backend
  5. Exit

EXAMPLES:
  # Run with the default SQLite file
  ./server

  # Run against Redis with console logs
  STORAGE_BACKEND=redis REDIS_URL=redis://localhost:6379/0 LOG_FORMAT=console ./server

SEE ALSO:
  - api/server.go: Router configuration
  - app/app.go: Backend selection
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/warp/benefits-engine/api"
	"github.com/warp/benefits-engine/app"
	"github.com/warp/benefits-engine/config"
	"github.com/warp/benefits-engine/obs"
)

const metricsNamespace = "benefits"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := obs.NewLogger("json", "info")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	ctx := context.Background()
	deps, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open roster")
	}
	defer deps.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rosterMetrics := obs.NewRosterMetrics(metricsNamespace, registry)

	// Initialize handler
	handler := api.NewHandler(deps.Roster, logger)
	handler.Seed = cfg.Seed
	handler.Metrics = rosterMetrics
	handler.PageSize = cfg.ListPageSize

	publisher := api.NewSummaryPublisher(deps.Roster, rosterMetrics, logger)
	publisher.Interval = cfg.SummaryInterval
	publisher.Start()
	defer publisher.Stop()

	// Create router
	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
		HTTPMetrics:    obs.NewHTTPMetrics(metricsNamespace, registry),
		Gatherer:       registry,
	})

	// Create server
	server := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server stopped")
}
