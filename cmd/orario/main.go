package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"orario/internal/amqp"
	"orario/internal/config"
	apphttp "orario/internal/http"
	applog "orario/internal/log"
	"orario/internal/services"
	"orario/internal/storage"
	"orario/internal/tracker"
	"orario/internal/tracker/clockify"
	trackermem "orario/internal/tracker/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose time-tracking source
	var source tracker.Source
	switch cfg.TrackerBackend {
	case "clockify":
		cli, err := clockify.NewClient(cfg.ClockifyAPIKey, cfg.ClockifyBaseURL)
		if err != nil {
			logger.Error("Failed to initialize Clockify client", "error", err)
			os.Exit(1)
		}
		source = cli
		logger.Info("Initialized Clockify backend", "workspace_id", cfg.ClockifyWorkspaceID)
	default:
		source = trackermem.New()
		logger.Info("Initialized memory backend", "backend", cfg.TrackerBackend)
	}

	// Initialize SQLite archive for report runs
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// Initialize AMQP client for publishing upload messages (optional).
	// Without it archived runs wait for the worker's pending sweep.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without upload messages", "error", err)
		}
	}

	reportService := services.NewReportService(source, cfg.ClockifyWorkspaceID, cfg.FetchConcurrency, repo, amqpClient)
	defer reportService.Close()

	srv := apphttp.NewServer(":"+cfg.Port, reportService)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 60 * time.Second // report generation hits the upstream API
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting orario server", "port", cfg.Port, "backend", cfg.TrackerBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
