package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"orario/internal/amqp"
	"orario/internal/config"
	applog "orario/internal/log"
	"orario/internal/services"
	"orario/internal/sink"
	gdrive "orario/internal/sink/google"
	sinkmem "orario/internal/sink/memory"
	"orario/internal/storage"
	"orario/internal/tracker"
	"orario/internal/tracker/clockify"
	trackermem "orario/internal/tracker/memory"
	"orario/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting orario-worker")

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite repository holding archived report runs
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Initialize the upload sink (optional)
	var uploader sink.Uploader
	if cfg.GoogleDriveFolderID != "" {
		driveClient, err := gdrive.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Drive client", "error", err)
			os.Exit(1)
		}
		uploader = driveClient
		logger.Info("Google Drive sink initialized", "folder_id", cfg.GoogleDriveFolderID)
	} else {
		uploader = sinkmem.New()
		logger.Info("Google Drive disabled - no GOOGLE_DRIVE_FOLDER_ID provided, uploads recorded in memory")
	}

	// Initialize AMQP client for consuming messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Choose time-tracking source for scheduled generation
	var source tracker.Source
	switch cfg.TrackerBackend {
	case "clockify":
		cli, err := clockify.NewClient(cfg.ClockifyAPIKey, cfg.ClockifyBaseURL)
		if err != nil {
			logger.Error("Failed to initialize Clockify client", "error", err)
			os.Exit(1)
		}
		source = cli
	default:
		source = trackermem.New()
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uploadWorker := worker.NewUploadWorker(repo, uploader, cfg.UploadBatchSize)
	reportService := services.NewReportService(source, cfg.ClockifyWorkspaceID, cfg.FetchConcurrency, repo, amqpClient)

	// On startup, deliver any runs that might have been missed
	logger.Info("Performing startup pending sweep...")
	if err := uploadWorker.ProcessPendingRuns(ctx); err != nil {
		logger.Error("Startup pending sweep failed", "error", err)
		// Don't exit - continue with normal operation
	}

	// Start message consumption
	go func() {
		if err := amqpClient.ConsumeReportUploads(ctx, uploadWorker.HandleUploadMessage); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodic sweep for runs whose messages were lost
	ticker := time.NewTicker(cfg.PendingInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := uploadWorker.ProcessPendingRuns(ctx); err != nil {
					logger.Error("Periodic pending sweep failed", "error", err)
				}
			}
		}
	}()

	// Monthly report generation on the configured schedule
	scheduler := worker.NewScheduler(reportService, cfg.ReportSchedule)
	if err := scheduler.Start(); err != nil {
		logger.Error("Failed to start report scheduler", "error", err)
		os.Exit(1)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	scheduler.Stop()
	cancel()

	// Give in-flight deliveries a moment to settle
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
