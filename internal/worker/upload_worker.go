package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orario/internal/amqp"
	"orario/internal/sink"
	"orario/internal/storage"
)

// UploadWorker handles delivery of archived report runs to the sink
type UploadWorker struct {
	storage   *storage.SQLiteRepository
	sink      sink.Uploader
	batchSize int
}

func NewUploadWorker(storage *storage.SQLiteRepository, sink sink.Uploader, batchSize int) *UploadWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &UploadWorker{
		storage:   storage,
		sink:      sink,
		batchSize: batchSize,
	}
}

// HandleUploadMessage processes a single report upload message from AMQP
func (w *UploadWorker) HandleUploadMessage(ctx context.Context, msg *amqp.ReportUploadMessage) error {
	slog.InfoContext(ctx, "Processing upload message", "run_id", msg.RunID)

	run, err := w.storage.GetRun(ctx, msg.RunID)
	if errors.Is(err, storage.ErrRunNotFound) {
		// Stale message, nothing to retry.
		slog.WarnContext(ctx, "Report run no longer exists, dropping message",
			"run_id", msg.RunID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get report run: %w", err)
	}

	return w.uploadRun(ctx, run)
}

// uploadRun pushes one run to the sink and records the outcome. Already
// uploaded runs are skipped so redelivered messages stay idempotent.
func (w *UploadWorker) uploadRun(ctx context.Context, run storage.ReportRun) error {
	if run.Status == storage.StatusUploaded {
		slog.InfoContext(ctx, "Report run already uploaded, skipping",
			"run_id", run.ID,
			"upload_ref", run.UploadRef)
		return nil
	}

	ref, err := w.sink.Upload(ctx, run.FileName, []byte(run.Content))
	if err != nil {
		if markErr := w.storage.MarkFailed(ctx, run.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record upload failure",
				"run_id", run.ID,
				"error", markErr)
		}
		return fmt.Errorf("upload report run %d: %w", run.ID, err)
	}

	if err := w.storage.MarkUploaded(ctx, run.ID, ref); err != nil {
		return fmt.Errorf("mark run %d uploaded: %w", run.ID, err)
	}

	slog.InfoContext(ctx, "Report run uploaded",
		"run_id", run.ID,
		"kind", run.Kind,
		"period", run.Period,
		"upload_ref", ref)

	return nil
}

// ProcessPendingRuns uploads any runs still waiting for delivery.
// This is a backup mechanism in case AMQP messages are lost.
func (w *UploadWorker) ProcessPendingRuns(ctx context.Context) error {
	runs, err := w.storage.ListUnuploaded(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unuploaded runs: %w", err)
	}

	if len(runs) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending report runs", "count", len(runs))

	var failed int
	for _, run := range runs {
		if err := w.uploadRun(ctx, run); err != nil {
			slog.ErrorContext(ctx, "Failed to upload pending run",
				"run_id", run.ID,
				"error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pending runs failed", failed, len(runs))
	}
	return nil
}
