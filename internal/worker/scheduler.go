package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"orario/internal/core"
	"orario/internal/services"
)

// Archiver generates and archives the reports for a period.
type Archiver interface {
	GenerateAndArchive(ctx context.Context, period core.Period) (*services.GeneratedReports, []services.ArchivedRun, error)
}

// Scheduler triggers report generation for the previous month on a cron
// schedule, typically early on the first day of each month.
type Scheduler struct {
	archiver Archiver
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

func NewScheduler(archiver Archiver, schedule string) *Scheduler {
	return &Scheduler{
		archiver: archiver,
		schedule: schedule,
		now:      time.Now,
	}
}

// Start registers the cron entry and starts the scheduler in the background.
func (s *Scheduler) Start() error {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return fmt.Errorf("register report schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	slog.Info("Report scheduler started", "schedule", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	slog.Info("Report scheduler stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	period := core.PreviousMonth(s.now())
	slog.InfoContext(ctx, "Scheduled report generation starting", "period", period.Key())

	_, runs, err := s.archiver.GenerateAndArchive(ctx, period)
	if err != nil {
		slog.ErrorContext(ctx, "Scheduled report generation failed",
			"period", period.Key(),
			"error", err)
		return
	}

	slog.InfoContext(ctx, "Scheduled report generation finished",
		"period", period.Key(),
		"runs", len(runs))
}
