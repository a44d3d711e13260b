package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"orario/internal/amqp"
	"orario/internal/core"
	"orario/internal/storage"
	"orario/internal/tracker"
)

// GeneratedReports bundles the two reports produced by one generation run.
type GeneratedReports struct {
	Period   core.Period
	Monthly  *core.Report
	Projects *core.Report
}

// ArchivedRun identifies one persisted report run awaiting upload.
type ArchivedRun struct {
	RunID    int64
	Kind     string
	FileName string
}

// ReportService orchestrates report generation across the tracker source,
// SQLite archive and AMQP upload queue.
type ReportService struct {
	source           tracker.Source
	workspaceID      string
	fetchConcurrency int
	storage          *storage.SQLiteRepository
	amqpClient       *amqp.Client
}

func NewReportService(source tracker.Source, workspaceID string, fetchConcurrency int, storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ReportService {
	if fetchConcurrency < 1 {
		fetchConcurrency = 1
	}
	return &ReportService{
		source:           source,
		workspaceID:      workspaceID,
		fetchConcurrency: fetchConcurrency,
		storage:          storage,
		amqpClient:       amqpClient,
	}
}

// Generate fetches the workspace's time entries for the period and builds
// both reports. Only the user listing is fatal: a user whose entries cannot
// be fetched appears with zero hours, so one flaky fetch never sinks the
// whole run.
func (s *ReportService) Generate(ctx context.Context, period core.Period) (*GeneratedReports, error) {
	users, err := s.source.ListUsers(ctx, s.workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	slog.InfoContext(ctx, "Generating reports",
		"period", period.Key(),
		"users", len(users))

	entriesByUser := s.fetchEntries(ctx, users, period)

	aggregates := make(map[string]core.UserAggregate, len(users))
	for _, u := range users {
		aggregates[u.ID] = core.AggregateEntries(u, entriesByUser[u.ID])
	}

	monthly := core.BuildMonthlyReport(users, aggregates, period)
	projects := core.BuildProjectReport(ctx, users, entriesByUser, s.projectName, period)

	return &GeneratedReports{
		Period:   period,
		Monthly:  monthly,
		Projects: projects,
	}, nil
}

// fetchEntries loads each user's entries concurrently. Failures degrade to
// an empty entry list.
func (s *ReportService) fetchEntries(ctx context.Context, users []core.User, period core.Period) map[string][]core.TimeEntry {
	results := make([][]core.TimeEntry, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)
	for i, u := range users {
		i, u := i, u
		g.Go(func() error {
			entries, err := s.source.ListTimeEntries(gctx, s.workspaceID, u.ID, period.Start, period.End)
			if err != nil {
				slog.WarnContext(gctx, "Failed to fetch time entries, treating as empty",
					"user_id", u.ID,
					"user_name", u.Name,
					"error", err)
				return nil
			}
			results[i] = entries
			return nil
		})
	}
	// Goroutines never return errors; Wait only orders the writes above.
	g.Wait()

	entriesByUser := make(map[string][]core.TimeEntry, len(users))
	for i, u := range users {
		entriesByUser[u.ID] = results[i]
	}
	return entriesByUser
}

func (s *ReportService) projectName(ctx context.Context, projectID string) (string, error) {
	project, err := s.source.GetProject(ctx, s.workspaceID, projectID)
	if err != nil {
		return "", err
	}
	return project.Name, nil
}

// GenerateAndArchive generates both reports, archives each as a pending run
// and publishes an upload message per run. Publish failures are logged, not
// fatal: the runs are archived locally and the pending sweep retries them.
func (s *ReportService) GenerateAndArchive(ctx context.Context, period core.Period) (*GeneratedReports, []ArchivedRun, error) {
	reports, err := s.Generate(ctx, period)
	if err != nil {
		return nil, nil, err
	}

	if s.storage == nil {
		return nil, nil, fmt.Errorf("archive reports: storage not configured")
	}

	archives := []struct {
		kind     string
		fileName string
		report   *core.Report
	}{
		{storage.KindMonthly, period.ReportFileName(), reports.Monthly},
		{storage.KindProjects, period.ProjectReportFileName(), reports.Projects},
	}

	runs := make([]ArchivedRun, 0, len(archives))
	for _, a := range archives {
		id, err := s.storage.CreateRun(ctx, a.kind, period.Key(), a.fileName, a.report.Serialize())
		if err != nil {
			return nil, nil, fmt.Errorf("archive %s report: %w", a.kind, err)
		}
		runs = append(runs, ArchivedRun{RunID: id, Kind: a.kind, FileName: a.fileName})

		if err := s.publishUploadMessage(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish upload message",
				"run_id", id,
				"kind", a.kind,
				"error", err)
			// Don't fail the request - the run is archived locally
		}
	}

	return reports, runs, nil
}

// publishRetries bounds the backoff attempts per run; anything still
// unpublished is picked up by the worker's pending sweep.
const publishRetries = 2

func (s *ReportService) publishUploadMessage(ctx context.Context, runID int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping upload message")
		return nil
	}
	return s.amqpClient.PublishReportUploadWithRetry(ctx, runID, publishRetries)
}

// Ready reports whether the tracker source answers; used by readiness checks.
func (s *ReportService) Ready(ctx context.Context) error {
	if _, err := s.source.ListUsers(ctx, s.workspaceID); err != nil {
		return fmt.Errorf("tracker source: %w", err)
	}
	return nil
}

// Close closes both storage and AMQP connections.
func (s *ReportService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close report service: %v", errs)
	}

	return nil
}
