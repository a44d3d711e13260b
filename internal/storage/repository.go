package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusPending  = "pending"
	StatusUploaded = "uploaded"
	StatusFailed   = "failed"
)

// Report kinds.
const (
	KindMonthly  = "monthly"
	KindProjects = "projects"
)

// ErrRunNotFound is returned when a report run id does not exist.
var ErrRunNotFound = errors.New("report run not found")

// ReportRun is one archived report: the serialized output of a single
// generation call, plus its upload state.
type ReportRun struct {
	ID         int64
	Kind       string
	Period     string // YYYY-MM
	FileName   string
	Content    string
	Status     string
	UploadRef  string
	LastError  string
	CreatedAt  time.Time
	UploadedAt sql.NullTime
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateRun archives a freshly generated report as pending upload and
// returns the run id.
func (r *SQLiteRepository) CreateRun(ctx context.Context, kind, period, fileName, content string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO report_runs (kind, period, file_name, content, status)
		 VALUES (?, ?, ?, ?, ?)`,
		kind, period, fileName, content, StatusPending)
	if err != nil {
		return 0, fmt.Errorf("insert report run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("report run id: %w", err)
	}

	slog.InfoContext(ctx, "Report run archived",
		"run_id", id,
		"kind", kind,
		"period", period,
		"file_name", fileName,
		"size", len(content))

	return id, nil
}

// GetRun loads one report run by id.
func (r *SQLiteRepository) GetRun(ctx context.Context, id int64) (ReportRun, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, period, file_name, content, status, upload_ref, last_error, created_at, uploaded_at
		 FROM report_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ReportRun{}, ErrRunNotFound
	}
	if err != nil {
		return ReportRun{}, fmt.Errorf("get report run %d: %w", id, err)
	}
	return run, nil
}

// MarkUploaded records a successful upload.
func (r *SQLiteRepository) MarkUploaded(ctx context.Context, id int64, uploadRef string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE report_runs
		 SET status = ?, upload_ref = ?, last_error = '', uploaded_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		StatusUploaded, uploadRef, id)
	if err != nil {
		return fmt.Errorf("mark run %d uploaded: %w", id, err)
	}
	return requireRow(res, id)
}

// MarkFailed records an upload failure; the run stays visible for the
// pending sweep via its failed status and can be retried by a new message.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, cause string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE report_runs SET status = ?, last_error = ? WHERE id = ?`,
		StatusFailed, cause, id)
	if err != nil {
		return fmt.Errorf("mark run %d failed: %w", id, err)
	}
	return requireRow(res, id)
}

// ListUnuploaded returns runs still waiting for a successful upload (pending
// or failed), oldest first.
func (r *SQLiteRepository) ListUnuploaded(ctx context.Context, limit int) ([]ReportRun, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, period, file_name, content, status, upload_ref, last_error, created_at, uploaded_at
		 FROM report_runs WHERE status IN (?, ?) ORDER BY id LIMIT ?`,
		StatusPending, StatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("list unuploaded runs: %w", err)
	}
	defer rows.Close()

	var runs []ReportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (ReportRun, error) {
	var run ReportRun
	err := row.Scan(&run.ID, &run.Kind, &run.Period, &run.FileName, &run.Content,
		&run.Status, &run.UploadRef, &run.LastError, &run.CreatedAt, &run.UploadedAt)
	return run, err
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return nil
}
