package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"orario/internal/core"
	"orario/internal/storage"
	"orario/internal/tracker/memory"
)

func testPeriod() core.Period {
	return core.PreviousMonth(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
}

func entry(day int, d time.Duration, desc, projectID string) core.TimeEntry {
	start := time.Date(2025, time.February, day, 9, 0, 0, 0, time.UTC)
	return core.TimeEntry{
		Interval:    core.Interval{Start: start, End: start.Add(d)},
		Description: desc,
		ProjectID:   projectID,
	}
}

func seededStore() *memory.Store {
	store := memory.New()
	store.AddUser(core.User{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		entry(3, 2*time.Hour, "Design review", "p1"),
		entry(4, 4*time.Hour, "Implementation", "p1"),
	)
	store.AddUser(core.User{ID: "u2", Name: "Bob", Email: "bob@example.com"},
		entry(5, 3*time.Hour, "Support", "p2"),
	)
	store.AddProject(core.Project{ID: "p1", Name: "Website"})
	store.AddProject(core.Project{ID: "p2", Name: "Mobile App"})
	return store
}

func TestGenerate(t *testing.T) {
	svc := NewReportService(seededStore(), "ws-1", 4, nil, nil)

	reports, err := svc.Generate(context.Background(), testPeriod())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	monthly := reports.Monthly.Serialize()
	if !strings.Contains(monthly, `"Monthly report for February 2025"`) {
		t.Errorf("monthly report missing title:\n%s", monthly)
	}
	if !strings.Contains(monthly, `"Alice","alice@example.com",6.00`) {
		t.Errorf("monthly report missing Alice totals:\n%s", monthly)
	}
	if !strings.Contains(monthly, `"Implementation",4.00`) {
		t.Errorf("monthly report missing Alice task row:\n%s", monthly)
	}

	projects := reports.Projects.Serialize()
	if !strings.Contains(projects, `"Website (p1)"`) {
		t.Errorf("project report missing resolved project name:\n%s", projects)
	}
	if !strings.Contains(projects, `"Mobile App total Hours",3.00`) {
		t.Errorf("project report missing grand total:\n%s", projects)
	}
}

func TestGenerateEntryFetchFailureDegrades(t *testing.T) {
	store := seededStore()
	store.FailEntriesFor("u2", errors.New("rate limited"))
	svc := NewReportService(store, "ws-1", 4, nil, nil)

	reports, err := svc.Generate(context.Background(), testPeriod())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Bob still appears, with zero hours.
	monthly := reports.Monthly.Serialize()
	if !strings.Contains(monthly, `"Bob","bob@example.com",0.00`) {
		t.Errorf("degraded user missing from monthly report:\n%s", monthly)
	}
}

func TestGenerateListUsersFatal(t *testing.T) {
	store := seededStore()
	store.FailUsers(errors.New("workspace gone"))
	svc := NewReportService(store, "ws-1", 4, nil, nil)

	if _, err := svc.Generate(context.Background(), testPeriod()); err == nil {
		t.Fatal("expected error when user listing fails")
	}
}

func TestGenerateUnknownProjectDegrades(t *testing.T) {
	store := memory.New()
	store.AddUser(core.User{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		entry(3, 1*time.Hour, "Work", "missing"),
	)
	svc := NewReportService(store, "ws-1", 4, nil, nil)

	reports, err := svc.Generate(context.Background(), testPeriod())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(reports.Projects.Serialize(), core.UnknownProject) {
		t.Errorf("unresolvable project should fall back to %q", core.UnknownProject)
	}
}

func TestGenerateAndArchive(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "orario.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	svc := NewReportService(seededStore(), "ws-1", 4, repo, nil)
	defer svc.Close()

	ctx := context.Background()
	reports, runs, err := svc.GenerateAndArchive(ctx, testPeriod())
	if err != nil {
		t.Fatalf("GenerateAndArchive: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].Kind != storage.KindMonthly || runs[1].Kind != storage.KindProjects {
		t.Fatalf("unexpected run kinds: %+v", runs)
	}
	if runs[0].FileName != "reports/report-2025-02.csv" {
		t.Fatalf("monthly file name = %q", runs[0].FileName)
	}
	if runs[1].FileName != "reports/project-wise-report-2025-02.csv" {
		t.Fatalf("project file name = %q", runs[1].FileName)
	}

	run, err := repo.GetRun(ctx, runs[0].RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != storage.StatusPending {
		t.Fatalf("status = %s, want pending", run.Status)
	}
	if run.Content != reports.Monthly.Serialize() {
		t.Fatal("archived content does not match generated report")
	}
	if run.Period != "2025-02" {
		t.Fatalf("period = %q", run.Period)
	}
}

func TestReady(t *testing.T) {
	store := seededStore()
	svc := NewReportService(store, "ws-1", 4, nil, nil)

	if err := svc.Ready(context.Background()); err != nil {
		t.Fatalf("Ready: %v", err)
	}

	store.FailUsers(errors.New("down"))
	if err := svc.Ready(context.Background()); err == nil {
		t.Fatal("expected readiness failure when tracker is down")
	}
}
