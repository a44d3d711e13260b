package core

import (
	"testing"
	"time"
)

func TestBuildMonthlyReport(t *testing.T) {
	period := PreviousMonth(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
	start := period.Start.Add(9 * time.Hour)

	userA := User{ID: "a", Name: "Ada", Email: "ada@example.com"}
	userB := User{ID: "b", Name: "Bob", Email: "bob@example.com"}

	aggs := map[string]UserAggregate{
		userA.ID: AggregateEntries(userA, []TimeEntry{
			entryAt(start, time.Hour, "Design", "p1"),
		}),
		// userB intentionally absent: treated as zero entries.
	}

	report := BuildMonthlyReport([]User{userA, userB}, aggs, period)
	rows := parseReport(report.Serialize())

	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 (title, header, A, B)", len(rows))
	}
	for i, row := range rows {
		if len(row) != 5 {
			t.Fatalf("row %d has %d fields, want 5", i, len(row))
		}
	}

	if rows[0][0] != "Monthly report for February 2025" {
		t.Fatalf("title row = %v", rows[0])
	}
	wantHeader := []string{"Name", "Email", "Total Hours", "Task", "Hours"}
	for i, want := range wantHeader {
		if rows[1][i] != want {
			t.Fatalf("header[%d] = %q, want %q", i, rows[1][i], want)
		}
	}

	wantA := []string{"Ada", "ada@example.com", "1.00", "Design", "1.00"}
	for i, want := range wantA {
		if rows[2][i] != want {
			t.Fatalf("A row[%d] = %q, want %q", i, rows[2][i], want)
		}
	}

	wantB := []string{"Bob", "bob@example.com", "0.00", "", ""}
	for i, want := range wantB {
		if rows[3][i] != want {
			t.Fatalf("B row[%d] = %q, want %q", i, rows[3][i], want)
		}
	}
}

func TestBuildMonthlyReportMergedCells(t *testing.T) {
	period := PreviousMonth(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
	start := period.Start.Add(9 * time.Hour)

	user := User{ID: "a", Name: "Ada", Email: "ada@example.com"}
	aggs := map[string]UserAggregate{
		user.ID: AggregateEntries(user, []TimeEntry{
			entryAt(start, time.Hour, "Design", "p1"),
			entryAt(start.Add(2*time.Hour), 30*time.Minute, "Review", "p1"),
			entryAt(start.Add(4*time.Hour), 30*time.Minute, "Design", "p1"),
		}),
	}

	rows := parseReport(BuildMonthlyReport([]User{user}, aggs, period).Serialize())

	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 (title, header, 2 task rows)", len(rows))
	}

	first := rows[2]
	if first[0] != "Ada" || first[2] != "2.00" || first[3] != "Design" || first[4] != "1.50" {
		t.Fatalf("first task row = %v", first)
	}
	second := rows[3]
	if second[0] != "" || second[1] != "" || second[2] != "" {
		t.Fatalf("second task row should carry empty identity cells: %v", second)
	}
	if second[3] != "Review" || second[4] != "0.50" {
		t.Fatalf("second task row = %v", second)
	}
}
