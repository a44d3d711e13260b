package core

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func staticResolver(names map[string]string) ProjectNameFunc {
	return func(_ context.Context, id string) (string, error) {
		name, ok := names[id]
		if !ok {
			return "", errors.New("project not found")
		}
		return name, nil
	}
}

func TestBuildProjectReport(t *testing.T) {
	period := PreviousMonth(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
	start := period.Start.Add(9 * time.Hour)

	userA := User{ID: "a", Name: "Ada", Email: "ada@example.com"}
	userB := User{ID: "b", Name: "Bob", Email: "bob@example.com"}

	entries := map[string][]TimeEntry{
		"a": {
			entryAt(start, time.Hour, "Design", "p1"),
			entryAt(start.Add(2*time.Hour), 30*time.Minute, "Review", "p2"),
			entryAt(start.Add(4*time.Hour), time.Hour, "Design", "p1"),
		},
		"b": {
			entryAt(start, 90*time.Minute, "Testing", "p1"),
		},
	}

	resolve := staticResolver(map[string]string{"p1": "Alpha"})
	rows := parseReport(BuildProjectReport(context.Background(), []User{userA, userB}, entries, resolve, period).Serialize())

	for i, row := range rows {
		if len(row) != 4 {
			t.Fatalf("row %d has %d fields, want 4", i, len(row))
		}
	}

	if rows[0][0] != "Project wise report for February 2025" {
		t.Fatalf("title row = %v", rows[0])
	}

	// p1 was encountered first and resolves to Alpha.
	if rows[1][0] != "Project name" || rows[1][1] != "Alpha (p1)" {
		t.Fatalf("project header row = %v", rows[1])
	}
	wantCols := []string{"ID", "Emp Name", "Hours", "Task"}
	for i, want := range wantCols {
		if rows[2][i] != want {
			t.Fatalf("column header[%d] = %q, want %q", i, rows[2][i], want)
		}
	}

	// Ada's block inside p1: one summed Design row, then her subtotal.
	if rows[3][0] != "a" || rows[3][1] != "Ada" || rows[3][2] != "2.00" || rows[3][3] != "Design" {
		t.Fatalf("Ada task row = %v", rows[3])
	}
	if rows[4][1] != "Ada's total Hours" || rows[4][2] != "2.00" {
		t.Fatalf("Ada subtotal row = %v", rows[4])
	}

	// Bob follows in user-list order.
	if rows[5][0] != "b" || rows[5][1] != "Bob" || rows[5][2] != "1.50" || rows[5][3] != "Testing" {
		t.Fatalf("Bob task row = %v", rows[5])
	}
	if rows[6][1] != "Bob's total Hours" || rows[6][2] != "1.50" {
		t.Fatalf("Bob subtotal row = %v", rows[6])
	}

	// Spacer, grand total, blank separator.
	if rows[7][0] != "" || rows[7][3] != "" {
		t.Fatalf("spacer row = %v", rows[7])
	}
	if rows[8][1] != "Alpha total Hours" || rows[8][2] != "3.50" {
		t.Fatalf("grand total row = %v", rows[8])
	}

	// p2 fails to resolve but its entries still aggregate.
	if rows[10][0] != "Project name" || rows[10][1] != UnknownProject+" (p2)" {
		t.Fatalf("unknown project header row = %v", rows[10])
	}
	if rows[12][0] != "a" || rows[12][2] != "0.50" || rows[12][3] != "Review" {
		t.Fatalf("unknown project task row = %v", rows[12])
	}
	if rows[13][1] != "Ada's total Hours" || rows[13][2] != "0.50" {
		t.Fatalf("unknown project subtotal row = %v", rows[13])
	}
	if rows[14][0] != "" || rows[14][1] != "" {
		t.Fatalf("spacer row = %v", rows[14])
	}
	if rows[15][1] != UnknownProject+" total Hours" || rows[15][2] != "0.50" {
		t.Fatalf("unknown project grand total row = %v", rows[15])
	}
}

func TestBuildProjectReportTotalsLaw(t *testing.T) {
	period := PreviousMonth(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
	start := period.Start.Add(8 * time.Hour)

	users := []User{
		{ID: "a", Name: "Ada"},
		{ID: "b", Name: "Bob"},
		{ID: "c", Name: "Cyd"},
	}
	entries := map[string][]TimeEntry{}
	for i, u := range users {
		for j := 0; j < 4; j++ {
			d := time.Duration(15*(i+j+1)) * time.Minute
			entries[u.ID] = append(entries[u.ID],
				entryAt(start.Add(time.Duration(j)*time.Hour), d, "Task "+strconv.Itoa(j%2), "p"+strconv.Itoa(j%2)))
		}
	}

	resolve := staticResolver(map[string]string{"p0": "Zero", "p1": "One"})
	rows := parseReport(BuildProjectReport(context.Background(), users, entries, resolve, period).Serialize())

	// Replay the serialized rows: within each project, every user's subtotal
	// must equal the sum of their task rows, and the grand total must equal
	// the sum of the subtotals.
	hours := func(cell string) float64 {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			t.Fatalf("bad hours cell %q", cell)
		}
		return v
	}
	var taskSum, subtotalSum float64
	projects := 0
	for _, row := range rows {
		switch {
		case row[3] != "" && row[3] != "Task" && row[0] != "Project name":
			taskSum += hours(row[2])
		case strings.HasSuffix(row[1], "'s total Hours"):
			if diff := hours(row[2]) - taskSum; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("subtotal %q != task sum %v", row[2], taskSum)
			}
			subtotalSum += taskSum
			taskSum = 0
		case strings.HasSuffix(row[1], " total Hours"):
			if diff := hours(row[2]) - subtotalSum; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("grand total %q != subtotal sum %v", row[2], subtotalSum)
			}
			subtotalSum = 0
			projects++
		}
	}
	if projects != 2 {
		t.Fatalf("checked %d projects, want 2", projects)
	}
}
