package core

import (
	"fmt"
	"time"
)

// Period is the closed date range one report run covers, always a full
// calendar month.
type Period struct {
	Start time.Time // first day of the month
	End   time.Time // last day of the month
}

// PreviousMonth returns the period for the calendar month before now.
// Payroll reports always cover the month that just closed.
func PreviousMonth(now time.Time) Period {
	year, month, _ := now.Date()
	return Period{
		Start: time.Date(year, month-1, 1, 0, 0, 0, 0, now.Location()),
		End:   time.Date(year, month, 0, 0, 0, 0, 0, now.Location()),
	}
}

// MonthName returns the English month name used in report titles.
func (p Period) MonthName() string {
	return p.Start.Month().String()
}

// Year returns the calendar year of the reported month.
func (p Period) Year() int {
	return p.Start.Year()
}

// Key is the YYYY-MM identifier of the period, used for cache keys and the
// archive table.
func (p Period) Key() string {
	return p.Start.Format("2006-01")
}

// Title is the first line of the monthly report.
func (p Period) Title() string {
	return fmt.Sprintf("Monthly report for %s %d", p.MonthName(), p.Year())
}

// ProjectTitle is the first line of the project-wise report.
func (p Period) ProjectTitle() string {
	return fmt.Sprintf("Project wise report for %s %d", p.MonthName(), p.Year())
}

// ReportFileName is the suggested file name for the monthly report.
func (p Period) ReportFileName() string {
	return fmt.Sprintf("reports/report-%s.csv", p.End.Format("2006-01"))
}

// ProjectReportFileName is the suggested file name for the project report.
func (p Period) ProjectReportFileName() string {
	return fmt.Sprintf("reports/project-wise-report-%d-%02d.csv", p.Year(), int(p.Start.Month()))
}
