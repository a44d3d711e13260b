package core

import (
	"time"
)

const (
	// UnnamedTask labels entries recorded without a description.
	UnnamedTask = "Unnamed Task"

	// UnknownProject replaces a project name when the lookup fails.
	UnknownProject = "Unknown Project"
)

type (
	// User is a workspace member as reported by the time-tracking source.
	User struct {
		ID    string
		Name  string
		Email string
	}

	// Interval is one recorded span of tracked work.
	Interval struct {
		Start time.Time
		End   time.Time
	}

	// TimeEntry is the slice of a tracked entry the reports consume; any
	// other fields the source sends are ignored.
	TimeEntry struct {
		Interval    Interval
		Description string
		ProjectID   string
	}

	// Project is a named grouping of entries in the time-tracking source.
	Project struct {
		ID   string
		Name string
	}
)

// Hours returns the entry duration in hours. An interval whose end precedes
// its start yields a negative value; the value is carried through unvalidated.
func (e TimeEntry) Hours() float64 {
	return e.Interval.End.Sub(e.Interval.Start).Hours()
}
