package tracker

import (
	"context"
	"time"

	"orario/internal/core"
)

// Ports for the time-tracking source. The report engine only ever reads.
type (
	// UserSource lists the members of a workspace.
	UserSource interface {
		ListUsers(ctx context.Context, workspaceID string) ([]core.User, error)
	}

	// EntrySource lists one user's time entries for a date range.
	EntrySource interface {
		ListTimeEntries(ctx context.Context, workspaceID, userID string, start, end time.Time) ([]core.TimeEntry, error)
	}

	// ProjectSource resolves a project by id.
	ProjectSource interface {
		GetProject(ctx context.Context, workspaceID, projectID string) (core.Project, error)
	}

	// Source bundles the three read ports; both adapters implement it.
	Source interface {
		UserSource
		EntrySource
		ProjectSource
	}
)
