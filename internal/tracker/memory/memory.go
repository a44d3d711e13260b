package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"orario/internal/core"
	"orario/internal/tracker"
)

// Store is an in-memory workspace used in tests and for local development
// without Clockify credentials.
type Store struct {
	mu          sync.Mutex
	users       []core.User
	entries     map[string][]core.TimeEntry
	projects    map[string]core.Project
	entryErrors map[string]error
	usersError  error
}

var _ tracker.Source = (*Store)(nil)

func New() *Store {
	return &Store{
		entries:     make(map[string][]core.TimeEntry),
		projects:    make(map[string]core.Project),
		entryErrors: make(map[string]error),
	}
}

// AddUser registers a user with optional entries, preserving insertion order.
func (s *Store) AddUser(u core.User, entries ...core.TimeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
	s.entries[u.ID] = append(s.entries[u.ID], entries...)
}

// AddProject registers a resolvable project.
func (s *Store) AddProject(p core.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
}

// FailEntriesFor makes ListTimeEntries return err for the given user.
func (s *Store) FailEntriesFor(userID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entryErrors[userID] = err
}

// FailUsers makes ListUsers return err.
func (s *Store) FailUsers(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersError = err
}

// ListUsers implements tracker.UserSource.
func (s *Store) ListUsers(_ context.Context, _ string) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usersError != nil {
		return nil, s.usersError
	}
	return append([]core.User(nil), s.users...), nil
}

// ListTimeEntries implements tracker.EntrySource. Entries outside [start, end]
// are filtered out the way the real API scopes by date range.
func (s *Store) ListTimeEntries(_ context.Context, _ string, userID string, start, end time.Time) ([]core.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.entryErrors[userID]; err != nil {
		return nil, err
	}
	var out []core.TimeEntry
	for _, e := range s.entries[userID] {
		if e.Interval.Start.Before(start) || e.Interval.Start.After(end.Add(24*time.Hour)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// GetProject implements tracker.ProjectSource.
func (s *Store) GetProject(_ context.Context, _ string, projectID string) (core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return core.Project{}, fmt.Errorf("project %s not found", projectID)
	}
	return p, nil
}
