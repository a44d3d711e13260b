package clockify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("test-key", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("", ""); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestListUsers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("missing API key header")
		}
		if r.URL.Path != "/workspaces/ws1/users" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"u1","name":"Ada","email":"ada@example.com","memberships":[],"status":"ACTIVE"},
			{"id":"u2","name":"Bob","email":"bob@example.com"}
		]`))
	})

	users, err := c.ListUsers(context.Background(), "ws1")
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	if users[0].ID != "u1" || users[0].Name != "Ada" || users[0].Email != "ada@example.com" {
		t.Fatalf("users[0] = %+v", users[0])
	}
}

func TestListTimeEntries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workspaces/ws1/user/u1/time-entries" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("start") != "2025-02-01T00:00:00Z" {
			t.Errorf("start = %s", q.Get("start"))
		}
		if q.Get("end") != "2025-02-28T00:00:00Z" {
			t.Errorf("end = %s", q.Get("end"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"description":"Design","projectId":"p1","billable":true,
			 "timeInterval":{"start":"2025-02-03T09:00:00Z","end":"2025-02-03T10:30:00Z","duration":"PT1H30M"}},
			{"description":"","projectId":"p2",
			 "timeInterval":{"start":"2025-02-04T09:00:00Z","end":null}}
		]`))
	})

	start := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	entries, err := c.ListTimeEntries(context.Background(), "ws1", "u1", start, end)
	if err != nil {
		t.Fatalf("ListTimeEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Hours() != 1.5 {
		t.Fatalf("entries[0].Hours() = %v, want 1.5", entries[0].Hours())
	}
	if entries[0].ProjectID != "p1" || entries[0].Description != "Design" {
		t.Fatalf("entries[0] = %+v", entries[0])
	}
	// A running entry comes back with a null end; its interval end is zero.
	if !entries[1].Interval.End.IsZero() {
		t.Fatalf("entries[1].Interval.End = %v, want zero", entries[1].Interval.End)
	}
}

func TestGetProject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workspaces/ws1/projects/p1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"p1","name":"Alpha","clientId":"c1","archived":false}`))
	})

	p, err := c.GetProject(context.Background(), "ws1", "p1")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if p.ID != "p1" || p.Name != "Alpha" {
		t.Fatalf("project = %+v", p)
	}
}

func TestGetErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"api key is invalid"}`, http.StatusUnauthorized)
	})

	_, err := c.ListUsers(context.Background(), "ws1")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("error should carry status code, got: %v", err)
	}
}
