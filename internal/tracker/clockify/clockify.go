package clockify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"orario/internal/core"
	"orario/internal/tracker"
)

const defaultBaseURL = "https://api.clockify.me/api/v1"

// timeFormat is the instant format the Clockify v1 API expects in query
// parameters.
const timeFormat = "2006-01-02T15:04:05Z"

// Client is a read-only Clockify v1 API client. It consumes only the fields
// the reports need and ignores everything else the API sends.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ tracker.Source = (*Client)(nil)

// NewClient returns a client authenticating with the given API key.
// An empty baseURL selects the public Clockify endpoint; tests point it at a
// local server.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing Clockify API key")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type timeEntryDTO struct {
	Description  string `json:"description"`
	ProjectID    string `json:"projectId"`
	TimeInterval struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"timeInterval"`
}

type projectDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListUsers implements tracker.UserSource.
func (c *Client) ListUsers(ctx context.Context, workspaceID string) ([]core.User, error) {
	var dtos []userDTO
	path := fmt.Sprintf("/workspaces/%s/users", url.PathEscape(workspaceID))
	if err := c.get(ctx, path, nil, &dtos); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]core.User, 0, len(dtos))
	for _, d := range dtos {
		users = append(users, core.User{ID: d.ID, Name: d.Name, Email: d.Email})
	}
	return users, nil
}

// ListTimeEntries implements tracker.EntrySource.
func (c *Client) ListTimeEntries(ctx context.Context, workspaceID, userID string, start, end time.Time) ([]core.TimeEntry, error) {
	var dtos []timeEntryDTO
	path := fmt.Sprintf("/workspaces/%s/user/%s/time-entries",
		url.PathEscape(workspaceID), url.PathEscape(userID))
	query := url.Values{
		"start": {start.UTC().Format(timeFormat)},
		"end":   {end.UTC().Format(timeFormat)},
	}
	if err := c.get(ctx, path, query, &dtos); err != nil {
		return nil, fmt.Errorf("list time entries for user %s: %w", userID, err)
	}

	entries := make([]core.TimeEntry, 0, len(dtos))
	for _, d := range dtos {
		entries = append(entries, core.TimeEntry{
			Interval:    core.Interval{Start: d.TimeInterval.Start, End: d.TimeInterval.End},
			Description: d.Description,
			ProjectID:   d.ProjectID,
		})
	}
	return entries, nil
}

// GetProject implements tracker.ProjectSource.
func (c *Client) GetProject(ctx context.Context, workspaceID, projectID string) (core.Project, error) {
	var dto projectDTO
	path := fmt.Sprintf("/workspaces/%s/projects/%s",
		url.PathEscape(workspaceID), url.PathEscape(projectID))
	if err := c.get(ctx, path, nil, &dto); err != nil {
		return core.Project{}, fmt.Errorf("get project %s: %w", projectID, err)
	}
	return core.Project{ID: dto.ID, Name: dto.Name}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}
