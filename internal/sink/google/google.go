package google

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"orario/internal/sink"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
)

// spreadsheetMimeType makes Drive convert the uploaded CSV into a native
// Google spreadsheet.
const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Client uploads report files to a Google Drive folder.
type Client struct {
	svc      *gdrive.Service
	folderID string
}

var _ sink.Uploader = (*Client)(nil)

// NewFromEnv creates a Drive client using Service Account credentials.
// Required: GOOGLE_DRIVE_FOLDER_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	folderID := strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID"))
	if folderID == "" {
		return nil, errors.New("missing GOOGLE_DRIVE_FOLDER_ID")
	}

	svc, err := newDriveService(ctx)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &Client{svc: svc, folderID: folderID}, nil
}

func newDriveService(ctx context.Context) (*gdrive.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return service, nil
}

// Upload creates the file in the configured folder as a converted
// spreadsheet and returns the Drive file id. The name may carry a local
// directory prefix (reports/...); only the base name is used remotely.
func (c *Client) Upload(ctx context.Context, name string, content []byte) (string, error) {
	if c.svc == nil {
		return "", errors.New("drive service not initialized")
	}

	meta := &gdrive.File{
		Name:     path.Base(name),
		MimeType: spreadsheetMimeType,
		Parents:  []string{c.folderID},
	}

	file, err := c.svc.Files.Create(meta).
		Media(bytes.NewReader(content), googleapi.ContentType("text/csv")).
		Fields("id", "name").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s to drive: %w", name, err)
	}

	slog.InfoContext(ctx, "Report uploaded to Google Drive",
		"name", file.Name,
		"file_id", file.Id,
		"folder_id", c.folderID,
		"size", len(content))

	return file.Id, nil
}
