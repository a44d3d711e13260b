package amqp

import (
	"encoding/json"
	"time"
)

// ReportUploadMessage asks the worker to upload one archived report run.
// It carries only the run id; the worker fetches the content from the
// archive so the queue never holds report data.
type ReportUploadMessage struct {
	RunID     int64     `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportUploadMessage creates an upload message for the given run.
func NewReportUploadMessage(runID int64) *ReportUploadMessage {
	return &ReportUploadMessage{
		RunID:     runID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportUploadMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportUploadMessageFromJSON creates a message from JSON bytes
func ReportUploadMessageFromJSON(data []byte) (*ReportUploadMessage, error) {
	var msg ReportUploadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
