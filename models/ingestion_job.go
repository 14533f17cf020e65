package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IngestionJobStatus represents the status of an ingestion run
type IngestionJobStatus string

const (
	JobStatusPending    IngestionJobStatus = "pending"
	JobStatusInProgress IngestionJobStatus = "in_progress"
	JobStatusCompleted  IngestionJobStatus = "completed"
	JobStatusFailed     IngestionJobStatus = "failed"
)

// FileOutcome records what happened to one file of an ingestion run
type FileOutcome struct {
	Path       string `json:"path"`
	DocumentID string `json:"document_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// FileOutcomes is stored as JSONB
type FileOutcomes []FileOutcome

// Value implements driver.Valuer for JSONB
func (f FileOutcomes) Value() (driver.Value, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *FileOutcomes) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*f = FileOutcomes{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		*f = FileOutcomes{}
		return nil
	}

	if len(raw) == 0 {
		*f = FileOutcomes{}
		return nil
	}

	return json.Unmarshal(raw, f)
}

// Failed counts outcomes carrying an error
func (f FileOutcomes) Failed() int {
	n := 0
	for _, o := range f {
		if o.Error != "" {
			n++
		}
	}
	return n
}

// IngestionJob represents one file or directory ingestion run
type IngestionJob struct {
	ID           uuid.UUID          `json:"id"`
	Source       string             `json:"source"`
	Recursive    bool               `json:"recursive"`
	Status       IngestionJobStatus `json:"status"`
	Outcomes     FileOutcomes       `json:"outcomes"`
	Processed    int                `json:"processed"`
	Failed       int                `json:"failed"`
	ErrorMessage *string            `json:"error_message,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}
