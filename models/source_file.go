package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceFile is the archived original of an ingested document
type SourceFile struct {
	ID          uuid.UUID `json:"id"`
	DocumentID  string    `json:"document_id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
