package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"legalrag-backend/config"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("archived file not found")

// Archive keeps the original bytes of ingested documents
type Archive interface {
	// Put stores data under a path derived from fileID and filename and returns that path
	Put(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Get opens an archived file by storage path
	Get(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an archived file; a missing file is not an error
	Delete(ctx context.Context, storagePath string) error
}

// Backend names accepted by New
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendNone  = "none"
)

// New builds the archive selected by cfg. The "none" backend returns a nil
// Archive, which callers treat as archiving disabled.
func New(ctx context.Context, cfg config.StorageConfig) (Archive, error) {
	switch cfg.Type {
	case BackendLocal, "":
		return NewLocalArchive(cfg.LocalPath)
	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for the s3 archive")
		}
		return NewS3Archive(ctx, cfg)
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// storageKey fans files out by the first two characters of their ID
func storageKey(fileID uuid.UUID, filename string) string {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(base)

	id := fileID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, base, ext)
}

// ContentType maps a document extension to its MIME type
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
