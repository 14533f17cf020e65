package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"legalrag-backend/models"

	"github.com/google/uuid"
)

var (
	ErrNoArchivedSource = errors.New("no archived source file for document")
	ErrJobsDisabled     = errors.New("ingestion job ledger not configured")
)

// GetDocument returns a stored document by ID
func (s *IngestionService) GetDocument(ctx context.Context, documentID string) (*models.LegalDocument, error) {
	if s.store == nil {
		return nil, errors.New("document store not set")
	}
	return s.store.GetDocument(ctx, documentID)
}

// UpdateDocument applies a partial update. A confidentiality level outside the
// configured vocabulary is rejected before anything is written.
func (s *IngestionService) UpdateDocument(ctx context.Context, documentID string, update models.DocumentUpdate) (*models.LegalDocument, error) {
	if s.store == nil {
		return nil, errors.New("document store not set")
	}
	if update.ConfidentialityLevel != nil && !slices.Contains(s.cfg.ConfidentialityLevels, string(*update.ConfidentialityLevel)) {
		return nil, fmt.Errorf("%w: confidentialityLevel %q", ErrInvalidMetadata, *update.ConfidentialityLevel)
	}
	if err := s.store.UpdateDocument(ctx, documentID, update); err != nil {
		return nil, err
	}
	return s.store.GetDocument(ctx, documentID)
}

// GetJob returns a recorded directory ingestion run
func (s *IngestionService) GetJob(ctx context.Context, id uuid.UUID) (*models.IngestionJob, error) {
	if s.jobs == nil {
		return nil, ErrJobsDisabled
	}
	return s.jobs.GetByID(ctx, id)
}

// ReprocessArchived re-ingests a document from its archived original. The
// original is copied to a scratch directory under its own filename so the
// title and format are derived as on first ingestion.
func (s *IngestionService) ReprocessArchived(ctx context.Context, documentID string, metadata map[string]interface{}) (*ReprocessDocumentResult, error) {
	if s.archive == nil || s.sourceFiles == nil {
		return nil, ErrNoArchivedSource
	}
	files, err := s.sourceFiles.ListByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoArchivedSource, documentID)
	}
	src := files[0]

	dir, err := os.MkdirTemp("", "legalrag-reprocess-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(src.Filename))
	if err := s.restoreArchived(ctx, src.StoragePath, path); err != nil {
		return nil, err
	}

	return s.ReprocessDocument(ctx, ReprocessDocumentRequest{
		DocumentID: documentID,
		Path:       path,
		Metadata:   metadata,
		SourceName: filepath.Base(src.Filename),
	})
}

func (s *IngestionService) restoreArchived(ctx context.Context, storagePath, dest string) error {
	r, err := s.archive.Get(ctx, storagePath)
	if err != nil {
		return fmt.Errorf("failed to fetch archived file: %w", err)
	}
	defer r.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to copy archived file: %w", err)
	}
	return f.Close()
}
