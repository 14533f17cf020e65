package repository

import (
	"context"

	"legalrag-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceFileRepository records where the original of each document is archived
type SourceFileRepository struct {
	db *pgxpool.Pool
}

// NewSourceFileRepository creates a new source file repository
func NewSourceFileRepository(db *pgxpool.Pool) *SourceFileRepository {
	return &SourceFileRepository{db: db}
}

// Create creates a new source file record
func (r *SourceFileRepository) Create(ctx context.Context, file *models.SourceFile) error {
	query := `
		INSERT INTO source_files (
			document_id, filename, mime_type, size, storage_path
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		file.DocumentID,
		file.Filename,
		file.MimeType,
		file.Size,
		file.StoragePath,
	).Scan(&file.ID, &file.CreatedAt)
}

// ListByDocumentID retrieves the archived files of a document, newest first
func (r *SourceFileRepository) ListByDocumentID(ctx context.Context, documentID string) ([]*models.SourceFile, error) {
	query := `
		SELECT id, document_id, filename, mime_type, size, storage_path, created_at
		FROM source_files
		WHERE document_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.SourceFile
	for rows.Next() {
		file := &models.SourceFile{}
		err := rows.Scan(
			&file.ID,
			&file.DocumentID,
			&file.Filename,
			&file.MimeType,
			&file.Size,
			&file.StoragePath,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// DeleteByDocumentID removes every record for a document
func (r *SourceFileRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM source_files WHERE document_id = $1`, documentID)
	return err
}
