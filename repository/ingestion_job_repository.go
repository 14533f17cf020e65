package repository

import (
	"context"
	"errors"
	"time"

	"legalrag-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrJobNotFound = errors.New("ingestion job not found")

// IngestionJobRepository handles database operations for ingestion jobs
type IngestionJobRepository struct {
	db *pgxpool.Pool
}

// NewIngestionJobRepository creates a new ingestion job repository
func NewIngestionJobRepository(db *pgxpool.Pool) *IngestionJobRepository {
	return &IngestionJobRepository{db: db}
}

// Create inserts a pending job
func (r *IngestionJobRepository) Create(ctx context.Context, job *models.IngestionJob) error {
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	query := `
		INSERT INTO ingestion_jobs (
			source, recursive, status, outcomes
		) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		job.Source,
		job.Recursive,
		job.Status,
		job.Outcomes,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

// GetByID retrieves an ingestion job by ID
func (r *IngestionJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.IngestionJob, error) {
	job := &models.IngestionJob{}
	query := `
		SELECT id, source, recursive, status, outcomes, processed, failed,
			error_message, created_at, updated_at, completed_at
		FROM ingestion_jobs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.Source,
		&job.Recursive,
		&job.Status,
		&job.Outcomes,
		&job.Processed,
		&job.Failed,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	if job.Outcomes == nil {
		job.Outcomes = models.FileOutcomes{}
	}
	return job, nil
}

// Start marks a job as in progress
func (r *IngestionJobRepository) Start(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE ingestion_jobs SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusInProgress)
	return err
}

// Complete stores the per-file outcomes and marks the job completed
func (r *IngestionJobRepository) Complete(ctx context.Context, id uuid.UUID, outcomes models.FileOutcomes) error {
	now := time.Now()
	failed := outcomes.Failed()
	query := `
		UPDATE ingestion_jobs SET
			status = $2,
			outcomes = $3,
			processed = $4,
			failed = $5,
			completed_at = $6,
			updated_at = $6
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusCompleted, outcomes, len(outcomes)-failed, failed, now)
	return err
}

// Fail marks a job as failed
func (r *IngestionJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE ingestion_jobs SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, errorMessage)
	return err
}
