package service

import (
	"context"

	"legalrag-backend/models"
	"legalrag-backend/repository"

	"github.com/google/uuid"
)

// DocumentStore persists documents and their sections and citations
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *models.LegalDocument) (string, error)
	CreateSection(ctx context.Context, section *models.DocumentSection) (string, error)
	CreateCitation(ctx context.Context, citation *models.Citation) (string, error)
	GetDocument(ctx context.Context, id string) (*models.LegalDocument, error)
	UpdateDocument(ctx context.Context, id string, update models.DocumentUpdate) error
	DeleteDocument(ctx context.Context, id string) error
}

// Searcher retrieves documents, sections and citations
type Searcher interface {
	Search(ctx context.Context, req repository.SearchRequest) ([]models.SearchHit, error)
	SearchSections(ctx context.Context, query string, limit int) ([]models.SearchHit, error)
	SearchByCaseNumber(ctx context.Context, caseNumber string, limit int) ([]models.SearchHit, error)
	SearchByParties(ctx context.Context, parties []string, limit int) ([]models.SearchHit, error)
	SearchCitations(ctx context.Context, citation string, limit int) ([]models.Citation, error)
}

// Generator turns a composed prompt into free text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// JobLedger records directory ingestion runs
type JobLedger interface {
	Create(ctx context.Context, job *models.IngestionJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.IngestionJob, error)
	Start(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID, outcomes models.FileOutcomes) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// SourceFileLedger records where archived originals live
type SourceFileLedger interface {
	Create(ctx context.Context, file *models.SourceFile) error
	ListByDocumentID(ctx context.Context, documentID string) ([]*models.SourceFile, error)
	DeleteByDocumentID(ctx context.Context, documentID string) error
}
