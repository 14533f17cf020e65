package handlers

import (
	"context"

	"legalrag-backend/models"
	"legalrag-backend/repository"
	"legalrag-backend/service"

	"github.com/google/uuid"
)

// DocumentService is the ingestion side used by DocumentHandler
type DocumentService interface {
	ProcessDocument(ctx context.Context, req service.ProcessDocumentRequest) (*service.ProcessDocumentResult, error)
	GetDocument(ctx context.Context, documentID string) (*models.LegalDocument, error)
	UpdateDocument(ctx context.Context, documentID string, update models.DocumentUpdate) (*models.LegalDocument, error)
	DeleteDocument(ctx context.Context, documentID string) error
	ReprocessArchived(ctx context.Context, documentID string, metadata map[string]interface{}) (*service.ReprocessDocumentResult, error)
	GetJob(ctx context.Context, id uuid.UUID) (*models.IngestionJob, error)
}

// QueryService is the retrieval side used by QueryHandler
type QueryService interface {
	Query(ctx context.Context, req service.QueryRequest) (*service.QueryResult, error)
	AdvancedSearch(ctx context.Context, req service.AdvancedSearchRequest) ([]models.SearchHit, error)
	SearchSections(ctx context.Context, query string, limit int) ([]models.SearchHit, error)
	LegalResearch(ctx context.Context, req service.LegalResearchRequest) (*service.LegalResearchResult, error)
	CaseAnalysis(ctx context.Context, caseNumber string) (*service.CaseAnalysisResult, error)
	CitationAnalysis(ctx context.Context, citation string) (*service.CitationAnalysisResult, error)
	PartyDocuments(ctx context.Context, parties []string, limit int) ([]models.SearchHit, error)
}

// SchemaAdmin manages the store schema and backups
type SchemaAdmin interface {
	SchemaInfo(ctx context.Context) ([]repository.ClassInfo, error)
	EnsureSchema(ctx context.Context) ([]string, error)
	Backup(ctx context.Context, backupID string) (*repository.BackupResult, error)
	Restore(ctx context.Context, backupID string) (*repository.BackupResult, error)
}

// APIUserStore resolves API keys to users
type APIUserStore interface {
	GetByKeyPrefix(ctx context.Context, prefix string) (*models.APIUser, error)
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
}
