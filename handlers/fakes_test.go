package handlers

import (
	"context"
	"os"

	"legalrag-backend/models"
	"legalrag-backend/repository"
	"legalrag-backend/service"

	"github.com/google/uuid"
)

type fakeDocuments struct {
	processed  []service.ProcessDocumentRequest
	uploaded   string
	processErr error
	docs       map[string]*models.LegalDocument
	updateErr  error
	jobs       map[uuid.UUID]*models.IngestionJob
}

func (f *fakeDocuments) ProcessDocument(ctx context.Context, req service.ProcessDocumentRequest) (*service.ProcessDocumentResult, error) {
	f.processed = append(f.processed, req)
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}
	f.uploaded = string(data)
	if f.processErr != nil {
		return nil, f.processErr
	}
	return &service.ProcessDocumentResult{DocumentID: "doc-1", Title: "brief", Sections: 2}, nil
}

func (f *fakeDocuments) GetDocument(ctx context.Context, id string) (*models.LegalDocument, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	return doc, nil
}

func (f *fakeDocuments) UpdateDocument(ctx context.Context, id string, update models.DocumentUpdate) (*models.LegalDocument, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	if update.Title != nil {
		doc.Title = *update.Title
	}
	return doc, nil
}

func (f *fakeDocuments) DeleteDocument(ctx context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return repository.ErrDocumentNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocuments) ReprocessArchived(ctx context.Context, id string, metadata map[string]interface{}) (*service.ReprocessDocumentResult, error) {
	if _, ok := f.docs[id]; !ok {
		return nil, service.ErrNoArchivedSource
	}
	return &service.ReprocessDocumentResult{OldDocumentID: id, OldDeleted: true, Document: &service.ProcessDocumentResult{DocumentID: "doc-2"}}, nil
}

func (f *fakeDocuments) GetJob(ctx context.Context, id uuid.UUID) (*models.IngestionJob, error) {
	if f.jobs == nil {
		return nil, service.ErrJobsDisabled
	}
	job, ok := f.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return job, nil
}

type fakeQueries struct {
	queryReq  service.QueryRequest
	queryErr  error
	sections  int
	caseFound bool
	parties   []string
}

func (f *fakeQueries) Query(ctx context.Context, req service.QueryRequest) (*service.QueryResult, error) {
	f.queryReq = req
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &service.QueryResult{Question: req.Question, Answer: "answer", SearchType: models.SearchTypeHybrid}, nil
}

func (f *fakeQueries) AdvancedSearch(ctx context.Context, req service.AdvancedSearchRequest) ([]models.SearchHit, error) {
	return []models.SearchHit{{ID: "1"}}, nil
}

func (f *fakeQueries) SearchSections(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	f.sections = limit
	return []models.SearchHit{}, nil
}

func (f *fakeQueries) LegalResearch(ctx context.Context, req service.LegalResearchRequest) (*service.LegalResearchResult, error) {
	return &service.LegalResearchResult{Topic: req.Topic, ResearchSummary: "summary"}, nil
}

func (f *fakeQueries) CaseAnalysis(ctx context.Context, caseNumber string) (*service.CaseAnalysisResult, error) {
	if !f.caseFound {
		return &service.CaseAnalysisResult{CaseNumber: caseNumber, Error: service.NoDocumentsCase}, nil
	}
	return &service.CaseAnalysisResult{CaseNumber: caseNumber, TotalDocuments: 1}, nil
}

func (f *fakeQueries) CitationAnalysis(ctx context.Context, citation string) (*service.CitationAnalysisResult, error) {
	return &service.CitationAnalysisResult{Citation: citation}, nil
}

func (f *fakeQueries) PartyDocuments(ctx context.Context, parties []string, limit int) ([]models.SearchHit, error) {
	f.parties = parties
	return []models.SearchHit{{ID: "1"}}, nil
}

type fakeAdmin struct {
	backupID string
}

func (f *fakeAdmin) SchemaInfo(ctx context.Context) ([]repository.ClassInfo, error) {
	return []repository.ClassInfo{{Name: repository.DocumentClass, Vectorizer: "text2vec-openai", Properties: 15}}, nil
}

func (f *fakeAdmin) EnsureSchema(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeAdmin) Backup(ctx context.Context, id string) (*repository.BackupResult, error) {
	f.backupID = id
	return &repository.BackupResult{ID: id, Status: "SUCCESS"}, nil
}

func (f *fakeAdmin) Restore(ctx context.Context, id string) (*repository.BackupResult, error) {
	return &repository.BackupResult{ID: id, Status: "SUCCESS"}, nil
}

type fakeUsers struct {
	users   map[string]*models.APIUser
	touched []uuid.UUID
}

func (f *fakeUsers) GetByKeyPrefix(ctx context.Context, prefix string) (*models.APIUser, error) {
	user, ok := f.users[prefix]
	if !ok {
		return nil, repository.ErrAPIUserNotFound
	}
	return user, nil
}

func (f *fakeUsers) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	f.touched = append(f.touched, id)
	return nil
}
