package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"legalrag-backend/models"
	"legalrag-backend/repository"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu          sync.Mutex
	docs        map[string]*models.LegalDocument
	sections    []*models.DocumentSection
	citations   []*models.Citation
	deleted     []string
	createCalls int
	failCreate  error
	failSection error
	failDelete  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]*models.LegalDocument{}}
}

func (f *fakeStore) CreateDocument(ctx context.Context, doc *models.LegalDocument) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate != nil {
		return "", f.failCreate
	}
	doc.ID = fmt.Sprintf("doc-%d", f.createCalls)
	f.docs[doc.ID] = doc
	return doc.ID, nil
}

func (f *fakeStore) CreateSection(ctx context.Context, s *models.DocumentSection) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSection != nil {
		return "", f.failSection
	}
	f.sections = append(f.sections, s)
	return fmt.Sprintf("sec-%d", len(f.sections)), nil
}

func (f *fakeStore) CreateCitation(ctx context.Context, c *models.Citation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.citations = append(f.citations, c)
	return fmt.Sprintf("cit-%d", len(f.citations)), nil
}

func (f *fakeStore) GetDocument(ctx context.Context, id string) (*models.LegalDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	return doc, nil
}

func (f *fakeStore) UpdateDocument(ctx context.Context, id string, u models.DocumentUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	if u.Title != nil {
		doc.Title = *u.Title
	}
	return nil
}

func (f *fakeStore) DeleteDocument(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return f.failDelete
	}
	if _, ok := f.docs[id]; !ok {
		return repository.ErrDocumentNotFound
	}
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSearcher struct {
	byType     map[models.SearchType][]models.SearchHit
	sections   []models.SearchHit
	byCase     map[string][]models.SearchHit
	citations  []models.Citation
	searchErr  error
	requests   []repository.SearchRequest
	caseLimits []int

	partyQueries [][]string
}

func (f *fakeSearcher) Search(ctx context.Context, req repository.SearchRequest) ([]models.SearchHit, error) {
	f.requests = append(f.requests, req)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.byType[req.Type], nil
}

func (f *fakeSearcher) SearchSections(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.sections, nil
}

func (f *fakeSearcher) SearchByCaseNumber(ctx context.Context, caseNumber string, limit int) ([]models.SearchHit, error) {
	f.caseLimits = append(f.caseLimits, limit)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.byCase[caseNumber], nil
}

func (f *fakeSearcher) SearchByParties(ctx context.Context, parties []string, limit int) ([]models.SearchHit, error) {
	f.partyQueries = append(f.partyQueries, parties)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.byType[models.SearchTypeKeyword], nil
}

func (f *fakeSearcher) SearchCitations(ctx context.Context, citation string, limit int) ([]models.Citation, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.citations, nil
}

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

type fakeJobs struct {
	created   *models.IngestionJob
	started   bool
	completed models.FileOutcomes
}

func (f *fakeJobs) Create(ctx context.Context, job *models.IngestionJob) error {
	job.ID = uuid.New()
	f.created = job
	return nil
}

func (f *fakeJobs) GetByID(ctx context.Context, id uuid.UUID) (*models.IngestionJob, error) {
	if f.created == nil || f.created.ID != id {
		return nil, repository.ErrJobNotFound
	}
	return f.created, nil
}

func (f *fakeJobs) Start(ctx context.Context, id uuid.UUID) error {
	f.started = true
	return nil
}

func (f *fakeJobs) Complete(ctx context.Context, id uuid.UUID, outcomes models.FileOutcomes) error {
	f.completed = outcomes
	return nil
}

func (f *fakeJobs) Fail(ctx context.Context, id uuid.UUID, msg string) error {
	return errors.New(msg)
}

type fakeSourceFiles struct {
	records []*models.SourceFile
}

func (f *fakeSourceFiles) Create(ctx context.Context, file *models.SourceFile) error {
	file.ID = uuid.New()
	f.records = append(f.records, file)
	return nil
}

func (f *fakeSourceFiles) ListByDocumentID(ctx context.Context, documentID string) ([]*models.SourceFile, error) {
	var out []*models.SourceFile
	for _, r := range f.records {
		if r.DocumentID == documentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSourceFiles) DeleteByDocumentID(ctx context.Context, documentID string) error {
	kept := f.records[:0]
	for _, r := range f.records {
		if r.DocumentID != documentID {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func hit(id string, score float64) models.SearchHit {
	return models.SearchHit{ID: id, Title: "Doc " + id, Summary: "summary of " + id, Score: &score}
}
