package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legalrag-backend/models"
	"legalrag-backend/repository"

	"go.uber.org/zap"
)

const (
	defaultQueryLimit    = 5
	defaultAdvancedLimit = 10
)

var (
	ErrEmptyQuestion     = errors.New("question must not be empty")
	ErrInvalidSearchType = errors.New("search type must be semantic, keyword or hybrid")
	ErrInvalidAlpha      = errors.New("alpha must be between 0 and 1")
)

// QueryService answers questions and runs research over stored documents.
// Failed searches degrade to empty results and failed generations to fixed
// fallback text; both are logged here and nowhere else.
type QueryService struct {
	searcher  Searcher
	generator Generator
	logger    *zap.Logger
	metrics   *Metrics
}

// QueryServiceOption is a functional option for QueryService
type QueryServiceOption func(*QueryService)

// QueryWithSearcher sets the searcher
func QueryWithSearcher(searcher Searcher) QueryServiceOption {
	return func(s *QueryService) {
		s.searcher = searcher
	}
}

// QueryWithGenerator sets the answer generator
func QueryWithGenerator(generator Generator) QueryServiceOption {
	return func(s *QueryService) {
		s.generator = generator
	}
}

// QueryWithLogger sets the logger
func QueryWithLogger(logger *zap.Logger) QueryServiceOption {
	return func(s *QueryService) {
		s.logger = logger
	}
}

// QueryWithMetrics sets the metrics sink
func QueryWithMetrics(m *Metrics) QueryServiceOption {
	return func(s *QueryService) {
		s.metrics = m
	}
}

// NewQueryService creates a new query service
func NewQueryService(opts ...QueryServiceOption) *QueryService {
	s := &QueryService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryRequest represents a question to answer
type QueryRequest struct {
	Question   string
	SearchType models.SearchType
	Filters    *models.SearchFilters
	Limit      int
	Alpha      *float32
}

// QueryResult represents a generated answer with its sources
type QueryResult struct {
	Question        string                `json:"question"`
	Answer          string                `json:"answer"`
	SourceDocuments []models.SearchHit    `json:"source_documents"`
	Citations       []string              `json:"citations"`
	SearchType      models.SearchType     `json:"search_type"`
	FiltersApplied  *models.SearchFilters `json:"filters_applied"`
}

// Query retrieves documents for the question and asks the generator for an
// answer grounded on the top three.
func (s *QueryService) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrEmptyQuestion
	}
	searchReq, err := buildSearchRequest(req.Question, req.SearchType, req.Alpha, req.Filters, req.Limit, defaultQueryLimit)
	if err != nil {
		return nil, err
	}
	s.metrics.query("query", string(searchReq.Type))

	hits := s.search(ctx, "query", searchReq)

	var citations []string
	for _, hit := range hits {
		for _, c := range hit.Citations {
			citations = appendUnique(citations, c)
		}
	}

	return &QueryResult{
		Question:        req.Question,
		Answer:          s.answer(ctx, req.Question, hits),
		SourceDocuments: hits,
		Citations:       nonNilStrings(citations),
		SearchType:      searchReq.Type,
		FiltersApplied:  req.Filters,
	}, nil
}

// AdvancedSearchRequest is the criteria object of an advanced search
type AdvancedSearchRequest struct {
	Query      string
	Filters    models.SearchFilters
	SearchType models.SearchType
	Alpha      *float32
	Limit      int
}

// AdvancedSearch runs one filtered search. Unlike Query, a failed search is
// returned to the caller.
func (s *QueryService) AdvancedSearch(ctx context.Context, req AdvancedSearchRequest) ([]models.SearchHit, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuestion
	}
	searchReq, err := buildSearchRequest(req.Query, req.SearchType, req.Alpha, &req.Filters, req.Limit, defaultAdvancedLimit)
	if err != nil {
		return nil, err
	}
	s.metrics.query("advanced_search", string(searchReq.Type))

	hits, err := s.searcher.Search(ctx, searchReq)
	if err != nil {
		return nil, fmt.Errorf("failed to run advanced search: %w", err)
	}
	return hits, nil
}

// SearchSections runs a section-level search, returning errors to the caller
func (s *QueryService) SearchSections(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuestion
	}
	s.metrics.query("sections", string(models.SearchTypeHybrid))
	return s.searcher.SearchSections(ctx, query, limit)
}

func buildSearchRequest(query string, searchType models.SearchType, alpha *float32, filters *models.SearchFilters, limit, defaultLimit int) (repository.SearchRequest, error) {
	if searchType == "" {
		searchType = models.SearchTypeHybrid
	}
	if !searchType.Valid() {
		return repository.SearchRequest{}, fmt.Errorf("%w: %q", ErrInvalidSearchType, searchType)
	}

	a := float32(repository.DefaultHybridAlpha)
	if alpha != nil {
		if *alpha < 0 || *alpha > 1 {
			return repository.SearchRequest{}, ErrInvalidAlpha
		}
		a = *alpha
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	return repository.SearchRequest{
		Query:     query,
		Type:      searchType,
		Alpha:     a,
		Condition: BuildCondition(filters),
		Limit:     limit,
	}, nil
}

// BuildCondition translates filters into a condition tree. A single criterion
// is returned as is; several are conjoined under And. Nil means no filter.
func BuildCondition(f *models.SearchFilters) *models.Condition {
	if f.IsEmpty() {
		return nil
	}

	var conds []*models.Condition
	if f.DocumentType != "" {
		conds = append(conds, textCondition("documentType", models.OperatorEqual, f.DocumentType))
	}
	if len(f.PracticeAreas) > 0 {
		conds = append(conds, textCondition("practiceArea", models.OperatorContainsAny, f.PracticeAreas...))
	}
	if f.Court != "" {
		conds = append(conds, textCondition("court", models.OperatorLike, "*"+f.Court+"*"))
	}
	if f.DateAfter != nil {
		conds = append(conds, &models.Condition{Path: []string{"date"}, Operator: models.OperatorGreaterThan, Date: f.DateAfter})
	}
	if f.DateBefore != nil {
		conds = append(conds, &models.Condition{Path: []string{"date"}, Operator: models.OperatorLessThan, Date: f.DateBefore})
	}
	if len(f.Parties) > 0 {
		conds = append(conds, textCondition("parties", models.OperatorContainsAny, f.Parties...))
	}
	if f.ConfidentialityLevel != "" {
		conds = append(conds, textCondition("confidentialityLevel", models.OperatorEqual, f.ConfidentialityLevel))
	}

	if len(conds) == 1 {
		return conds[0]
	}
	return &models.Condition{Operator: models.OperatorAnd, Operands: conds}
}

func textCondition(path string, op models.Operator, values ...string) *models.Condition {
	return &models.Condition{Path: []string{path}, Operator: op, Text: values}
}

// search runs req and degrades a failure to no hits
func (s *QueryService) search(ctx context.Context, operation string, req repository.SearchRequest) []models.SearchHit {
	hits, err := s.searcher.Search(ctx, req)
	if err != nil {
		s.metrics.searchFailed(operation)
		s.logger.Warn("Search failed, continuing with no results",
			zap.String("operation", operation),
			zap.String("search_type", string(req.Type)),
			zap.Error(err),
		)
		return []models.SearchHit{}
	}
	return hits
}

// generate returns the generated text, or fallback when the generator is
// missing, fails or returns nothing
func (s *QueryService) generate(ctx context.Context, operation, prompt, fallback string) string {
	if s.generator == nil {
		s.metrics.fallback(operation)
		return fallback
	}
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		s.metrics.fallback(operation)
		s.logger.Warn("Generation failed, using fallback text", zap.String("operation", operation), zap.Error(err))
		return fallback
	}
	return text
}

func (s *QueryService) answer(ctx context.Context, question string, hits []models.SearchHit) string {
	if len(hits) == 0 {
		return NoDocumentsAnswer
	}
	return s.generate(ctx, "query", answerPrompt(question, hits), FallbackAnswer)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
