package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"legalrag-backend/models"
	"legalrag-backend/repository"

	"go.uber.org/zap"
)

const (
	researchSearchLimit   = 5
	researchSectionLimit  = 3
	researchMaxDocuments  = 10
	caseSearchLimit       = 100
	citationDocumentLimit = 20
	citationDetailLimit   = 20
)

var ErrEmptyTopic = errors.New("topic must not be empty")

// LegalResearchRequest represents a research topic
type LegalResearchRequest struct {
	Topic        string
	PracticeArea string
}

// LegalResearchResult gathers documents and sections on a topic with a summary
type LegalResearchResult struct {
	Topic           string             `json:"topic"`
	PracticeArea    string             `json:"practice_area,omitempty"`
	Documents       []models.SearchHit `json:"documents"`
	Sections        []models.SearchHit `json:"sections"`
	ResearchSummary string             `json:"research_summary"`
}

// LegalResearch fans out a semantic and a keyword search plus a section
// search, merges the documents by ID keeping the first occurrence, orders
// them by score and summarizes the top three.
func (s *QueryService) LegalResearch(ctx context.Context, req LegalResearchRequest) (*LegalResearchResult, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, ErrEmptyTopic
	}
	s.metrics.query("research", "fanout")

	var cond *models.Condition
	if req.PracticeArea != "" {
		cond = BuildCondition(&models.SearchFilters{PracticeAreas: []string{req.PracticeArea}})
	}

	semantic := s.search(ctx, "research", repository.SearchRequest{
		Query: req.Topic, Type: models.SearchTypeSemantic, Condition: cond, Limit: researchSearchLimit,
	})
	keyword := s.search(ctx, "research", repository.SearchRequest{
		Query: req.Topic, Type: models.SearchTypeKeyword, Condition: cond, Limit: researchSearchLimit,
	})

	sections, err := s.searcher.SearchSections(ctx, req.Topic, researchSectionLimit)
	if err != nil {
		s.metrics.searchFailed("research")
		s.logger.Warn("Section search failed, continuing with no sections", zap.Error(err))
		sections = []models.SearchHit{}
	}

	docs := mergeHits(semantic, keyword)
	if len(docs) > researchMaxDocuments {
		docs = docs[:researchMaxDocuments]
	}

	return &LegalResearchResult{
		Topic:           req.Topic,
		PracticeArea:    req.PracticeArea,
		Documents:       docs,
		Sections:        sections,
		ResearchSummary: s.researchSummary(ctx, req.Topic, docs[:min(len(docs), researchContextDocs)]),
	}, nil
}

// mergeHits concatenates the lists, drops repeated or empty IDs keeping the
// first occurrence and sorts by descending score. Missing scores count as 0.
func mergeHits(lists ...[]models.SearchHit) []models.SearchHit {
	seen := map[string]bool{}
	merged := []models.SearchHit{}
	for _, list := range lists {
		for _, hit := range list {
			if hit.ID == "" || seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			merged = append(merged, hit)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ScoreValue() > merged[j].ScoreValue()
	})
	return merged
}

func (s *QueryService) researchSummary(ctx context.Context, topic string, top []models.SearchHit) string {
	if len(top) == 0 {
		return NoDocumentsResearch
	}
	return s.generate(ctx, "research", researchPrompt(topic, top), researchFallback(len(top), topic))
}

// CaseAnalysisResult aggregates the documents filed under one case number.
// Error is set, and the other fields left empty, when nothing matches.
type CaseAnalysisResult struct {
	CaseNumber     string             `json:"case_number"`
	Error          string             `json:"error,omitempty"`
	TotalDocuments int                `json:"total_documents"`
	DocumentTypes  map[string]int     `json:"document_types,omitempty"`
	Parties        []string           `json:"parties,omitempty"`
	Courts         []string           `json:"courts,omitempty"`
	PracticeAreas  []string           `json:"practice_areas,omitempty"`
	Documents      []models.SearchHit `json:"documents,omitempty"`
	CaseSummary    string             `json:"case_summary,omitempty"`
}

// Found reports whether any document matched
func (r *CaseAnalysisResult) Found() bool {
	return r.Error == ""
}

// CaseAnalysis collects every document with exactly caseNumber and counts
// their types alongside the parties, courts and practice areas involved.
func (s *QueryService) CaseAnalysis(ctx context.Context, caseNumber string) (*CaseAnalysisResult, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	s.metrics.query("case_analysis", "filter")

	hits, err := s.searcher.SearchByCaseNumber(ctx, caseNumber, caseSearchLimit)
	if err != nil {
		s.metrics.searchFailed("case_analysis")
		s.logger.Warn("Case search failed, continuing with no results", zap.String("case_number", caseNumber), zap.Error(err))
		hits = nil
	}
	if len(hits) == 0 {
		return &CaseAnalysisResult{CaseNumber: caseNumber, Error: NoDocumentsCase}, nil
	}

	result := &CaseAnalysisResult{
		CaseNumber:     caseNumber,
		TotalDocuments: len(hits),
		DocumentTypes:  map[string]int{},
		Parties:        []string{},
		Courts:         []string{},
		PracticeAreas:  []string{},
		Documents:      hits,
		CaseSummary:    caseSummary(hits),
	}
	for _, hit := range hits {
		result.DocumentTypes[documentTypeOrUnknown(hit.DocumentType)]++
		for _, p := range hit.Parties {
			result.Parties = appendUnique(result.Parties, p)
		}
		if hit.Court != "" {
			result.Courts = appendUnique(result.Courts, hit.Court)
		}
		for _, a := range hit.PracticeArea {
			result.PracticeAreas = appendUnique(result.PracticeAreas, a)
		}
	}
	return result, nil
}

// CitationUsage counts where a citation appears
type CitationUsage struct {
	TotalReferences int            `json:"total_references"`
	DocumentTypes   map[string]int `json:"document_types"`
	PracticeAreas   map[string]int `json:"practice_areas"`
}

// CitationAnalysisResult reports a citation's records and the documents citing it
type CitationAnalysisResult struct {
	Citation        string             `json:"citation"`
	CitationDetails []models.Citation  `json:"citation_details"`
	CitingDocuments []models.SearchHit `json:"citing_documents"`
	UsageAnalysis   CitationUsage      `json:"usage_analysis"`
}

// CitationAnalysis looks up citation records matching citation and runs a
// keyword search for documents that mention it.
func (s *QueryService) CitationAnalysis(ctx context.Context, citation string) (*CitationAnalysisResult, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	if strings.TrimSpace(citation) == "" {
		return nil, ErrEmptyQuestion
	}
	s.metrics.query("citation_analysis", string(models.SearchTypeKeyword))

	details, err := s.searcher.SearchCitations(ctx, citation, citationDetailLimit)
	if err != nil {
		s.metrics.searchFailed("citation_analysis")
		s.logger.Warn("Citation search failed, continuing with no records", zap.Error(err))
		details = []models.Citation{}
	}

	docs := s.search(ctx, "citation_analysis", repository.SearchRequest{
		Query: citation, Type: models.SearchTypeKeyword, Limit: citationDocumentLimit,
	})

	usage := CitationUsage{
		TotalReferences: len(docs),
		DocumentTypes:   map[string]int{},
		PracticeAreas:   map[string]int{},
	}
	for _, doc := range docs {
		usage.DocumentTypes[documentTypeOrUnknown(doc.DocumentType)]++
		for _, area := range doc.PracticeArea {
			usage.PracticeAreas[area]++
		}
	}

	return &CitationAnalysisResult{
		Citation:        citation,
		CitationDetails: details,
		CitingDocuments: docs,
		UsageAnalysis:   usage,
	}, nil
}

// PartyDocuments returns documents naming any of parties. Unlike the analyses
// above, a failed search is returned to the caller.
func (s *QueryService) PartyDocuments(ctx context.Context, parties []string, limit int) ([]models.SearchHit, error) {
	if s.searcher == nil {
		return nil, errors.New("searcher not set")
	}
	var names []string
	for _, p := range parties {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		return nil, ErrEmptyQuestion
	}
	if limit <= 0 {
		limit = defaultAdvancedLimit
	}
	s.metrics.query("parties", "filter")

	hits, err := s.searcher.SearchByParties(ctx, names, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search by parties: %w", err)
	}
	return hits, nil
}
