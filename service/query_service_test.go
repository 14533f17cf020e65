package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag-backend/models"
)

func TestQuery_DefaultsToHybrid(t *testing.T) {
	searcher := &fakeSearcher{byType: map[models.SearchType][]models.SearchHit{
		models.SearchTypeHybrid: {
			{ID: "1", Title: "Employment Agreement", Summary: "Non-compete for 12 months", Citations: []string{"123 F.3d 456", "5 U.S. 137"}},
			{ID: "2", Citations: []string{"5 U.S. 137"}},
		},
	}}
	gen := &fakeGenerator{text: "Non-competes are enforceable when reasonable."}
	svc := NewQueryService(QueryWithSearcher(searcher), QueryWithGenerator(gen))

	res, err := svc.Query(context.Background(), QueryRequest{Question: "Are non-competes enforceable?"})
	require.NoError(t, err)

	assert.Equal(t, models.SearchTypeHybrid, res.SearchType)
	assert.Equal(t, "Non-competes are enforceable when reasonable.", res.Answer)
	assert.Equal(t, []string{"123 F.3d 456", "5 U.S. 137"}, res.Citations)
	assert.Len(t, res.SourceDocuments, 2)

	require.Len(t, searcher.requests, 1)
	req := searcher.requests[0]
	assert.Equal(t, 5, req.Limit)
	assert.InDelta(t, 0.5, req.Alpha, 1e-6)
	assert.Nil(t, req.Condition)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "answer to this question: Are non-competes enforceable?")
	assert.Contains(t, gen.prompts[0], "Document 1: Employment Agreement\nContent: Non-compete for 12 months")
	assert.Contains(t, gen.prompts[0], "Document 2: Unknown Document")
}

func TestQuery_Degradation(t *testing.T) {
	hits := map[models.SearchType][]models.SearchHit{models.SearchTypeKeyword: {{ID: "1"}}}

	t.Run("generation fails", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		metrics := NewMetrics(reg)
		svc := NewQueryService(
			QueryWithSearcher(&fakeSearcher{byType: hits}),
			QueryWithGenerator(&fakeGenerator{err: errors.New("quota")}),
			QueryWithMetrics(metrics),
		)
		res, err := svc.Query(context.Background(), QueryRequest{Question: "q", SearchType: models.SearchTypeKeyword})
		require.NoError(t, err)
		assert.Equal(t, FallbackAnswer, res.Answer)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.fallbacks.WithLabelValues("query")))
	})

	t.Run("generation empty", func(t *testing.T) {
		svc := NewQueryService(QueryWithSearcher(&fakeSearcher{byType: hits}), QueryWithGenerator(&fakeGenerator{text: "  "}))
		res, err := svc.Query(context.Background(), QueryRequest{Question: "q", SearchType: models.SearchTypeKeyword})
		require.NoError(t, err)
		assert.Equal(t, FallbackAnswer, res.Answer)
	})

	t.Run("search fails", func(t *testing.T) {
		gen := &fakeGenerator{text: "unused"}
		svc := NewQueryService(QueryWithSearcher(&fakeSearcher{searchErr: errors.New("timeout")}), QueryWithGenerator(gen))
		res, err := svc.Query(context.Background(), QueryRequest{Question: "q"})
		require.NoError(t, err)
		assert.Empty(t, res.SourceDocuments)
		assert.Equal(t, NoDocumentsAnswer, res.Answer)
		assert.Empty(t, gen.prompts)
	})
}

func TestQuery_Validation(t *testing.T) {
	svc := NewQueryService(QueryWithSearcher(&fakeSearcher{}))
	ctx := context.Background()

	_, err := svc.Query(ctx, QueryRequest{Question: "  "})
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = svc.Query(ctx, QueryRequest{Question: "q", SearchType: "fuzzy"})
	assert.ErrorIs(t, err, ErrInvalidSearchType)

	alpha := float32(1.5)
	_, err = svc.Query(ctx, QueryRequest{Question: "q", Alpha: &alpha})
	assert.ErrorIs(t, err, ErrInvalidAlpha)
}

func TestBuildCondition(t *testing.T) {
	assert.Nil(t, BuildCondition(nil))
	assert.Nil(t, BuildCondition(&models.SearchFilters{}))

	single := BuildCondition(&models.SearchFilters{Court: "District"})
	assert.Equal(t, &models.Condition{Path: []string{"court"}, Operator: models.OperatorLike, Text: []string{"*District*"}}, single)

	after := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cond := BuildCondition(&models.SearchFilters{
		DocumentType:         "contract",
		PracticeAreas:        []string{"corporate", "employment"},
		DateAfter:            &after,
		DateBefore:           &before,
		Parties:              []string{"ABC Corp"},
		ConfidentialityLevel: "standard",
	})
	require.NotNil(t, cond)
	assert.Equal(t, models.OperatorAnd, cond.Operator)
	require.Len(t, cond.Operands, 6)
	assert.Equal(t, []string{"documentType"}, cond.Operands[0].Path)
	assert.Equal(t, models.OperatorContainsAny, cond.Operands[1].Operator)
	assert.Equal(t, models.OperatorGreaterThan, cond.Operands[2].Operator)
	assert.Equal(t, &after, cond.Operands[2].Date)
	assert.Equal(t, models.OperatorLessThan, cond.Operands[3].Operator)
	assert.Equal(t, []string{"ABC Corp"}, cond.Operands[4].Text)
	assert.Equal(t, []string{"confidentialityLevel"}, cond.Operands[5].Path)
}

func TestAdvancedSearch(t *testing.T) {
	searcher := &fakeSearcher{byType: map[models.SearchType][]models.SearchHit{models.SearchTypeSemantic: {{ID: "x"}}}}
	svc := NewQueryService(QueryWithSearcher(searcher))

	hits, err := svc.AdvancedSearch(context.Background(), AdvancedSearchRequest{
		Query:      "contract terms",
		SearchType: models.SearchTypeSemantic,
		Filters:    models.SearchFilters{DocumentType: "contract"},
	})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, 10, searcher.requests[0].Limit)
	assert.NotNil(t, searcher.requests[0].Condition)

	failing := NewQueryService(QueryWithSearcher(&fakeSearcher{searchErr: errors.New("down")}))
	_, err = failing.AdvancedSearch(context.Background(), AdvancedSearchRequest{Query: "x"})
	assert.ErrorContains(t, err, "down")
}
