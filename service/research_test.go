package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag-backend/models"
)

func TestLegalResearch_MergesAndSorts(t *testing.T) {
	searcher := &fakeSearcher{
		byType: map[models.SearchType][]models.SearchHit{
			models.SearchTypeSemantic: {hit("a", 0.9), hit("b", 0.4), hit("c", 0.7)},
			models.SearchTypeKeyword:  {hit("c", 0.1), hit("d", 0.8), {ID: "e", Title: "Unscored"}},
		},
		sections: []models.SearchHit{{ID: "s1", SectionTitle: "II. COVENANTS"}},
	}
	gen := &fakeGenerator{text: "Courts scrutinize non-compete scope."}
	svc := NewQueryService(QueryWithSearcher(searcher), QueryWithGenerator(gen))

	res, err := svc.LegalResearch(context.Background(), LegalResearchRequest{Topic: "non-compete clauses", PracticeArea: "employment"})
	require.NoError(t, err)

	require.Len(t, res.Documents, 5)
	ids := make([]string, 0, len(res.Documents))
	for _, d := range res.Documents {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "d", "c", "b", "e"}, ids)
	assert.InDelta(t, 0.7, res.Documents[2].ScoreValue(), 1e-9)

	assert.Len(t, res.Sections, 1)
	assert.Equal(t, "Courts scrutinize non-compete scope.", res.ResearchSummary)

	require.Len(t, searcher.requests, 2)
	for _, req := range searcher.requests {
		assert.Equal(t, 5, req.Limit)
		require.NotNil(t, req.Condition)
		assert.Equal(t, []string{"employment"}, req.Condition.Text)
	}

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, `related to "non-compete clauses"`)
	assert.Contains(t, prompt, "Research Topic: non-compete clauses")
	assert.Contains(t, prompt, "Document 3: Doc c")
	assert.NotContains(t, prompt, "Document 4:")
}

func TestLegalResearch_TruncatesSummariesAndCapsDocuments(t *testing.T) {
	var semantic []models.SearchHit
	for i := 0; i < 12; i++ {
		h := hit(string(rune('a'+i)), float64(i))
		h.Summary = strings.Repeat("x", 300)
		semantic = append(semantic, h)
	}
	gen := &fakeGenerator{text: "ok"}
	svc := NewQueryService(
		QueryWithSearcher(&fakeSearcher{byType: map[models.SearchType][]models.SearchHit{models.SearchTypeSemantic: semantic}}),
		QueryWithGenerator(gen),
	)

	res, err := svc.LegalResearch(context.Background(), LegalResearchRequest{Topic: "t"})
	require.NoError(t, err)
	assert.Len(t, res.Documents, 10)
	assert.Equal(t, "l", res.Documents[0].ID)
	assert.Contains(t, gen.prompts[0], "Summary: "+strings.Repeat("x", 200)+"\n")
	assert.NotContains(t, gen.prompts[0], strings.Repeat("x", 201))
}

func TestLegalResearch_Fallbacks(t *testing.T) {
	hits := map[models.SearchType][]models.SearchHit{models.SearchTypeSemantic: {hit("a", 1), hit("b", 0.5)}}

	svc := NewQueryService(QueryWithSearcher(&fakeSearcher{byType: hits}), QueryWithGenerator(&fakeGenerator{err: errors.New("boom")}))
	res, err := svc.LegalResearch(context.Background(), LegalResearchRequest{Topic: "mergers"})
	require.NoError(t, err)
	assert.Equal(t,
		"Based on 2 documents, research indicates relevant information about mergers. Manual review of source documents recommended for detailed analysis.",
		res.ResearchSummary)

	empty := NewQueryService(QueryWithSearcher(&fakeSearcher{searchErr: errors.New("down")}))
	res, err = empty.LegalResearch(context.Background(), LegalResearchRequest{Topic: "mergers"})
	require.NoError(t, err)
	assert.Empty(t, res.Documents)
	assert.Empty(t, res.Sections)
	assert.Equal(t, NoDocumentsResearch, res.ResearchSummary)

	_, err = empty.LegalResearch(context.Background(), LegalResearchRequest{Topic: " "})
	assert.ErrorIs(t, err, ErrEmptyTopic)
}

func TestCaseAnalysis(t *testing.T) {
	searcher := &fakeSearcher{byCase: map[string][]models.SearchHit{
		"21-cv-1234": {
			{ID: "1", DocumentType: "motion", Parties: []string{"John Smith", "ABC Corporation"}, Court: "United States District Court", PracticeArea: []string{"litigation"}},
			{ID: "2", DocumentType: "order", Parties: []string{"John Smith"}, Court: "United States District Court", PracticeArea: []string{"litigation", "employment"}},
			{ID: "3", DocumentType: "motion"},
		},
	}}
	svc := NewQueryService(QueryWithSearcher(searcher))

	res, err := svc.CaseAnalysis(context.Background(), "21-cv-1234")
	require.NoError(t, err)
	assert.True(t, res.Found())
	assert.Equal(t, 3, res.TotalDocuments)
	assert.Equal(t, map[string]int{"motion": 2, "order": 1}, res.DocumentTypes)
	assert.Equal(t, []string{"John Smith", "ABC Corporation"}, res.Parties)
	assert.Equal(t, []string{"United States District Court"}, res.Courts)
	assert.Equal(t, []string{"litigation", "employment"}, res.PracticeAreas)
	assert.Equal(t, "Case involves 3 documents of types: motion, order. Parties involved: John Smith, ABC Corporation", res.CaseSummary)
}

func TestCaseAnalysis_NotFound(t *testing.T) {
	svc := NewQueryService(QueryWithSearcher(&fakeSearcher{}))

	res, err := svc.CaseAnalysis(context.Background(), "UNKNOWN-CASE")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Found())
	assert.Equal(t, "UNKNOWN-CASE", res.CaseNumber)
	assert.Equal(t, "No documents found for this case number", res.Error)
	assert.Zero(t, res.TotalDocuments)
}

func TestCitationAnalysis(t *testing.T) {
	searcher := &fakeSearcher{
		citations: []models.Citation{{ID: "c1", CitationText: "123 F.3d 456"}},
		byType: map[models.SearchType][]models.SearchHit{
			models.SearchTypeKeyword: {
				{ID: "1", DocumentType: "brief", PracticeArea: []string{"litigation"}},
				{ID: "2", DocumentType: "brief", PracticeArea: []string{"litigation", "tax"}},
				{ID: "3"},
			},
		},
	}
	svc := NewQueryService(QueryWithSearcher(searcher))

	res, err := svc.CitationAnalysis(context.Background(), "123 F.3d 456")
	require.NoError(t, err)
	assert.Len(t, res.CitationDetails, 1)
	assert.Equal(t, 3, res.UsageAnalysis.TotalReferences)
	assert.Equal(t, map[string]int{"brief": 2, "unknown": 1}, res.UsageAnalysis.DocumentTypes)
	assert.Equal(t, map[string]int{"litigation": 2, "tax": 1}, res.UsageAnalysis.PracticeAreas)
	assert.Equal(t, 20, searcher.requests[0].Limit)
	assert.Equal(t, models.SearchTypeKeyword, searcher.requests[0].Type)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestPartyDocuments(t *testing.T) {
	searcher := &fakeSearcher{byType: map[models.SearchType][]models.SearchHit{models.SearchTypeKeyword: {{ID: "1"}}}}
	svc := NewQueryService(QueryWithSearcher(searcher))

	hits, err := svc.PartyDocuments(context.Background(), []string{" John Smith ", ""}, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, [][]string{{"John Smith"}}, searcher.partyQueries)

	_, err = svc.PartyDocuments(context.Background(), []string{" "}, 0)
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	failing := NewQueryService(QueryWithSearcher(&fakeSearcher{searchErr: errors.New("down")}))
	_, err = failing.PartyDocuments(context.Background(), []string{"ABC Corporation"}, 5)
	assert.ErrorContains(t, err, "down")
}
