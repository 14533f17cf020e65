package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legalrag-backend/models"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	wvmodels "github.com/weaviate/weaviate/entities/models"
)

// DefaultHybridAlpha weights semantic and lexical scoring equally
const DefaultHybridAlpha = 0.5

var (
	ErrEmptyQuery        = errors.New("query must not be empty")
	ErrUnknownSearchType = errors.New("unknown search type")
	ErrEmptyGeneration   = errors.New("generation returned no text")
)

// SearchRequest describes one retrieval against the document class
type SearchRequest struct {
	Query     string
	Type      models.SearchType
	Alpha     float32
	Condition *models.Condition
	Limit     int
}

// SearchRepository runs retrieval and generation through Weaviate
type SearchRepository struct {
	client *weaviate.Client
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(client *weaviate.Client) *SearchRepository {
	return &SearchRepository{client: client}
}

var documentFields = []graphql.Field{
	{Name: "title"},
	{Name: "content"},
	{Name: "summary"},
	{Name: "documentType"},
	{Name: "caseNumber"},
	{Name: "court"},
	{Name: "parties"},
	{Name: "practiceArea"},
	{Name: "citations"},
	{Name: "date"},
	{Name: "confidentialityLevel"},
	{Name: "_additional", Fields: []graphql.Field{{Name: "id"}, {Name: "score"}}},
}

var sectionFields = []graphql.Field{
	{Name: "content"},
	{Name: "sectionTitle"},
	{Name: "pageNumber"},
	{Name: "parentDocument", Fields: []graphql.Field{
		{Name: "... on " + DocumentClass, Fields: []graphql.Field{
			{Name: "title"},
			{Name: "caseNumber"},
			{Name: "documentType"},
		}},
	}},
	{Name: "_additional", Fields: []graphql.Field{{Name: "id"}, {Name: "score"}}},
}

var citationFields = []graphql.Field{
	{Name: "citation"},
	{Name: "caseName"},
	{Name: "court"},
	{Name: "year"},
	{Name: "holding"},
	{Name: "_additional", Fields: []graphql.Field{{Name: "id"}}},
}

// Search retrieves documents with the requested strategy
func (r *SearchRepository) Search(ctx context.Context, req SearchRequest) ([]models.SearchHit, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	get := r.client.GraphQL().Get().
		WithClassName(DocumentClass).
		WithFields(documentFields...).
		WithLimit(limitOrDefault(req.Limit))

	switch req.Type {
	case models.SearchTypeSemantic:
		get = get.WithNearText((&graphql.NearTextArgumentBuilder{}).WithConcepts([]string{req.Query}))
	case models.SearchTypeKeyword:
		get = get.WithBM25((&graphql.BM25ArgumentBuilder{}).WithQuery(req.Query))
	case models.SearchTypeHybrid, "":
		alpha := req.Alpha
		if alpha < 0 || alpha > 1 {
			alpha = DefaultHybridAlpha
		}
		get = get.WithHybrid((&graphql.HybridArgumentBuilder{}).WithQuery(req.Query).WithAlpha(alpha))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSearchType, req.Type)
	}

	if where := WhereFromCondition(req.Condition); where != nil {
		get = get.WithWhere(where)
	}

	resp, err := get.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s search: %w", req.Type, err)
	}
	return parseHits(resp, DocumentClass)
}

// SearchSections runs a hybrid search over document sections
func (r *SearchRepository) SearchSections(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	resp, err := r.client.GraphQL().Get().
		WithClassName(SectionClass).
		WithFields(sectionFields...).
		WithHybrid((&graphql.HybridArgumentBuilder{}).WithQuery(query).WithAlpha(DefaultHybridAlpha)).
		WithLimit(limitOrDefault(limit)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search sections: %w", err)
	}
	return parseHits(resp, SectionClass)
}

// SearchByCaseNumber returns documents whose case number equals caseNumber
func (r *SearchRepository) SearchByCaseNumber(ctx context.Context, caseNumber string, limit int) ([]models.SearchHit, error) {
	return r.filterOnly(ctx, &models.Condition{
		Path:     []string{"caseNumber"},
		Operator: models.OperatorEqual,
		Text:     []string{caseNumber},
	}, limit)
}

// SearchByParties returns documents naming any of parties
func (r *SearchRepository) SearchByParties(ctx context.Context, parties []string, limit int) ([]models.SearchHit, error) {
	return r.filterOnly(ctx, &models.Condition{
		Path:     []string{"parties"},
		Operator: models.OperatorContainsAny,
		Text:     parties,
	}, limit)
}

// SearchCitations returns citation records whose text contains citation
func (r *SearchRepository) SearchCitations(ctx context.Context, citation string, limit int) ([]models.Citation, error) {
	where := WhereFromCondition(&models.Condition{
		Path:     []string{"citation"},
		Operator: models.OperatorLike,
		Text:     []string{"*" + citation + "*"},
	})

	resp, err := r.client.GraphQL().Get().
		WithClassName(CitationClass).
		WithFields(citationFields...).
		WithWhere(where).
		WithLimit(limitOrDefault(limit)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search citations: %w", err)
	}

	rows, err := classRows(resp, CitationClass)
	if err != nil {
		return nil, err
	}
	citations := make([]models.Citation, 0, len(rows))
	for _, row := range rows {
		c := models.Citation{
			ID:           stringProp(mapProp(row, "_additional"), "id"),
			CitationText: stringProp(row, "citation"),
		}
		if v := stringProp(row, "caseName"); v != "" {
			c.CaseName = &v
		}
		if v := stringProp(row, "court"); v != "" {
			c.Court = &v
		}
		if v := intProp(row, "year"); v != 0 {
			c.Year = &v
		}
		if v := stringProp(row, "holding"); v != "" {
			c.Holding = &v
		}
		citations = append(citations, c)
	}
	return citations, nil
}

// Generate runs a single-result generative search with prompt and returns the text
func (r *SearchRepository) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.GraphQL().Get().
		WithClassName(DocumentClass).
		WithFields(graphql.Field{Name: "title"}).
		WithGenerativeSearch(graphql.NewGenerativeSearch().SingleResult(prompt)).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to run generative search: %w", err)
	}
	return parseGenerated(resp)
}

func (r *SearchRepository) filterOnly(ctx context.Context, cond *models.Condition, limit int) ([]models.SearchHit, error) {
	resp, err := r.client.GraphQL().Get().
		WithClassName(DocumentClass).
		WithFields(documentFields...).
		WithWhere(WhereFromCondition(cond)).
		WithLimit(limitOrDefault(limit)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run filtered search: %w", err)
	}
	return parseHits(resp, DocumentClass)
}

// WhereFromCondition converts a condition tree into the client's filter builder
func WhereFromCondition(cond *models.Condition) *filters.WhereBuilder {
	if cond == nil {
		return nil
	}

	where := filters.Where().WithOperator(whereOperator(cond.Operator))
	if len(cond.Operands) > 0 {
		operands := make([]*filters.WhereBuilder, 0, len(cond.Operands))
		for _, op := range cond.Operands {
			if w := WhereFromCondition(op); w != nil {
				operands = append(operands, w)
			}
		}
		return where.WithOperands(operands)
	}

	where = where.WithPath(cond.Path)
	switch {
	case cond.Date != nil:
		where = where.WithValueDate(*cond.Date)
	default:
		where = where.WithValueText(cond.Text...)
	}
	return where
}

var whereOperators = map[models.Operator]filters.WhereOperator{
	models.OperatorEqual:       filters.Equal,
	models.OperatorLike:        filters.Like,
	models.OperatorContainsAny: filters.ContainsAny,
	models.OperatorGreaterThan: filters.GreaterThan,
	models.OperatorLessThan:    filters.LessThan,
	models.OperatorAnd:         filters.And,
}

func whereOperator(op models.Operator) filters.WhereOperator {
	if wo, ok := whereOperators[op]; ok {
		return wo
	}
	return filters.Equal
}

func classRows(resp *wvmodels.GraphQLResponse, class string) ([]map[string]interface{}, error) {
	if resp == nil {
		return nil, errors.New("empty response from vector store")
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			if e != nil {
				msgs = append(msgs, e.Message)
			}
		}
		return nil, fmt.Errorf("vector store query failed: %s", strings.Join(msgs, "; "))
	}

	get, _ := resp.Data["Get"].(map[string]interface{})
	raw, _ := get[class].([]interface{})
	rows := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if row, ok := item.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func parseHits(resp *wvmodels.GraphQLResponse, class string) ([]models.SearchHit, error) {
	rows, err := classRows(resp, class)
	if err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, len(rows))
	for _, row := range rows {
		additional := mapProp(row, "_additional")
		hit := models.SearchHit{
			ID:                   stringProp(additional, "id"),
			Title:                stringProp(row, "title"),
			Content:              stringProp(row, "content"),
			Summary:              stringProp(row, "summary"),
			DocumentType:         stringProp(row, "documentType"),
			CaseNumber:           stringProp(row, "caseNumber"),
			Court:                stringProp(row, "court"),
			Parties:              stringsProp(row, "parties"),
			PracticeArea:         stringsProp(row, "practiceArea"),
			Citations:            stringsProp(row, "citations"),
			Date:                 stringProp(row, "date"),
			ConfidentialityLevel: stringProp(row, "confidentialityLevel"),
			SectionTitle:         stringProp(row, "sectionTitle"),
			PageNumber:           intProp(row, "pageNumber"),
		}
		if score, ok := floatProp(additional, "score"); ok {
			hit.Score = &score
		}
		if parents, ok := row["parentDocument"].([]interface{}); ok && len(parents) > 0 {
			if p, ok := parents[0].(map[string]interface{}); ok {
				hit.Parent = &models.HitParent{
					Title:        stringProp(p, "title"),
					CaseNumber:   stringProp(p, "caseNumber"),
					DocumentType: stringProp(p, "documentType"),
				}
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func parseGenerated(resp *wvmodels.GraphQLResponse) (string, error) {
	rows, err := classRows(resp, DocumentClass)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrEmptyGeneration
	}

	generate := mapProp(mapProp(rows[0], "_additional"), "generate")
	if msg := stringProp(generate, "error"); msg != "" {
		return "", fmt.Errorf("generative module error: %s", msg)
	}
	text := stringProp(generate, "singleResult")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}
