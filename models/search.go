package models

import (
	"time"
)

// SearchType selects the retrieval strategy delegated to the vector store
type SearchType string

const (
	SearchTypeSemantic SearchType = "semantic"
	SearchTypeKeyword  SearchType = "keyword"
	SearchTypeHybrid   SearchType = "hybrid"
)

// Valid reports whether t is a known strategy
func (t SearchType) Valid() bool {
	switch t {
	case SearchTypeSemantic, SearchTypeKeyword, SearchTypeHybrid:
		return true
	}
	return false
}

// SearchFilters is the typed criteria object translated into store conditions
type SearchFilters struct {
	DocumentType         string     `json:"document_type,omitempty"`
	PracticeAreas        []string   `json:"practice_area,omitempty"`
	Court                string     `json:"court,omitempty"`
	DateAfter            *time.Time `json:"date_after,omitempty"`
	DateBefore           *time.Time `json:"date_before,omitempty"`
	Parties              []string   `json:"parties,omitempty"`
	ConfidentialityLevel string     `json:"confidentiality,omitempty"`
}

// IsEmpty reports whether no criterion is set
func (f *SearchFilters) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.DocumentType == "" &&
		len(f.PracticeAreas) == 0 &&
		f.Court == "" &&
		f.DateAfter == nil &&
		f.DateBefore == nil &&
		len(f.Parties) == 0 &&
		f.ConfidentialityLevel == ""
}

// Operator is a filter comparison understood by the store
type Operator string

const (
	OperatorEqual       Operator = "Equal"
	OperatorLike        Operator = "Like"
	OperatorContainsAny Operator = "ContainsAny"
	OperatorGreaterThan Operator = "GreaterThan"
	OperatorLessThan    Operator = "LessThan"
	OperatorAnd         Operator = "And"
)

// Condition is a node in a store filter tree. Leaf nodes carry a path and
// exactly one of the value fields; And nodes carry operands.
type Condition struct {
	Path     []string     `json:"path,omitempty"`
	Operator Operator     `json:"operator"`
	Text     []string     `json:"valueText,omitempty"`
	Date     *time.Time   `json:"valueDate,omitempty"`
	Operands []*Condition `json:"operands,omitempty"`
}

// SearchHit is one retrieved record with its relevance metadata
type SearchHit struct {
	ID                   string     `json:"id"`
	Score                *float64   `json:"score,omitempty"`
	Title                string     `json:"title"`
	Content              string     `json:"content,omitempty"`
	Summary              string     `json:"summary,omitempty"`
	DocumentType         string     `json:"documentType,omitempty"`
	CaseNumber           string     `json:"caseNumber,omitempty"`
	Court                string     `json:"court,omitempty"`
	Parties              []string   `json:"parties,omitempty"`
	PracticeArea         []string   `json:"practiceArea,omitempty"`
	Citations            []string   `json:"citations,omitempty"`
	Date                 string     `json:"date,omitempty"`
	ConfidentialityLevel string     `json:"confidentialityLevel,omitempty"`
	SectionTitle         string     `json:"sectionTitle,omitempty"`
	PageNumber           int        `json:"pageNumber,omitempty"`
	Parent               *HitParent `json:"parentDocument,omitempty"`
}

// HitParent describes the parent document of a section hit
type HitParent struct {
	Title        string `json:"title"`
	CaseNumber   string `json:"caseNumber"`
	DocumentType string `json:"documentType"`
}

// ScoreValue returns the score, treating a missing score as 0
func (h SearchHit) ScoreValue() float64 {
	if h.Score == nil {
		return 0
	}
	return *h.Score
}
