package models

import (
	"time"
)

// DocumentType is the classified category of a legal document
type DocumentType string

const (
	DocumentTypeContract       DocumentType = "contract"
	DocumentTypeMotion         DocumentType = "motion"
	DocumentTypeBrief          DocumentType = "brief"
	DocumentTypePleading       DocumentType = "pleading"
	DocumentTypeDiscovery      DocumentType = "discovery"
	DocumentTypeOrder          DocumentType = "order"
	DocumentTypeCorrespondence DocumentType = "correspondence"
	DocumentTypeOpinion        DocumentType = "opinion"
	DocumentTypeStatute        DocumentType = "statute"
	DocumentTypeFiling         DocumentType = "filing"
	DocumentTypeOther          DocumentType = "other"
)

// ConfidentialityLevel is the access-sensitivity label of a document
type ConfidentialityLevel string

const (
	ConfidentialityPublic             ConfidentialityLevel = "public"
	ConfidentialityStandard           ConfidentialityLevel = "standard"
	ConfidentialityConfidential       ConfidentialityLevel = "confidential"
	ConfidentialityHighlyConfidential ConfidentialityLevel = "highly_confidential"
)

// UnknownCaseNumber is stored when no case number can be extracted
const UnknownCaseNumber = "Unknown"

// LegalDocument represents an ingested legal document
type LegalDocument struct {
	ID                   string               `json:"id,omitempty"`
	Title                string               `json:"title"`
	Content              string               `json:"content"`
	Summary              string               `json:"summary"`
	DocumentType         DocumentType         `json:"documentType"`
	CaseNumber           string               `json:"caseNumber"`
	Court                *string              `json:"court,omitempty"`
	Jurisdiction         *string              `json:"jurisdiction,omitempty"`
	Parties              []string             `json:"parties"`
	Date                 time.Time            `json:"date"`
	FilePath             string               `json:"filePath"`
	PageCount            int                  `json:"pageCount"`
	PracticeArea         []string             `json:"practiceArea"`
	Citations            []string             `json:"citations"`
	ConfidentialityLevel ConfidentialityLevel `json:"confidentialityLevel"`
	CreatedAt            time.Time            `json:"createdAt"`
	LastModified         time.Time            `json:"lastModified"`
}

// DocumentSection is a titled slice of a document's text.
// ParentDocumentID is a weak reference; the parent does not own the section.
type DocumentSection struct {
	ID               string `json:"id,omitempty"`
	Content          string `json:"content"`
	SectionTitle     string `json:"sectionTitle"`
	PageNumber       int    `json:"pageNumber"`
	SectionNumber    string `json:"sectionNumber"`
	ParentDocumentID string `json:"parentDocumentId,omitempty"`
}

// Citation is a legal citation and the documents referencing it
type Citation struct {
	ID           string   `json:"id,omitempty"`
	CitationText string   `json:"citation"`
	CaseName     *string  `json:"caseName,omitempty"`
	Court        *string  `json:"court,omitempty"`
	Year         *int     `json:"year,omitempty"`
	Holding      *string  `json:"holding,omitempty"`
	ReferencedBy []string `json:"referencedBy,omitempty"`
}

// DocumentUpdate holds a partial update. Nil fields are left untouched.
type DocumentUpdate struct {
	Title                *string               `json:"title,omitempty"`
	Summary              *string               `json:"summary,omitempty"`
	DocumentType         *DocumentType         `json:"documentType,omitempty"`
	CaseNumber           *string               `json:"caseNumber,omitempty"`
	Court                *string               `json:"court,omitempty"`
	Jurisdiction         *string               `json:"jurisdiction,omitempty"`
	Parties              []string              `json:"parties,omitempty"`
	PracticeArea         []string              `json:"practiceArea,omitempty"`
	ConfidentialityLevel *ConfidentialityLevel `json:"confidentialityLevel,omitempty"`
}
