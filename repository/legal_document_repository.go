package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legalrag-backend/models"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/data"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
)

// LegalDocumentRepository handles document, section and citation objects in Weaviate
type LegalDocumentRepository struct {
	client *weaviate.Client
	now    func() time.Time
}

// NewLegalDocumentRepository creates a new legal document repository
func NewLegalDocumentRepository(client *weaviate.Client) *LegalDocumentRepository {
	return &LegalDocumentRepository{client: client, now: time.Now}
}

// CreateDocument stores doc and returns the identifier assigned by the store.
// CreatedAt and LastModified are set to the current time.
func (r *LegalDocumentRepository) CreateDocument(ctx context.Context, doc *models.LegalDocument) (string, error) {
	now := r.now().UTC()
	doc.CreatedAt = now
	doc.LastModified = now

	created, err := r.client.Data().Creator().
		WithClassName(DocumentClass).
		WithProperties(documentProperties(doc)).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	if doc.ID, err = objectID(created); err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	return doc.ID, nil
}

// CreateSection stores a section referencing its parent document
func (r *LegalDocumentRepository) CreateSection(ctx context.Context, section *models.DocumentSection) (string, error) {
	props := map[string]interface{}{
		"content":       section.Content,
		"sectionTitle":  section.SectionTitle,
		"pageNumber":    section.PageNumber,
		"sectionNumber": section.SectionNumber,
	}
	if section.ParentDocumentID != "" {
		props["parentDocument"] = beacon(DocumentClass, section.ParentDocumentID)
	}

	created, err := r.client.Data().Creator().
		WithClassName(SectionClass).
		WithProperties(props).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create section: %w", err)
	}
	if section.ID, err = objectID(created); err != nil {
		return "", fmt.Errorf("failed to create section: %w", err)
	}
	return section.ID, nil
}

// CreateCitation stores a citation referencing the documents that mention it
func (r *LegalDocumentRepository) CreateCitation(ctx context.Context, citation *models.Citation) (string, error) {
	props := map[string]interface{}{
		"citation": citation.CitationText,
	}
	if citation.CaseName != nil {
		props["caseName"] = *citation.CaseName
	}
	if citation.Court != nil {
		props["court"] = *citation.Court
	}
	if citation.Year != nil {
		props["year"] = *citation.Year
	}
	if citation.Holding != nil {
		props["holding"] = *citation.Holding
	}
	var refs []map[string]string
	for _, id := range citation.ReferencedBy {
		refs = append(refs, beacon(DocumentClass, id)...)
	}
	if len(refs) > 0 {
		props["referencedBy"] = refs
	}

	created, err := r.client.Data().Creator().
		WithClassName(CitationClass).
		WithProperties(props).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create citation: %w", err)
	}
	if citation.ID, err = objectID(created); err != nil {
		return "", fmt.Errorf("failed to create citation: %w", err)
	}
	return citation.ID, nil
}

// GetDocument retrieves a document by identifier
func (r *LegalDocumentRepository) GetDocument(ctx context.Context, id string) (*models.LegalDocument, error) {
	objects, err := r.client.Data().ObjectsGetter().
		WithClassName(DocumentClass).
		WithID(id).
		Do(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	if len(objects) == 0 || objects[0] == nil {
		return nil, ErrDocumentNotFound
	}

	props, _ := objects[0].Properties.(map[string]interface{})
	return documentFromProperties(string(objects[0].ID), props), nil
}

// UpdateDocument merges the non-nil fields of update and bumps lastModified
func (r *LegalDocumentRepository) UpdateDocument(ctx context.Context, id string, update models.DocumentUpdate) error {
	props := updateProperties(update)
	props["lastModified"] = r.now().UTC().Format(time.RFC3339)

	err := r.client.Data().Updater().
		WithMerge().
		WithID(id).
		WithClassName(DocumentClass).
		WithProperties(props).
		Do(ctx)
	if err != nil {
		if isNotFound(err) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to update document %s: %w", id, err)
	}
	return nil
}

// DeleteDocument removes the sections pointing at id, then the document itself
func (r *LegalDocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	where := filters.Where().
		WithPath([]string{"parentDocument", DocumentClass, "id"}).
		WithOperator(filters.Equal).
		WithValueText(id)

	if _, err := r.client.Batch().ObjectsBatchDeleter().
		WithClassName(SectionClass).
		WithWhere(where).
		Do(ctx); err != nil {
		return fmt.Errorf("failed to delete sections of document %s: %w", id, err)
	}

	err := r.client.Data().Deleter().
		WithClassName(DocumentClass).
		WithID(id).
		Do(ctx)
	if err != nil {
		if isNotFound(err) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

func documentProperties(doc *models.LegalDocument) map[string]interface{} {
	props := map[string]interface{}{
		"title":                doc.Title,
		"content":              doc.Content,
		"summary":              doc.Summary,
		"documentType":         string(doc.DocumentType),
		"caseNumber":           doc.CaseNumber,
		"parties":              nonNil(doc.Parties),
		"filePath":             doc.FilePath,
		"pageCount":            doc.PageCount,
		"practiceArea":         nonNil(doc.PracticeArea),
		"citations":            nonNil(doc.Citations),
		"confidentialityLevel": string(doc.ConfidentialityLevel),
		"createdAt":            doc.CreatedAt.UTC().Format(time.RFC3339),
		"lastModified":         doc.LastModified.UTC().Format(time.RFC3339),
	}
	if !doc.Date.IsZero() {
		props["date"] = doc.Date.UTC().Format(time.RFC3339)
	}
	if doc.Court != nil {
		props["court"] = *doc.Court
	}
	if doc.Jurisdiction != nil {
		props["jurisdiction"] = *doc.Jurisdiction
	}
	return props
}

func updateProperties(u models.DocumentUpdate) map[string]interface{} {
	props := map[string]interface{}{}
	if u.Title != nil {
		props["title"] = *u.Title
	}
	if u.Summary != nil {
		props["summary"] = *u.Summary
	}
	if u.DocumentType != nil {
		props["documentType"] = string(*u.DocumentType)
	}
	if u.CaseNumber != nil {
		props["caseNumber"] = *u.CaseNumber
	}
	if u.Court != nil {
		props["court"] = *u.Court
	}
	if u.Jurisdiction != nil {
		props["jurisdiction"] = *u.Jurisdiction
	}
	if u.Parties != nil {
		props["parties"] = u.Parties
	}
	if u.PracticeArea != nil {
		props["practiceArea"] = u.PracticeArea
	}
	if u.ConfidentialityLevel != nil {
		props["confidentialityLevel"] = string(*u.ConfidentialityLevel)
	}
	return props
}

func documentFromProperties(id string, props map[string]interface{}) *models.LegalDocument {
	doc := &models.LegalDocument{
		ID:                   id,
		Title:                stringProp(props, "title"),
		Content:              stringProp(props, "content"),
		Summary:              stringProp(props, "summary"),
		DocumentType:         models.DocumentType(stringProp(props, "documentType")),
		CaseNumber:           stringProp(props, "caseNumber"),
		Parties:              stringsProp(props, "parties"),
		FilePath:             stringProp(props, "filePath"),
		PageCount:            intProp(props, "pageCount"),
		PracticeArea:         stringsProp(props, "practiceArea"),
		Citations:            stringsProp(props, "citations"),
		ConfidentialityLevel: models.ConfidentialityLevel(stringProp(props, "confidentialityLevel")),
		Date:                 timeProp(props, "date"),
		CreatedAt:            timeProp(props, "createdAt"),
		LastModified:         timeProp(props, "lastModified"),
	}
	if v := stringProp(props, "court"); v != "" {
		doc.Court = &v
	}
	if v := stringProp(props, "jurisdiction"); v != "" {
		doc.Jurisdiction = &v
	}
	return doc
}

func objectID(created *data.ObjectWrapper) (string, error) {
	if created == nil || created.Object == nil || created.Object.ID == "" {
		return "", errors.New("store returned no object id")
	}
	return string(created.Object.ID), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
