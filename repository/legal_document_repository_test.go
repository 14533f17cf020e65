package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag-backend/models"
)

func TestDocumentProperties_RoundTrip(t *testing.T) {
	court := "United States District Court"
	doc := &models.LegalDocument{
		Title:                "motion_no_21-cv-1234",
		Content:              "MOTION FOR SUMMARY JUDGMENT",
		DocumentType:         models.DocumentTypeMotion,
		CaseNumber:           "21-cv-1234",
		Court:                &court,
		Parties:              []string{"John Smith"},
		Date:                 time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC),
		PageCount:            1,
		ConfidentialityLevel: models.ConfidentialityStandard,
		CreatedAt:            time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		LastModified:         time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	props := documentProperties(doc)
	assert.Equal(t, []string{}, props["citations"])
	assert.NotContains(t, props, "jurisdiction")

	got := documentFromProperties("doc-1", props)
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.DocumentType, got.DocumentType)
	require.NotNil(t, got.Court)
	assert.Equal(t, court, *got.Court)
	assert.Nil(t, got.Jurisdiction)
	assert.Equal(t, doc.Date, got.Date)
	assert.Equal(t, doc.CreatedAt, got.CreatedAt)
	assert.Equal(t, 1, got.PageCount)
}

func TestUpdateProperties_OnlySetFields(t *testing.T) {
	title := "Renamed"
	level := models.ConfidentialityConfidential
	props := updateProperties(models.DocumentUpdate{Title: &title, ConfidentialityLevel: &level})

	assert.Equal(t, map[string]interface{}{
		"title":                "Renamed",
		"confidentialityLevel": "confidential",
	}, props)
}

func TestSplitURL(t *testing.T) {
	host, scheme, err := splitURL("http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", host)
	assert.Equal(t, "http", scheme)

	host, scheme, err = splitURL("weaviate.internal:8080")
	require.NoError(t, err)
	assert.Equal(t, "weaviate.internal:8080", host)
	assert.Equal(t, "http", scheme)

	_, _, err = splitURL("https://")
	assert.Error(t, err)
}

func TestBeacon(t *testing.T) {
	assert.Equal(t,
		[]map[string]string{{"beacon": "weaviate://localhost/LegalDocument/abc"}},
		beacon(DocumentClass, "abc"))
}

func TestClasses(t *testing.T) {
	classes := Classes()
	require.Len(t, classes, 3)
	for i, c := range classes {
		assert.Equal(t, AllClasses[i], c.Class)
		assert.Equal(t, "text2vec-openai", c.Vectorizer)
	}
}
