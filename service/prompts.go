package service

import (
	"fmt"
	"strings"

	"legalrag-backend/models"
)

const (
	answerContextDocs     = 3
	answerSummaryChars    = 500
	researchContextDocs   = 3
	researchSummaryChars  = 200
	caseSummaryMaxParties = 5
	unknownDocumentTitle  = "Unknown Document"
)

// Fixed replies used when there is nothing to generate from or generation fails
const (
	NoDocumentsAnswer   = "No relevant documents found to answer the question."
	FallbackAnswer      = "Unable to generate answer based on available documents."
	NoDocumentsResearch = "No relevant documents found for this research topic."
	NoDocumentsCase     = "No documents found for this case number"
	NoDocumentsSummary  = "No documents available for case summary."
)

func answerPrompt(question string, hits []models.SearchHit) string {
	parts := make([]string, 0, answerContextDocs)
	for i, hit := range hits[:min(len(hits), answerContextDocs)] {
		parts = append(parts, fmt.Sprintf("Document %d: %s\nContent: %s",
			i+1, titleOrUnknown(hit.Title), truncate(hit.Summary, answerSummaryChars)))
	}

	return fmt.Sprintf(`Based on the following legal documents, provide a comprehensive answer to this question: %s

Context Documents:
%s

Please provide a detailed answer based on the legal documents provided. Include relevant legal principles, cite specific documents when appropriate, and note any limitations or caveats.

Answer:`, question, strings.Join(parts, "\n\n"))
}

func researchPrompt(topic string, hits []models.SearchHit) string {
	var context strings.Builder
	fmt.Fprintf(&context, "Research Topic: %s\n\n", topic)
	for i, hit := range hits {
		fmt.Fprintf(&context, "Document %d: %s\nSummary: %s\n\n",
			i+1, titleOrUnknown(hit.Title), truncate(hit.Summary, researchSummaryChars))
	}

	return fmt.Sprintf(`Based on the following legal documents related to "%s", provide a comprehensive research summary that includes:

1. Key legal principles and concepts
2. Relevant case law or statutory provisions
3. Current trends or developments
4. Practical implications
5. Areas for further research

%s

Research Summary:`, topic, context.String())
}

func researchFallback(documents int, topic string) string {
	return fmt.Sprintf("Based on %d documents, research indicates relevant information about %s. Manual review of source documents recommended for detailed analysis.", documents, topic)
}

// caseSummary is a templated, non-generated overview of a case's documents
func caseSummary(hits []models.SearchHit) string {
	if len(hits) == 0 {
		return NoDocumentsSummary
	}

	var types, parties []string
	for _, hit := range hits {
		types = appendUnique(types, documentTypeOrUnknown(hit.DocumentType))
		for _, p := range hit.Parties {
			parties = appendUnique(parties, p)
		}
	}

	parts := []string{fmt.Sprintf("Case involves %d documents of types: %s", len(hits), strings.Join(types, ", "))}
	if len(parties) > 0 {
		parts = append(parts, "Parties involved: "+strings.Join(parties[:min(len(parties), caseSummaryMaxParties)], ", "))
	}
	return strings.Join(parts, ". ")
}

func titleOrUnknown(title string) string {
	if title == "" {
		return unknownDocumentTitle
	}
	return title
}

func documentTypeOrUnknown(t string) string {
	if t == "" {
		return "unknown"
	}
	return t
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
