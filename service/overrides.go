package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"legalrag-backend/extraction"
	"legalrag-backend/models"
)

// applyOverrides overwrites derived fields of doc with caller-supplied values.
// Keys use the stored property names. Unknown keys and values of the wrong
// shape are rejected.
func applyOverrides(doc *models.LegalDocument, overrides map[string]interface{}, confidentialityLevels []string) error {
	for key, value := range overrides {
		switch key {
		case "title", "summary", "caseNumber", "documentType", "confidentialityLevel":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: %s must be a string", ErrInvalidMetadata, key)
			}
			switch key {
			case "title":
				doc.Title = s
			case "summary":
				doc.Summary = s
			case "caseNumber":
				doc.CaseNumber = s
			case "documentType":
				doc.DocumentType = models.DocumentType(s)
			case "confidentialityLevel":
				if len(confidentialityLevels) > 0 && !slices.Contains(confidentialityLevels, s) {
					return fmt.Errorf("%w: confidentiality level %q is not configured", ErrInvalidMetadata, s)
				}
				doc.ConfidentialityLevel = models.ConfidentialityLevel(s)
			}

		case "court", "jurisdiction":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: %s must be a string", ErrInvalidMetadata, key)
			}
			var ptr *string
			if s != "" {
				ptr = &s
			}
			if key == "court" {
				doc.Court = ptr
			} else {
				doc.Jurisdiction = ptr
			}

		case "parties", "practiceArea", "citations":
			list, ok := stringList(value)
			if !ok {
				return fmt.Errorf("%w: %s must be a list of strings", ErrInvalidMetadata, key)
			}
			switch key {
			case "parties":
				doc.Parties = list
			case "practiceArea":
				doc.PracticeArea = list
			case "citations":
				doc.Citations = list
			}

		case "date":
			t, err := overrideDate(value)
			if err != nil {
				return fmt.Errorf("%w: date: %v", ErrInvalidMetadata, err)
			}
			doc.Date = t

		default:
			return fmt.Errorf("%w: unknown key %q", ErrInvalidMetadata, key)
		}
	}
	return nil
}

func stringList(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func overrideDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return extraction.ParseDate(strings.TrimSpace(v))
	}
	return time.Time{}, fmt.Errorf("unsupported value %v", value)
}
