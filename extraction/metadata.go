package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"legalrag-backend/models"
)

const (
	partyWindow       = 2000
	courtWindow       = 1000
	caseNumberWindow  = 1000
	dateWindow        = 2000
	minPartyNameChars = 3
)

// Metadata is the structured result of running every extractor over a document
type Metadata struct {
	DocumentType    models.DocumentType
	PracticeAreas   []string
	Parties         []string
	Court           *string
	Jurisdiction    *string
	Citations       []string
	CaseNumber      *string
	Dates           []string
	Confidentiality models.ConfidentialityLevel
}

// Extractor runs the metadata heuristics
type Extractor struct {
	defaultPracticeArea string
}

// ExtractorOption is a functional option for Extractor
type ExtractorOption func(*Extractor)

// WithDefaultPracticeArea sets the practice area used when no keyword matches
func WithDefaultPracticeArea(area string) ExtractorOption {
	return func(e *Extractor) {
		if area != "" {
			e.defaultPracticeArea = area
		}
	}
}

// NewExtractor creates a new metadata extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{defaultPracticeArea: "general"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs all extractors over cleaned text and the source filename
func (e *Extractor) Extract(text, filename string) Metadata {
	court, jurisdiction := CourtAndJurisdiction(text)
	return Metadata{
		DocumentType:    DocumentType(text, filename),
		PracticeAreas:   e.PracticeAreas(text),
		Parties:         Parties(text),
		Court:           court,
		Jurisdiction:    jurisdiction,
		Citations:       Citations(text),
		CaseNumber:      CaseNumber(text, filename),
		Dates:           Dates(text),
		Confidentiality: Confidentiality(text, filename),
	}
}

// DocumentType returns the first category whose keywords occur in the text or filename
func DocumentType(text, filename string) models.DocumentType {
	lowerText := strings.ToLower(text)
	lowerName := normalizeFilename(filename)
	for _, rule := range documentTypeRules {
		if rule.Matches(lowerText, lowerName) {
			return models.DocumentType(rule.Label)
		}
	}
	return models.DocumentTypeOther
}

// PracticeAreas returns every matching area, or the default area alone
func (e *Extractor) PracticeAreas(text string) []string {
	lower := strings.ToLower(text)
	var areas []string
	for _, rule := range practiceAreaRules {
		if rule.Matches(lower) {
			areas = append(areas, rule.Label)
		}
	}
	if len(areas) == 0 {
		return []string{e.defaultPracticeArea}
	}
	return areas
}

// Parties returns party names found near the top of the document, first-seen order
func Parties(text string) []string {
	window := prefix(text, partyWindow)
	var parties []string
	seen := make(map[string]bool)
	for _, pattern := range partyPatterns {
		for _, m := range pattern.FindAllStringSubmatch(window, -1) {
			name := strings.TrimSpace(strings.ReplaceAll(m[1], ",", ""))
			if len(name) < minPartyNameChars || seen[name] {
				continue
			}
			seen[name] = true
			parties = append(parties, name)
		}
	}
	return parties
}

// CourtAndJurisdiction returns the first court and jurisdiction match; either may be nil
func CourtAndJurisdiction(text string) (court, jurisdiction *string) {
	window := prefix(text, courtWindow)
	court = firstMatch(courtRules, window)
	jurisdiction = firstMatch(jurisdictionRules, window)
	return court, jurisdiction
}

// Citations returns every citation in the full text. Duplicates are removed;
// callers must not rely on the order of the result.
func Citations(text string) []string {
	return findAllUnique(citationPatterns, text)
}

// CaseNumber checks the filename first, then the top of the text
func CaseNumber(text, filename string) *string {
	if v := firstMatch(caseNumberRules, filename); v != nil {
		return v
	}
	return firstMatch(caseNumberRules, prefix(text, caseNumberWindow))
}

// Dates returns the date strings found near the top of the document, unordered
func Dates(text string) []string {
	return findAllUnique(datePatterns, prefix(text, dateWindow))
}

// Confidentiality classifies by the first indicator tier that matches
func Confidentiality(text, filename string) models.ConfidentialityLevel {
	lowerText := strings.ToLower(text)
	lowerName := normalizeFilename(filename)
	for _, rule := range confidentialityRules {
		if rule.Matches(lowerText, lowerName) {
			return models.ConfidentialityLevel(rule.Label)
		}
	}
	return models.ConfidentialityStandard
}

func firstMatch(rules []PatternRule, text string) *string {
	for _, rule := range rules {
		if v, ok := rule.Find(text); ok {
			return &v
		}
	}
	return nil
}

func findAllUnique(patterns []*regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllString(text, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// normalizeFilename lowercases a filename and turns separators into spaces
// so keyword rules see "motion_no_1" as separate words.
func normalizeFilename(filename string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.':
			return ' '
		}
		return r
	}, filename))
}

// prefix returns at most n bytes of s without splitting a UTF-8 sequence
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
