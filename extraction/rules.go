package extraction

import (
	"regexp"
	"strings"

	"legalrag-backend/models"
)

// KeywordRule assigns Label when any keyword occurs as a whole word
// (an optional plural suffix is accepted).
type KeywordRule struct {
	Label    string
	Keywords []string
	pattern  *regexp.Regexp
}

func keywordRule(label string, keywords ...string) KeywordRule {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return KeywordRule{
		Label:    label,
		Keywords: keywords,
		pattern:  regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)(?:s|es)?\b`),
	}
}

// prefixRule matches any word starting with one of the keywords, so
// "confidentiality" and "publicly" count as "confidential" and "public".
func prefixRule(label string, keywords ...string) KeywordRule {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return KeywordRule{
		Label:    label,
		Keywords: keywords,
		pattern:  regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\w*`),
	}
}

// Matches reports whether any keyword occurs in one of the lowercased inputs
func (r KeywordRule) Matches(inputs ...string) bool {
	for _, in := range inputs {
		if r.pattern.MatchString(in) {
			return true
		}
	}
	return false
}

// PatternRule yields the first capture group of Pattern
type PatternRule struct {
	Label   string
	Pattern *regexp.Regexp
}

// Find returns the first capture group of the leftmost match
func (r PatternRule) Find(text string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

// Evaluated in order; the first matching rule wins.
var documentTypeRules = []KeywordRule{
	keywordRule(string(models.DocumentTypeContract), "agreement", "contract", "license", "nda", "mou"),
	keywordRule(string(models.DocumentTypeMotion), "motion", "petition", "application"),
	keywordRule(string(models.DocumentTypeBrief), "brief", "memorandum", "memo"),
	keywordRule(string(models.DocumentTypePleading), "complaint", "answer", "reply", "counterclaim"),
	keywordRule(string(models.DocumentTypeDiscovery), "interrogatory", "interrogatories", "deposition", "request", "subpoena"),
	keywordRule(string(models.DocumentTypeOrder), "order", "judgment", "decree", "ruling"),
	keywordRule(string(models.DocumentTypeCorrespondence), "letter", "email", "correspondence"),
	keywordRule(string(models.DocumentTypeOpinion), "opinion", "decision", "holding"),
	keywordRule(string(models.DocumentTypeStatute), "statute", "regulation", "rule", "code"),
	keywordRule(string(models.DocumentTypeFiling), "filing", "docket", "notice"),
}

// Every matching rule contributes its label.
var practiceAreaRules = []KeywordRule{
	keywordRule("litigation", "litigation", "trial", "court", "lawsuit", "dispute"),
	keywordRule("corporate", "corporate", "merger", "acquisition", "securities", "governance"),
	keywordRule("employment", "employment", "labor", "discrimination", "harassment", "wrongful termination"),
	keywordRule("intellectual_property", "patent", "trademark", "copyright", "ip", "trade secret"),
	keywordRule("real_estate", "real estate", "property", "lease", "deed", "mortgage"),
	keywordRule("family", "divorce", "custody", "family", "marriage", "adoption"),
	keywordRule("criminal", "criminal", "prosecution", "defense", "plea", "sentencing"),
	keywordRule("tax", "tax", "irs", "revenue", "audit"),
	keywordRule("bankruptcy", "bankruptcy", "insolvency", "creditor", "debtor"),
	keywordRule("immigration", "immigration", "visa", "asylum", "deportation"),
	keywordRule("environmental", "environmental", "epa", "pollution", "cleanup"),
	keywordRule("healthcare", "healthcare", "hipaa", "medical", "patient"),
}

// Priority order matters: indicator sets overlap.
var confidentialityRules = []KeywordRule{
	prefixRule(string(models.ConfidentialityHighlyConfidential),
		"confidential", "privileged", "attorney-client", "work product", "trade secret", "proprietary", "classified"),
	prefixRule(string(models.ConfidentialityConfidential), "internal", "restricted", "sensitive", "private"),
	prefixRule(string(models.ConfidentialityPublic), "public", "filing", "published", "press release"),
}

var partyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][a-z]+ [A-Z][a-z]+),?\s+(?:Plaintiff|Defendant|Petitioner|Respondent)`),
	regexp.MustCompile(`(?:Plaintiff|Defendant|Petitioner|Respondent):?\s+([A-Z][a-z]+ [A-Z][a-z]+)`),
	regexp.MustCompile(`([A-Z][A-Z\s&,\.]+(?:LLC|INC|CORP|LTD|LP))`),
	regexp.MustCompile(`([A-Z][a-z]+\s+(?:Corporation|Company|Inc\.|LLC|Ltd\.))`),
	regexp.MustCompile(`\b([A-Z]{2,}(?:\s+[A-Z][A-Za-z&]+)*\s+(?:Corporation|Company|Inc\.|LLC|Ltd\.))`),
}

var courtRules = []PatternRule{
	{Label: "federal_district", Pattern: regexp.MustCompile(`(United States District Court)`)},
	{Label: "federal_appeals", Pattern: regexp.MustCompile(`(U\.S\. Court of Appeals)`)},
	{Label: "supreme", Pattern: regexp.MustCompile(`(Supreme Court of the United States|U\.S\. Supreme Court)`)},
	{Label: "state_trial", Pattern: regexp.MustCompile(`([A-Z][a-z]+ (?:District|Superior|Municipal|Circuit) Court)`)},
	{Label: "state_appellate", Pattern: regexp.MustCompile(`(Court of (?:Appeals|Common Pleas))`)},
}

var jurisdictionRules = []PatternRule{
	{Label: "district", Pattern: regexp.MustCompile(`(?:District of|for the) ([A-Z][a-z]+ District)`)},
	{Label: "state", Pattern: regexp.MustCompile(`State of ([A-Z][a-z]+)`)},
	{Label: "commonwealth", Pattern: regexp.MustCompile(`Commonwealth of ([A-Z][a-z]+)`)},
	{Label: "state_or_county", Pattern: regexp.MustCompile(`([A-Z][a-z]+) (?:State|County)`)},
}

var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s+[A-Z][a-z\.]+\s+\d+`),
	regexp.MustCompile(`\d+\s+U\.S\.\s+\d+`),
	regexp.MustCompile(`\d+\s+F\.\d+d\s+\d+`),
	regexp.MustCompile(`\d+\s+S\.Ct\.\s+\d+`),
	regexp.MustCompile(`\d+\s+[A-Z][a-z\.]*\s+\d+\s+\(\d{4}\)`),
}

const docketShape = `(?:\d{1,2}:)?\d{2}-[A-Za-z]{2,4}-\d{3,6}`

var caseNumberRules = []PatternRule{
	{Label: "case_no_docket", Pattern: regexp.MustCompile(`(?i)case\s*no\.?\s*(` + docketShape + `)`)},
	{Label: "no_docket", Pattern: regexp.MustCompile(`(?i)\bno\.?\s*(` + docketShape + `)`)},
	{Label: "docket", Pattern: regexp.MustCompile(`(` + docketShape + `)`)},
	{Label: "digits", Pattern: regexp.MustCompile(`(?:^|\D)(\d{4,5})(?:\D|$)`)},
}

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:` + monthNames + `)\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
}

var sectionHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[IVX]+\.\s+`),
	regexp.MustCompile(`^\d+\.\s+`),
	regexp.MustCompile(`^[A-Z]+\.\s+`),
	regexp.MustCompile(`^WHEREAS`),
	regexp.MustCompile(`^NOW THEREFORE`),
}
