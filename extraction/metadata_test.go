package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag-backend/models"
)

func TestExtract_MotionExample(t *testing.T) {
	text := "MOTION FOR SUMMARY JUDGMENT ... Plaintiff John Smith v. Defendant ABC Corporation"

	meta := NewExtractor().Extract(text, "motion_no_21-cv-1234.pdf")

	assert.Equal(t, models.DocumentTypeMotion, meta.DocumentType)
	assert.Contains(t, meta.Parties, "John Smith")
	assert.Contains(t, meta.Parties, "ABC Corporation")
	require.NotNil(t, meta.CaseNumber)
	assert.Equal(t, "21-cv-1234", *meta.CaseNumber)
}

func TestDocumentType(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		want     models.DocumentType
	}{
		{"contract from text", "This Agreement is entered into by the parties", "doc.pdf", models.DocumentTypeContract},
		{"contract from filename", "terms follow", "Vendor_NDA.docx", models.DocumentTypeContract},
		{"brief", "MEMORANDUM OF LAW IN SUPPORT", "x.txt", models.DocumentTypeBrief},
		{"pleading", "COMPLAINT FOR DAMAGES", "x.txt", models.DocumentTypePleading},
		{"order", "IT IS SO ORDERED. Final judgment entered.", "x.txt", models.DocumentTypeOrder},
		{"declaration order wins", "motion to enforce the agreement", "x.txt", models.DocumentTypeContract},
		{"defendant is not nda", "the defendant appeared", "x.txt", models.DocumentTypeOther},
		{"nothing", "lorem ipsum dolor", "scan.pdf", models.DocumentTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocumentType(tt.text, tt.filename))
		})
	}
}

func TestPracticeAreas(t *testing.T) {
	e := NewExtractor()

	assert.Equal(t, []string{"general"}, e.PracticeAreas("lorem ipsum dolor sit amet"))
	assert.Equal(t, []string{"employment", "tax"}, e.PracticeAreas("Unpaid tax withholding raised an employment claim"))

	areas := e.PracticeAreas("The merger raised patent and trademark questions at trial")
	assert.Equal(t, []string{"litigation", "corporate", "intellectual_property"}, areas)

	custom := NewExtractor(WithDefaultPracticeArea("unassigned"))
	assert.Equal(t, []string{"unassigned"}, custom.PracticeAreas("nothing relevant"))
}

func TestConfidentiality_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		want     models.ConfidentialityLevel
	}{
		{"highly beats public", "PUBLIC FILING - privileged and confidential", "f.txt", models.ConfidentialityHighlyConfidential},
		{"highly beats internal", "internal memo, attorney-client communication", "f.txt", models.ConfidentialityHighlyConfidential},
		{"confidential tier", "for internal use only", "f.txt", models.ConfidentialityConfidential},
		{"public tier", "press release for immediate distribution", "f.txt", models.ConfidentialityPublic},
		{"filename counts", "plain body", "trade_secret_notes.txt", models.ConfidentialityHighlyConfidential},
		{"inflected highly", "This Confidentiality Agreement is entered into by the parties.", "f.txt", models.ConfidentialityHighlyConfidential},
		{"upper case notice", "CONFIDENTIALITY NOTICE: attached materials.", "f.txt", models.ConfidentialityHighlyConfidential},
		{"inflected public", "Documents publicly filed with the clerk.", "f.txt", models.ConfidentialityPublic},
		{"inflected confidential tier", "Privately held records.", "f.txt", models.ConfidentialityConfidential},
		{"default", "plain body", "f.txt", models.ConfidentialityStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidentiality(tt.text, tt.filename)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Confidentiality(tt.text, tt.filename))
		})
	}
}

func TestParties(t *testing.T) {
	text := "Jane Doe, Plaintiff\nv.\nRespondent: Mark Lee\nACME HOLDINGS LLC and Widget Corporation"

	parties := Parties(text)

	assert.Equal(t, []string{"Jane Doe", "Mark Lee", "ACME HOLDINGS LLC", "Widget Corporation"}, parties)
}

func TestParties_OnlyScansTopOfDocument(t *testing.T) {
	filler := make([]byte, partyWindow)
	for i := range filler {
		filler[i] = 'x'
	}

	assert.Empty(t, Parties(string(filler)+" Plaintiff John Smith"))
}

func TestCourtAndJurisdiction(t *testing.T) {
	court, jurisdiction := CourtAndJurisdiction("IN THE United States District Court for the Northern District of somewhere, State of Ohio")
	require.NotNil(t, court)
	assert.Equal(t, "United States District Court", *court)
	require.NotNil(t, jurisdiction)
	assert.Equal(t, "Northern District", *jurisdiction)

	court, jurisdiction = CourtAndJurisdiction("no court here")
	assert.Nil(t, court)
	assert.Nil(t, jurisdiction)

	court, _ = CourtAndJurisdiction("Filed in the Marion Superior Court")
	require.NotNil(t, court)
	assert.Equal(t, "Marion Superior Court", *court)
}

func TestCitations_Deduplicated(t *testing.T) {
	text := "See Brown v. Board, 347 U.S. 483 (1954). Again 347 U.S. 483. Also 123 F.3d 456 and 99 S.Ct. 12."

	citations := Citations(text)

	assert.ElementsMatch(t, uniqueStrings(citations), citations)
	assert.Contains(t, citations, "347 U.S. 483")
	assert.Contains(t, citations, "123 F.3d 456")
	assert.Contains(t, citations, "99 S.Ct. 12")
}

func TestCaseNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		want     string
	}{
		{"short docket in filename", "", "motion_no_21-cv-1234.pdf", "21-cv-1234"},
		{"full docket in filename", "", "order 1:21-cv-12345.pdf", "1:21-cv-12345"},
		{"docket in text", "Case No. 2:19-CR-00412 filed", "order.pdf", "2:19-CR-00412"},
		{"filename wins over text", "Case No. 2:19-cr-00412", "brief_20-cv-555.pdf", "20-cv-555"},
		{"digits fallback", "Matter 48213 opened", "memo.pdf", "48213"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CaseNumber(tt.text, tt.filename)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	assert.Nil(t, CaseNumber("no number", "memo.pdf"))
}

func TestDates(t *testing.T) {
	dates := Dates("Dated March 3, 2021 and 04/05/2022, effective 2023-01-15. Again March 3, 2021.")

	assert.ElementsMatch(t, []string{"March 3, 2021", "04/05/2022", "2023-01-15"}, dates)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"March 15, 2023", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"March  5 2023", time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"04/01/2022", time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"2021-12-31", time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseDate("13/45/2020")
	assert.ErrorIs(t, err, ErrUnparsableDate)
}
