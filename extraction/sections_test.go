package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const agreementText = `SERVICES AGREEMENT
between the parties below
WHEREAS the Company wishes to engage the Consultant;
NOW THEREFORE the parties agree as follows:
1. Definitions
Terms have the meanings given here.

2. Services
The Consultant shall perform the services.
A. Scope
Limited to advisory work.
II. Term
One year.`

func TestSegment(t *testing.T) {
	sections := Segment(agreementText)

	require.Len(t, sections, 5)

	assert.Equal(t, "", sections[0].Title)
	assert.Equal(t, "SERVICES AGREEMENT between the parties below", sections[0].Content)

	// a header directly following another header replaces the pending title
	assert.Equal(t, "1. Definitions", sections[1].Title)
	assert.Equal(t, "Terms have the meanings given here.", sections[1].Content)
	assert.Equal(t, sections[1].Title, sections[1].SectionNumber)

	assert.Equal(t, "2. Services", sections[2].Title)
	assert.Equal(t, "A. Scope", sections[3].Title)
	assert.Equal(t, "II. Term", sections[4].Title)
	assert.Equal(t, "One year.", sections[4].Content)

	for _, s := range sections {
		assert.Equal(t, 1, s.PageNumber)
	}
}

func TestSegment_ReSegmentingRenderedOutputKeepsBoundaries(t *testing.T) {
	first := Segment(agreementText)
	second := Segment(RenderSections(first))

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Title, second[i].Title)
		assert.Equal(t, first[i].Content, second[i].Content)
	}
}

func TestSegment_PageEstimate(t *testing.T) {
	line := strings.Repeat("word ", 200)
	var b strings.Builder
	b.WriteString("I. First\n")
	for i := 0; i < 10; i++ {
		b.WriteString(line + "\n")
	}
	b.WriteString("II. Second\ntail text\n")

	sections := Segment(b.String())

	require.Len(t, sections, 2)
	assert.Equal(t, 1, sections[0].PageNumber)
	assert.Equal(t, 4, sections[1].PageNumber)
}

func TestSections_StopsWhenConsumerStops(t *testing.T) {
	count := 0
	for range Sections(agreementText) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestSegment_Empty(t *testing.T) {
	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment("I. Lonely header"))
}

func TestCleanText(t *testing.T) {
	raw := "The  court\tfound\r\nthat the defen-\ndant was liable.\n\nPage 3 of 10\nI. Findings\n   Next    line  "

	got := CleanText(raw)

	assert.Equal(t, "The court found that the defendant was liable.\nI. Findings\nNext line", got)
}

func TestCleanText_KeepsHeadersApart(t *testing.T) {
	raw := "1. Definitions\nthe following terms apply to this agreement.\n2. Term\nthis agreement runs for one year."

	got := CleanText(raw)
	assert.Equal(t, "1. Definitions\nthe following terms apply to this agreement.\n2. Term\nthis agreement runs for one year.", got)

	var titles []string
	for sec := range Sections(got) {
		titles = append(titles, sec.Title)
	}
	assert.Equal(t, []string{"1. Definitions", "2. Term"}, titles)
}
