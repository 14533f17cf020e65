package extraction

import (
	"iter"
	"slices"
	"strings"
)

// PageChars approximates the number of characters on one printed page.
// Page numbers derived from it are estimates, not real pagination.
const PageChars = 3000

// Section is a titled run of document text
type Section struct {
	Title         string
	Content       string
	PageNumber    int
	SectionNumber string
}

// IsSectionHeader reports whether a trimmed line opens a new section
func IsSectionHeader(line string) bool {
	for _, p := range sectionHeaderPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// Sections yields the sections of text in order, in a single pass over its lines.
// A header line closes the running section (when it has content) and becomes
// the next title; a header with no content before it replaces the pending title.
func Sections(text string) iter.Seq[Section] {
	return func(yield func(Section) bool) {
		var (
			body      strings.Builder
			title     string
			startPage = 1
			consumed  int
		)

		flush := func() bool {
			content := strings.TrimSpace(body.String())
			body.Reset()
			if content == "" {
				return true
			}
			return yield(Section{
				Title:         title,
				Content:       content,
				PageNumber:    startPage,
				SectionNumber: title,
			})
		}

		for _, raw := range strings.Split(text, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			if IsSectionHeader(line) {
				if body.Len() > 0 && !flush() {
					return
				}
				title = line
				continue
			}

			if body.Len() == 0 {
				startPage = consumed/PageChars + 1
			}
			body.WriteString(line)
			body.WriteByte(' ')
			consumed += len(line) + 1
		}

		flush()
	}
}

// Segment collects Sections into a slice
func Segment(text string) []Section {
	return slices.Collect(Sections(text))
}

// RenderSections joins sections back into text, one title line followed by
// one content line per section.
func RenderSections(sections []Section) string {
	var b strings.Builder
	for _, s := range sections {
		if s.Title != "" {
			b.WriteString(s.Title)
			b.WriteByte('\n')
		}
		b.WriteString(s.Content)
		b.WriteByte('\n')
	}
	return b.String()
}
