package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	pageBoilerplate = regexp.MustCompile(`Page \d+ of \d+`)
)

// CleanText normalizes extracted text while keeping line structure:
// whitespace runs collapse to one space, "Page N of M" markers are removed,
// empty lines are dropped, and lines broken mid-sentence are joined.
// Section header lines are never joined with the line after them.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := pageBoilerplate.ReplaceAllString(raw, "")
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}

		if n := len(lines); n > 0 && startsLower(line) && !IsSectionHeader(lines[n-1]) {
			prev := lines[n-1]
			switch {
			case strings.HasSuffix(prev, "-") && endsLower(strings.TrimSuffix(prev, "-")):
				lines[n-1] = strings.TrimSuffix(prev, "-") + line
				continue
			case endsLower(prev):
				lines[n-1] = prev + " " + line
				continue
			}
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func startsLower(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && unicode.IsLower(r)
}

func endsLower(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && unicode.IsLower(r)
}
