package extraction

import (
	"errors"
	"strings"
	"time"
)

var ErrUnparsableDate = errors.New("unrecognized date format")

// dateLayouts mirror the shapes matched by datePatterns
var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"1/2/2006",
	"2006-01-02",
	time.RFC3339,
}

// ParseDate parses a date string found by Dates. Slash dates are read as
// month/day/year.
func ParseDate(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparsableDate
}
