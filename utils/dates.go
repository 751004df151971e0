package utils

import (
	"fmt"
	"strings"
	"time"
)

var dateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// ParseDate accepts the date spellings the document service has been seen
// to return: ISO timestamps, bare ISO dates and day-first dates.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format: %q", dateStr)
}

// DisplayDate renders a service date for people. Unparseable values are
// shown as received.
func DisplayDate(dateStr string) string {
	t, err := ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	return t.Format("Jan 2, 2006")
}
