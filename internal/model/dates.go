package model

import (
	"fmt"
	"strings"
	"time"
)

// dateFormats is the ladder of layouts tried when parsing dates that arrive
// as free text (goal due dates, invoice dates pulled out of OCR output).
var dateFormats = []string{
	"2006-01-02", // 2024-07-19
	"02.01.2006", // 19.07.2024
	"1/2/06",     // 7/19/24
	"2/1/06",     // 19/07/24
	"2006/01/02", // 2024/07/19
	"1-2-06",     // 7-19-24
	"2-1-06",     // 19-07-24
	"1/2/2006",   // 7/19/2024
	"2/1/2006",   // 19/07/2024
	"02-01-2006", // 19-07-2024
}

// ParseDate parses a date string in any of the supported formats.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	// Short forms like 7/19/24 with a two-digit year sometimes survive the
	// ladder with swapped separators; retry after normalizing dashes.
	if len(s) <= 8 && strings.Contains(s, "-") {
		normalized := strings.ReplaceAll(s, "-", "/")
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, normalized); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("date %q does not match any known format", s)
}

// Overdue reports whether a raw date string parses to a date before now.
// Unparseable dates are not overdue; the caller decides how to surface them.
func Overdue(raw string, now time.Time) bool {
	t, err := ParseDate(raw)
	if err != nil {
		return false
	}
	return t.Before(now)
}
