package normalize

import (
	"strings"
	"time"
)

// CanonicalDateLayout is the DD-MMM-YYYY form used on ledger rows.
const CanonicalDateLayout = "02-Jan-2006"

// dateLayouts are tried in order. Single-digit layouts also accept two digits.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2-Jan-2006",
	"2-January-2006",
	"2006-1-2",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate converts a date in any known invoice layout to DD-MMM-YYYY with an
// upper-case month ("15-MAY-2025"). Input that matches no layout is returned unchanged.
func ParseDate(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return FormatDate(t)
		}
	}
	return s
}

// FormatDate renders t as DD-MMM-YYYY.
func FormatDate(t time.Time) string {
	return strings.ToUpper(t.Format(CanonicalDateLayout))
}
