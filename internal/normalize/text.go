package normalize

import (
	"regexp"
	"strings"
)

var (
	// "10,864.0\n0" -> "10,864.00"
	splitAfterFraction = regexp.MustCompile(`(\d\.\d)\n(\d)`)
	// "11,838.\n00" -> "11,838.00"
	splitAfterPoint = regexp.MustCompile(`(\d\.)\n(\d)`)
)

// Text rejoins numbers that the PDF text layer broke across lines.
// It must run before any field extraction.
func Text(raw string) string {
	t := strings.ReplaceAll(raw, "\r\n", "\n")
	t = splitAfterFraction.ReplaceAllString(t, "${1}${2}")
	t = splitAfterPoint.ReplaceAllString(t, "${1}${2}")
	return t
}

// Pages joins page texts with newlines and normalizes the result.
func Pages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		if p == "" {
			continue
		}
		b.WriteString(Text(p))
		b.WriteString("\n")
	}
	return b.String()
}
