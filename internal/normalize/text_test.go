package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"fraction split", "Total 10,864.0\n0 INR", "Total 10,864.00 INR"},
		{"point split", "Grand Total 11,838.\n00", "Grand Total 11,838.00"},
		{"crlf", "Invoice Number: X1\r\nTotal 10.0\r\n0", "Invoice Number: X1\nTotal 10.00"},
		{"line break between fields kept", "PNR ABC123\n996425 3,962.00", "PNR ABC123\n996425 3,962.00"},
		{"integer at line end kept", "Rate 5\n99.50", "Rate 5\n99.50"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestPages(t *testing.T) {
	got := Pages([]string{"Page one 1.\n50", "", "Page two"})
	assert.Equal(t, "Page one 1.50\nPage two\n", got)
}
