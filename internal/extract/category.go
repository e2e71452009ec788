package extract

import (
	"path/filepath"
	"strings"

	"airledger/pkg/models"
)

// IsCreditNote reports whether a file name marks a credit note. Credit notes
// are rejected before any text is read.
func IsCreditNote(filename string) bool {
	return strings.Contains(strings.ToUpper(filepath.Base(filename)), "CREDIT")
}

// DetectCategory derives the document category from its file name.
func DetectCategory(filename string) models.Category {
	upper := strings.ToUpper(filepath.Base(filename))
	switch {
	case strings.Contains(upper, "DEBIT"):
		return models.CategoryDebit
	case strings.Contains(upper, "TAX_INVOICE"), strings.Contains(upper, "INVOICE"):
		return models.CategoryTaxInvoice
	default:
		return models.CategoryUnknown
	}
}
