package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airledger/pkg/models"
)

func TestSelectPriority(t *testing.T) {
	d := NewDispatcher(nil)

	tests := []struct {
		name string
		text string
		want Vendor
	}{
		{"express before air india", "AIR INDIA EXPRESS LIMITED\nformerly AIR INDIA LTD", VendorAirIndiaExpress},
		{"air india", "Air India Ltd\nTax Invoice", VendorAirIndia},
		{"indigo by brand", "IndiGo boarding", VendorIndiGo},
		{"indigo by entity", "INTERGLOBE AVIATION LIMITED", VendorIndiGo},
		{"akasa by brand", "Akasa Air", VendorAkasa},
		{"akasa by entity", "snv aviation private limited", VendorAkasa},
		{"gulf air", "Gulf Air B.S.C.", VendorGulfAir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := d.Select(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Vendor)
		})
	}
}

func TestSelectNoMatch(t *testing.T) {
	d := NewDispatcher(nil)

	_, ok := d.Select("Lufthansa invoice")
	assert.False(t, ok)

	// "AIR INDIA" alone is not the Air India Ltd layout
	_, ok = d.Select("AIR INDIA")
	assert.False(t, ok)
}

func TestExtractUnknownFormat(t *testing.T) {
	rec := NewDispatcher(nil).Extract("Some other carrier\nInvoice Number : X1", models.CategoryTaxInvoice)

	assert.Equal(t, []string{IssueUnknownFormat}, rec.Issues)
	assert.Empty(t, rec.Airline)
	assert.Empty(t, rec.InvoiceNumber)
	assert.True(t, rec.TotalAmount.IsZero())
}

func TestOrganization(t *testing.T) {
	assert.Equal(t, "AIR INDIA EXPRESS LIMITED", Organization("AIR INDIA EXPRESS"))
	assert.Equal(t, "AIR INDIA LTD", Organization("Air India"))
	assert.Equal(t, "InterGlobe Aviation Limited", Organization("INDIGO"))
	assert.Equal(t, "SNV Aviation Private Limited", Organization("AKASA AIR"))
	assert.Equal(t, "Gulf Air B.S.C. (c)", Organization("GULF AIR"))
	assert.Equal(t, "VISTARA", Organization("Vistara"))
	assert.Equal(t, "", Organization(""))
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		filename string
		want     models.Category
	}{
		{"6E_TAX_INVOICE_123.pdf", models.CategoryTaxInvoice},
		{"/in/AI_invoice_0042.PDF", models.CategoryTaxInvoice},
		{"QP_Debit_Note_7.pdf", models.CategoryDebit},
		{"scan_0001.pdf", models.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCategory(tt.filename))
		})
	}
}

func TestIsCreditNote(t *testing.T) {
	assert.True(t, IsCreditNote("6E_Credit_Note_55.pdf"))
	assert.True(t, IsCreditNote("/data/CREDITNOTE.pdf"))
	assert.False(t, IsCreditNote("/credit/6E_TAX_INVOICE.pdf"))
}
