package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"airledger/pkg/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func completeRecord() *models.InvoiceRecord {
	rec := models.NewInvoiceRecord("INDIGO", models.CategoryTaxInvoice)
	rec.InvoiceNumber = "GJ1252612AB78975"
	rec.InvoiceDate = "07-APR-2025"
	rec.CustomerGSTIN = "24AACCN5739J1ZA"
	rec.TaxableValue = dec("5022.00")
	rec.NonTaxableValue = dec("974.00")
	rec.CGSTAmount = dec("125.55")
	rec.SGSTAmount = dec("125.55")
	rec.TotalAmount = dec("6247.10")
	return rec
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.InvoiceRecord)
		want   []string
	}{
		{
			name:   "complete",
			modify: func(*models.InvoiceRecord) {},
			want:   []string{},
		},
		{
			name: "required fields missing",
			modify: func(r *models.InvoiceRecord) {
				*r = *models.NewInvoiceRecord("INDIGO", models.CategoryTaxInvoice)
			},
			want: []string{IssueNoInvoiceNumber, IssueNoInvoiceDate, IssueNoCustomerGSTIN, IssueNoTotal},
		},
		{
			name:   "difference above tolerance",
			modify: func(r *models.InvoiceRecord) { r.TotalAmount = dec("6252.10") },
			want:   []string{"Amounts do not reconcile with total (difference 5.00)"},
		},
		{
			name:   "difference within tolerance",
			modify: func(r *models.InvoiceRecord) { r.TotalAmount = dec("6248.10") },
			want:   []string{},
		},
		{
			name: "total only",
			modify: func(r *models.InvoiceRecord) {
				r.TaxableValue = decimal.Zero
				r.NonTaxableValue = decimal.Zero
				r.CGSTAmount = decimal.Zero
				r.SGSTAmount = decimal.Zero
			},
			want: []string{},
		},
		{
			name:   "mixed taxes",
			modify: func(r *models.InvoiceRecord) { r.IGSTAmount = dec("1.00"); r.TotalAmount = dec("6248.10") },
			want:   []string{IssueMixedTaxes},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := completeRecord()
			tt.modify(rec)
			Validate(rec)
			assert.Equal(t, tt.want, rec.Issues)
		})
	}
}

func TestValidateKeepsExistingIssues(t *testing.T) {
	rec := completeRecord()
	rec.AddIssue("earlier")
	Validate(rec)
	assert.Equal(t, []string{"earlier"}, rec.Issues)
}

func TestNeedsFallback(t *testing.T) {
	rec := completeRecord()
	assert.False(t, needsFallback(rec))

	rec.TotalAmount = decimal.Zero
	assert.True(t, needsFallback(rec))

	rec = completeRecord()
	rec.InvoiceNumber = ""
	assert.True(t, needsFallback(rec))
}
