package invoice_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"airledger/internal/extract"
	"airledger/internal/gstin"
	"airledger/internal/invoice"
	"airledger/internal/pdftext"
	"airledger/pkg/models"
)

// Example wires the offline pipeline: text layer, layout extractors and
// validation.
func Example() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resolver := gstin.NewResolver(nil, "GUJARAT")
	processor := invoice.NewProcessor(pdftext.NewReader(), extract.NewDispatcher(resolver), invoice.Options{})

	rec := processor.Process(ctx, "6E_TAX_INVOICE_GJ1252612AB78975.pdf")
	if rec.HasIssues() {
		fmt.Println("issues:", strings.Join(rec.Issues, "; "))
	}

	fmt.Printf("%s %s %s: %s %s\n",
		rec.Airline, rec.InvoiceNumber, rec.InvoiceDate,
		rec.TotalAmount.StringFixed(2), rec.Currency)
}

// ExampleValidate flags a total that the extracted amounts do not reach:
// 6247.10 - (5022.00 + 125.55 + 125.55) = 974.00.
func ExampleValidate() {
	rec := models.NewInvoiceRecord("INDIGO", models.CategoryTaxInvoice)
	rec.InvoiceNumber = "GJ1252612AB78975"
	rec.InvoiceDate = "07-APR-2025"
	rec.CustomerGSTIN = "24AACCN5739J1ZA"
	rec.TaxableValue = decimal.RequireFromString("5022.00")
	rec.CGSTAmount = decimal.RequireFromString("125.55")
	rec.SGSTAmount = decimal.RequireFromString("125.55")
	rec.TotalAmount = decimal.RequireFromString("6247.10")

	invoice.Validate(rec)

	for _, issue := range rec.Issues {
		fmt.Println(issue)
	}
	// Output: Amounts do not reconcile with total (difference 974.00)
}
