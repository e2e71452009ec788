package extract

import (
	"regexp"

	"airledger/internal/normalize"
	"airledger/pkg/models"
)

var (
	// TKMHP/2510/04496
	gfInvoiceNumber = regexp.MustCompile(`(?i)Invoice\s*No\s*[:\s]*([A-Z0-9/]+)`)
	gfInvoiceDate   = regexp.MustCompile(`(?i)Invoice\s*Date\s*[:\s]*(\d{1,2}-\d{1,2}-\d{4})`)
	gfCustomerName  = regexp.MustCompile(`(?i)Customer\s*Name\s*[:\s]*([A-Z][A-Z\s]+(?:PRIVATE\s+)?(?:LIMITED|LTD)?)`)
	gfTicket        = regexp.MustCompile(`(?i)Ticket\s*/\s*Document\s*No\s*[:\s]*(\d+)`)
	gfTaxable       = regexp.MustCompile(`(?i)(?:^|[^-\w])Taxable\s*Value[^\d]*(\d[\d,]*\.?\d*)`)
	gfNonTaxable    = regexp.MustCompile(`(?i)Non-Taxable\s*Value[^\d]*(\d[\d,]*\.?\d*)`)
	gfTotal         = regexp.MustCompile(`(?i)Total\s*\(including\s*taxes\)[^\d]*(\d[\d,]*\.?\d*)`)
	gfIGST          = regexp.MustCompile(`(?i)Integrated\s*Tax\s*\(IGST\)\s*(\d+)%\s*(\d[\d,]*\.?\d*)`)
)

func extractGulfAir(text string, rec *models.InvoiceRecord) {
	rec.InvoiceNumber = find(gfInvoiceNumber, text)
	if d := find(gfInvoiceDate, text); d != "" {
		rec.InvoiceDate = normalize.ParseDate(d)
	}
	rec.VendorGSTIN = vendorGSTIN(text, gstinLabel)
	rec.CustomerGSTIN = find(customerGSTINOf, text)
	rec.CustomerName = findName(gfCustomerName, text)
	// ticket number stands in for the booking reference
	rec.PNR = find(gfTicket, text)

	rec.TaxableValue = findAmount(gfTaxable, text)
	rec.NonTaxableValue = findAmount(gfNonTaxable, text)
	rec.TotalAmount = findAmount(gfTotal, text)

	if m := gfIGST.FindStringSubmatch(text); m != nil {
		rec.IGSTRate = normalize.ParseAmount(m[1])
		rec.IGSTAmount = normalize.ParseAmount(m[2])
	}
}
