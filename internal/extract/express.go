package extract

import (
	"regexp"

	"airledger/internal/gstin"
	"airledger/internal/normalize"
	"airledger/pkg/models"
)

var (
	ixInvoiceNumber = regexp.MustCompile(`(?i)Invoice\s*Number\s*[:\s]*([A-Z0-9]+)`)
	ixVendorLabel   = regexp.MustCompile(`(?i)GSTN\s*[:\s]*(` + gstin.Pattern + `)`)
	ixInvoiceDate   = regexp.MustCompile(`(?i)Invoice\s*Date\s*[:\s]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`)
	ixCustomerName  = regexp.MustCompile(`(?i)GSTIN\s*Customer\s*Name\s*[:\s]*([A-Za-z][A-Za-z\s]+(?:Pvt|Private)?\s*(?:Ltd|Limited)?)`)
	ixPNR           = regexp.MustCompile(`(?i)PNR\s*(?:No)?\s*[:\s]*([A-Z0-9]{6})`)
	ixPassenger     = regexp.MustCompile(`(?i)Passenger\s*Name\s*[:\s]*([A-Za-z][A-Za-z\s]+)`)
	ixFlightFrom    = regexp.MustCompile(`(?i)Flight\s*From\s*[:\s]*([A-Z]{3})`)
	ixFlightTo      = regexp.MustCompile(`(?i)Flight\s*To\s*[:\s]*([A-Z]{3})`)

	// Air Ticket charges 996425 31,451.42 - 31,451.42 5 % 1,572.58 33,024.00
	ixTaxable    = regexp.MustCompile(`996425\s+(\d[\d,]*\.\d{2})`)
	ixIGST       = regexp.MustCompile(`996425[^\n]*?(\d+)\s*%\s+(\d[\d,]*\.\d{2})`)
	ixAirportTax = regexp.MustCompile(`(?i)Airport\s*Taxes[^\n]*?\s(\d[\d,]*\.\d{2})\s+(\d[\d,]*\.\d{2})`)
	ixNonTaxable = regexp.MustCompile(`(?i)Non\s*Taxable[^\d]*(\d[\d,]*\.?\d*)`)
)

func extractAirIndiaExpress(text string, rec *models.InvoiceRecord) {
	rec.InvoiceNumber = find(ixInvoiceNumber, text)
	rec.VendorGSTIN = vendorGSTIN(text, ixVendorLabel)
	if d := find(ixInvoiceDate, text); d != "" {
		rec.InvoiceDate = normalize.ParseDate(d)
	}
	rec.CustomerGSTIN = find(customerGSTINOf, text)
	rec.CustomerName = findName(ixCustomerName, text)
	rec.PNR = find(ixPNR, text)
	rec.PassengerName = findName(ixPassenger, text)

	rec.FlightFrom = find(ixFlightFrom, text)
	rec.FlightTo = find(ixFlightTo, text)
	rec.Routing = route(rec.FlightFrom, rec.FlightTo)

	rec.TotalAmount = lastAmount(grandTotalLine(text))
	rec.TaxableValue = findAmount(ixTaxable, text)

	if m := ixIGST.FindStringSubmatch(text); m != nil {
		rec.IGSTRate = normalize.ParseAmount(m[1])
		rec.IGSTAmount = normalize.ParseAmount(m[2])
	}

	rec.NonTaxableValue = findAmount(ixAirportTax, text)
	if rec.NonTaxableValue.IsZero() {
		if v := findAmount(ixNonTaxable, text); v.IsPositive() {
			rec.NonTaxableValue = v
		}
	}
}
