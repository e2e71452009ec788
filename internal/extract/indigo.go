package extract

import (
	"regexp"
	"strings"

	"airledger/internal/normalize"
	"airledger/pkg/models"
)

var (
	// KA1252612CR78975
	igInvoiceNumber = regexp.MustCompile(`Number\s*[:\s]*([A-Z]{2}\d+[A-Z]{2}\d+)`)
	// 21-Oct-2025, 07 Apr 2025, 07.Apr.2025
	igInvoiceDate  = regexp.MustCompile(`(?i)Date\s*[:\s]*(\d{1,2}[^\w\d]+[A-Za-z]{3}[^\w\d]+\d{4})`)
	igDateSep      = regexp.MustCompile(`[^\w\d]+`)
	igCustomerName = regexp.MustCompile(`(?i)GSTIN\s*Customer\s*Name\s*[:\s]*([A-Za-z][A-Za-z\s]+(?:Pvt|Private)?\s*(?:Ltd|Limited)?)`)
	igPassenger    = regexp.MustCompile(`(?i)Passenger\s*Name\s*[:\s]*\n?([A-Za-z][A-Za-z\s]+)`)
	igFrom         = regexp.MustCompile(`\b(?i:from)\b\s*[:\s]*([A-Z]{3})\b`)
	igTo           = regexp.MustCompile(`\b(?i:to)\b\s*[:\s]*([A-Z]{3})\b`)
)

func extractIndiGo(text string, rec *models.InvoiceRecord) {
	rec.InvoiceNumber = find(igInvoiceNumber, text)
	if d := find(igInvoiceDate, text); d != "" {
		rec.InvoiceDate = normalize.ParseDate(igDateSep.ReplaceAllString(d, "-"))
	}
	rec.VendorGSTIN = vendorGSTIN(text, gstinLabel)
	rec.CustomerGSTIN = find(customerGSTINOf, text)
	rec.CustomerName = findName(igCustomerName, text)
	rec.PNR = find(pnrLabel, text)
	rec.PassengerName = findName(igPassenger, text)

	rec.FlightFrom = find(igFrom, text)
	rec.FlightTo = indiGoDestination(text)
	rec.Routing = route(rec.FlightFrom, rec.FlightTo)

	rec.TotalAmount = lastAmount(grandTotalLine(text))

	if line, ok := findChargeLine(text); ok {
		if rec.TotalAmount.IsZero() {
			rec.TotalAmount = line.total()
		}
		rec.TaxableValue = line.taxable()
		applyTaxPairs(rec, line.taxPairs())
	}

	rec.NonTaxableValue = airportCharges(text)
}

// indiGoDestination finds the first "To XXX" that is not part of "From To".
func indiGoDestination(text string) string {
	for _, m := range igTo.FindAllStringSubmatchIndex(text, -1) {
		from := m[0] - len("From ")
		if from >= 0 && strings.EqualFold(text[from:m[0]], "From ") {
			continue
		}
		return text[m[2]:m[3]]
	}
	return ""
}
