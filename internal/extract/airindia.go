package extract

import (
	"regexp"

	"airledger/internal/gstin"
	"airledger/internal/normalize"
	"airledger/pkg/models"
)

var (
	aiInvoiceNumber = regexp.MustCompile(`(?i)(?:Invoice|Debit\s*Note)\s*Number\s*[:\s]*([A-Z0-9]+)`)
	aiInvoiceDate   = regexp.MustCompile(`(?i)(?:Invoice|Debit\s*Note)\s*Date\s*[:\s]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`)
	aiCustomerGSTIN = regexp.MustCompile(`(?i)Customer\s*GSTIN\s*[:\s]*(` + gstin.Pattern + `)`)
	aiCustomerName  = regexp.MustCompile(`Customer(?:\s*Name)?\s*:\s*([A-Z][A-Z .&]*[A-Z.])`)
	aiPassenger     = regexp.MustCompile(`(?i)Passenger\s*Name\s*[:\s]*([A-Z][A-Z\s]+(?:MR|MS|MRS)?)`)
	aiRouting       = regexp.MustCompile(`(?i)Routing\s*[:\s]*([A-Z]{6,})`)
	aiTotal         = regexp.MustCompile(`(?m)(?:^|\n)Total\s+(\d[\d,]*\.?\d*)\s*$`)

	// 996425-... 3,792.00 170.00 236.00 0.00 3,962.00 5 % 99.50 99.50 0.00 4,397.00
	aiSACLine  = regexp.MustCompile(`996425[^\n]*?(\d[\d,]*\.\d+)\s+[\d,.]+\s+[\d,.]+\s+[\d,.]+\s+(\d[\d,]*\.\d+)\s+\d+\s*%`)
	aiTaxRow   = regexp.MustCompile(`(\d[\d,]*\.\d+)\s+5\s*%\s+(\d[\d,]*\.\d+)\s+(\d[\d,]*\.\d+)\s+(\d[\d,]*\.\d+)\s+(\d[\d,]*\.\d+)`)
	aiNonTax   = regexp.MustCompile(`996425[^\n]*?\d[\d,]*\.\d{2}\s+[\d,.]+\s+(\d[\d,]*\.\d{2})\s+[\d,.]+\s+\d[\d,]*\.\d{2}\s+\d+\s*%`)
	aiFareNote = regexp.MustCompile(`(?i)Non-taxable\s*fare\s*details\s*:\s*(.+)`)
)

func extractAirIndia(text string, rec *models.InvoiceRecord) {
	rec.InvoiceNumber = find(aiInvoiceNumber, text)
	rec.VendorGSTIN = vendorGSTIN(text, gstinLabel)
	if d := find(aiInvoiceDate, text); d != "" {
		rec.InvoiceDate = normalize.ParseDate(d)
	}
	rec.CustomerGSTIN = find(aiCustomerGSTIN, text)
	rec.CustomerName = findName(aiCustomerName, text)
	rec.PNR = find(pnrLabel, text)
	rec.PassengerName = findName(aiPassenger, text)

	if r := find(aiRouting, text); len(r) >= 6 {
		rec.FlightFrom = r[:3]
		rec.FlightTo = r[3:6]
		rec.Routing = route(rec.FlightFrom, rec.FlightTo)
	}

	rec.TotalAmount = findAmount(aiTotal, text)
	rec.TaxableValue = findAmount(aiSACLine, text)

	// the "taxable 5 % cgst sgst igst total" run is authoritative when present
	if m := aiTaxRow.FindStringSubmatch(text); m != nil {
		rec.TaxableValue = normalize.ParseAmount(m[1])
		rec.CGSTAmount = normalize.ParseAmount(m[2])
		rec.SGSTAmount = normalize.ParseAmount(m[3])
		rec.IGSTAmount = normalize.ParseAmount(m[4])
		rec.TotalAmount = normalize.ParseAmount(m[5])
		rec.CGSTRate = positiveRate(rec.CGSTAmount, rateCGST)
		rec.SGSTRate = positiveRate(rec.SGSTAmount, rateCGST)
		rec.IGSTRate = positiveRate(rec.IGSTAmount, rateIGST)
	}

	if v := findAmount(aiNonTax, text); v.IsPositive() {
		rec.NonTaxableValue = v
	}
	if rec.NonTaxableValue.IsZero() {
		if note := find(aiFareNote, text); note != "" {
			rec.NonTaxableValue = sumAmounts(amount2.FindAllString(note, -1))
		}
	}
}
