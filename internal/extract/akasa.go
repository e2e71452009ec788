package extract

import (
	"regexp"

	"github.com/shopspring/decimal"

	"airledger/internal/gstin"
	"airledger/internal/normalize"
	"airledger/pkg/models"
)

var (
	qpInvoiceNumber = regexp.MustCompile(`(?i)(?:Invoice|Debit\s*Note)\s*Number\s*[:\s]*([A-Z0-9]+)`)
	qpInvoiceDate   = regexp.MustCompile(`(?i)(?:Invoice|Debit\s*Note)\s*Date\s*[:\s]*(\d{1,2}-[A-Za-z]{3}-\d{4})`)
	qpCustomerGSTIN = regexp.MustCompile(`(?i)GSTIN[/\s]*Unique\s*ID\s*of\s*Customer\s*[:\s]*(` + gstin.Pattern + `)`)
	qpCustomerName  = regexp.MustCompile(`(?i)Name\s*of\s*Customer\s*[:\s]*([A-Za-z][A-Za-z\s]+(?:Pvt|Private)?\s*(?:Ltd|Limited)?)`)
	qpFlightFrom    = regexp.MustCompile(`(?i)Flight\s*From\s*[:\s]*([A-Z]{3})`)

	// 996425 taxable nontax discount total 0% 0.00 0% 0.00 5% igst total
	qpSACRow     = regexp.MustCompile(`996425\s+(\d[\d,]*\.\d+)\s+[\d,.]+\s+[\d,.]+\s+(\d[\d,]*\.\d+)[^\d]+\d+%[^\d]+[\d,.]+[^\d]+\d+%[^\d]+[\d,.]+[^\d]+5%\s+(\d[\d,]*\.\d+)\s+(\d[\d,]*\.\d+)`)
	qpSACTaxable = regexp.MustCompile(`996425\s+(\d[\d,]*\.\d{2})`)
	qpIGST5      = regexp.MustCompile(`5%\s+(\d[\d,]*\.\d{2})`)
	qpIntrastate = regexp.MustCompile(`2\.5%\s+(\d[\d,]*\.\d{2})\s+2\.5%\s+(\d[\d,]*\.\d{2})`)
)

// Grand Total columns when the discount column is present.
const (
	qpColNonTaxable = 1
	qpColNetTotal   = 3
	qpColCGST       = 4
	qpColSGST       = 5
	qpColIGST       = 6
	qpColTotal      = 7
)

func extractAkasa(text string, rec *models.InvoiceRecord) {
	rec.InvoiceNumber = find(qpInvoiceNumber, text)
	if d := find(qpInvoiceDate, text); d != "" {
		rec.InvoiceDate = normalize.ParseDate(d)
	}
	rec.VendorGSTIN = vendorGSTIN(text, gstinLabel)
	rec.CustomerGSTIN = find(qpCustomerGSTIN, text)
	rec.CustomerName = findName(qpCustomerName, text)
	rec.PNR = find(pnrLabel, text)
	if from := find(qpFlightFrom, text); from != "" {
		rec.FlightFrom = from
		rec.Routing = from
	}

	akasaGrandTotal(rec, grandTotalLine(text))
	if rec.TotalAmount.IsZero() {
		akasaChargeRow(rec, text)
	}

	if v := airportCharges(text); !v.IsZero() {
		rec.NonTaxableValue = v
	}

	if m := qpIntrastate.FindStringSubmatch(text); m != nil {
		rec.CGSTRate, rec.CGSTAmount = rateCGST, normalize.ParseAmount(m[1])
		rec.SGSTRate, rec.SGSTAmount = rateCGST, normalize.ParseAmount(m[2])
		rec.IGSTRate, rec.IGSTAmount = decimal.Zero, decimal.Zero
	}
}

// akasaGrandTotal reads [gross, non-taxable, discount, net, cgst, sgst, igst,
// total] from the Grand Total line. Shorter lines only yield the total.
func akasaGrandTotal(rec *models.InvoiceRecord, line string) {
	cols := anyDecimal.FindAllString(line, -1)
	if len(cols) < qpColTotal+1 {
		if len(cols) > 0 {
			rec.TotalAmount = normalize.ParseAmount(cols[len(cols)-1])
		}
		return
	}

	rec.NonTaxableValue = normalize.ParseAmount(cols[qpColNonTaxable])
	rec.TaxableValue = normalize.ParseAmount(cols[qpColNetTotal]).Sub(rec.NonTaxableValue)
	rec.CGSTAmount = normalize.ParseAmount(cols[qpColCGST])
	rec.SGSTAmount = normalize.ParseAmount(cols[qpColSGST])
	rec.IGSTAmount = normalize.ParseAmount(cols[qpColIGST])
	rec.TotalAmount = normalize.ParseAmount(cols[qpColTotal])

	rec.CGSTRate = positiveRate(rec.CGSTAmount, rateCGST)
	rec.SGSTRate = positiveRate(rec.SGSTAmount, rateCGST)
	if rec.IGSTAmount.IsPositive() {
		rec.IGSTRate = akasaIGSTRate(rec.IGSTAmount, rec.TaxableValue)
	}
}

// akasaIGSTRate is 5 when the effective rate is within one point of 5, else 18.
func akasaIGSTRate(igst, taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() {
		return rateIGST
	}
	effective := igst.Div(taxable).Mul(hundred)
	if effective.Sub(rateIGST).Abs().LessThan(rateDelta) {
		return rateIGST
	}
	return rateMisc
}

func akasaChargeRow(rec *models.InvoiceRecord, text string) {
	if m := qpSACRow.FindStringSubmatch(text); m != nil {
		rec.TaxableValue = normalize.ParseAmount(m[1])
		rec.IGSTAmount = normalize.ParseAmount(m[3])
		rec.IGSTRate = rateIGST
		rec.TotalAmount = normalize.ParseAmount(m[4])
		return
	}

	rec.TaxableValue = findAmount(qpSACTaxable, text)
	if m := qpIGST5.FindStringSubmatch(text); m != nil {
		rec.IGSTAmount = normalize.ParseAmount(m[1])
		rec.IGSTRate = rateIGST
	}
}
