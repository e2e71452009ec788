// Package ledger converts extracted invoice records into accounting upload rows,
// the processing summary, and the files that carry them.
package ledger

import (
	"strings"
	"time"

	"airledger/internal/extract"
	"airledger/internal/gstin"
	"airledger/internal/normalize"
	"airledger/pkg/models"
)

// Expense heads and their service codes.
const (
	ExpenseTravel = "TRAVELLING EXPENSES"
	ExpenseMisc   = "TRAVELLING EXP. (AIRLINE MISC CHARGES)"
	SACTravel     = "996425"
	SACMisc       = "996429"
)

// Charge narrations.
const (
	NarrationBaseFare = "Base Fare"
	NarrationAirport  = "Airport Charges"
)

// Tax types and codes.
const (
	TaxTypeTaxable    = "Taxable"
	TaxTypeNonTaxable = "Non-Taxable"

	TaxCodeIGST = "IGST"
	TaxCodeCGST = "CGST"
	TaxCodeSGST = "SGST"

	TaxGroupGSTIN = "GSTIN"
)

const (
	exchRate   = "1"
	debit      = "Dr"
	roundOff   = "Yes"
	fullCredit = "100"
	noCredit   = "Yes"
)

// miscChargeRate marks ancillary charges rather than base fare.
var miscChargeRate = normalize.ParseAmount("18")

// TaxCode is one tax-code column pair.
type TaxCode struct {
	Code   string
	Amount string
}

// AssignTaxCodes maps the record's tax amounts onto up to four tax-code slots.
// IGST excludes CGST/SGST. SGST alone is placed in the first slot.
func AssignTaxCodes(rec *models.InvoiceRecord) [4]TaxCode {
	var codes [4]TaxCode
	switch {
	case rec.IGSTAmount.IsPositive():
		codes[0] = TaxCode{TaxCodeIGST, normalize.FormatAmount(rec.IGSTAmount)}
	case rec.CGSTAmount.IsPositive():
		codes[0] = TaxCode{TaxCodeCGST, normalize.FormatAmount(rec.CGSTAmount)}
		if rec.SGSTAmount.IsPositive() {
			codes[1] = TaxCode{TaxCodeSGST, normalize.FormatAmount(rec.SGSTAmount)}
		}
	case rec.SGSTAmount.IsPositive():
		codes[0] = TaxCode{TaxCodeSGST, normalize.FormatAmount(rec.SGSTAmount)}
	}
	return codes
}

// Narration renders the fixed narration template for a record.
func Narration(rec *models.InvoiceRecord) string {
	var b strings.Builder
	b.WriteString("BEING AMOUNT PAYABLE TO ")
	b.WriteString(extract.Organization(rec.Airline))
	if rec.Routing != "" {
		b.WriteString(" FROM ")
		b.WriteString(rec.Routing)
	}
	if rec.PNR != "" {
		b.WriteString(" PNR:")
		b.WriteString(rec.PNR)
	}
	if rec.PassengerName != "" {
		b.WriteString(" PAX:")
		b.WriteString(rec.PassengerName)
	}
	return b.String()
}

// Builder produces ledger rows. It is safe for concurrent use.
type Builder struct {
	resolver  *gstin.Resolver
	entryDate string
}

// NewBuilder creates a builder stamping rows with entryDate as entry, posting
// and due date.
func NewBuilder(resolver *gstin.Resolver, entryDate time.Time) *Builder {
	if resolver == nil {
		resolver = gstin.NewResolver(nil, "")
	}
	return &Builder{
		resolver:  resolver,
		entryDate: normalize.FormatDate(entryDate),
	}
}

// EntryDate returns the formatted entry date.
func (b *Builder) EntryDate() string {
	return b.entryDate
}

// Rows converts one record into its ledger rows: a taxable row, a non-taxable
// row, or both, and never zero rows. Row order is taxable first.
func (b *Builder) Rows(rec *models.InvoiceRecord) []models.LedgerRow {
	var rows []models.LedgerRow

	if rec.TaxableValue.IsPositive() || (rec.TotalAmount.IsPositive() && rec.NonTaxableValue.IsZero()) {
		rows = append(rows, b.row(rec, false))
	}
	if rec.NonTaxableValue.IsPositive() {
		rows = append(rows, b.row(rec, true))
	}
	if len(rows) == 0 {
		rows = append(rows, b.row(rec, false))
	}
	return rows
}

func (b *Builder) row(rec *models.InvoiceRecord, nonTaxable bool) models.LedgerRow {
	orgBranch, _ := b.resolver.VendorBranch(rec.VendorGSTIN)
	currency := rec.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	row := models.LedgerRow{
		EntryDate:          b.entryDate,
		PostingDate:        b.entryDate,
		Organization:       extract.Organization(rec.Airline),
		OrganizationBranch: orgBranch,
		VendorInvNo:        rec.InvoiceNumber,
		VendorInvDate:      rec.InvoiceDate,
		Currency:           currency,
		ExchRate:           exchRate,
		Narration:          Narration(rec),
		DueDate:            b.entryDate,
		DrOrCr:             debit,
		Branch:             b.resolver.CustomerBranch(rec.CustomerGSTIN, rec.StateCode),
		Amount:             normalize.FormatAmount(rec.ReconciledAmount()),
		RoundOff:           roundOff,
	}

	if nonTaxable {
		row.ChargeOrGL = ExpenseTravel
		row.ChargeOrGLName = ExpenseTravel
		row.ChargeOrGLAmount = normalize.FormatAmount(rec.NonTaxableValue)
		row.ChargeNarration = NarrationAirport
		row.TaxType = TaxTypeNonTaxable
		return row
	}

	expense, sac := ExpenseTravel, SACTravel
	if rec.IGSTRate.Equal(miscChargeRate) {
		expense, sac = ExpenseMisc, SACMisc
	}
	amount := rec.TotalAmount
	if rec.TaxableValue.IsPositive() {
		amount = rec.TaxableValue
	}

	codes := AssignTaxCodes(rec)
	row.ChargeOrGL = expense
	row.ChargeOrGLName = expense
	row.ChargeOrGLAmount = normalize.FormatAmount(amount)
	row.ChargeNarration = NarrationBaseFare
	row.TaxType = TaxTypeTaxable
	row.SACOrHSN = sac
	row.Taxcode1, row.Taxcode1Amt = codes[0].Code, codes[0].Amount
	row.Taxcode2, row.Taxcode2Amt = codes[1].Code, codes[1].Amount
	row.Taxcode3, row.Taxcode3Amt = codes[2].Code, codes[2].Amount
	row.Taxcode4, row.Taxcode4Amt = codes[3].Code, codes[3].Amount
	if rec.CustomerGSTIN != "" {
		row.TaxGroup = TaxGroupGSTIN
	}
	row.AvailTaxCredit = noCredit
	if rec.TaxAmount().IsPositive() {
		row.AvailTaxCredit = fullCredit
	}
	return row
}
