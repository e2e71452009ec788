package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category is the document category derived from the source filename.
type Category string

const (
	CategoryTaxInvoice Category = "TAX_INVOICE"
	CategoryDebit      Category = "DEBIT"
	CategoryUnknown    Category = "UNKNOWN"
)

// DefaultCurrency is used when a record carries no currency code.
const DefaultCurrency = "INR"

// InvoiceRecord is the canonical extracted representation of one airline invoice.
// Text fields default to "", amounts and rates default to zero.
type InvoiceRecord struct {
	// Source
	Airline  string   `json:"airline"`  // vendor identifier, e.g. "INDIGO"
	Filename string   `json:"filename"` // base name of the source PDF
	Category Category `json:"invoice_type"`

	// Document identity
	InvoiceNumber string `json:"invoice_number"` // invoice or debit note number
	InvoiceDate   string `json:"invoice_date"`   // DD-MMM-YYYY

	// Parties
	CustomerName  string `json:"customer_name"`
	CustomerGSTIN string `json:"customer_gstin"`
	VendorGSTIN   string `json:"vendor_gstin"`
	PlaceOfSupply string `json:"place_of_supply"` // state name resolved from the customer GSTIN
	StateCode     string `json:"state_code"`      // first two characters of the customer GSTIN

	// Amounts
	Currency        string          `json:"currency"`
	TaxableValue    decimal.Decimal `json:"taxable_value"`
	NonTaxableValue decimal.Decimal `json:"non_taxable_value"`
	CGSTRate        decimal.Decimal `json:"cgst_rate"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount"`
	SGSTRate        decimal.Decimal `json:"sgst_rate"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount"`
	IGSTRate        decimal.Decimal `json:"igst_rate"`
	IGSTAmount      decimal.Decimal `json:"igst_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`

	// Travel details
	PNR           string `json:"pnr"`
	PassengerName string `json:"passenger_name"`
	Routing       string `json:"routing"`
	FlightFrom    string `json:"flight_from"`
	FlightTo      string `json:"flight_to"`

	Issues []string `json:"extraction_errors"`
}

// NewInvoiceRecord creates an empty record for the given airline and category.
func NewInvoiceRecord(airline string, category Category) *InvoiceRecord {
	return &InvoiceRecord{
		Airline:  airline,
		Category: category,
		Currency: DefaultCurrency,
		Issues:   []string{},
	}
}

// AddIssue appends an extraction issue to the record.
func (r *InvoiceRecord) AddIssue(format string, args ...interface{}) {
	if len(args) == 0 {
		r.Issues = append(r.Issues, format)
		return
	}
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// HasIssues reports whether any issue was recorded.
func (r *InvoiceRecord) HasIssues() bool {
	return len(r.Issues) > 0
}

// Failed reports whether the record must be excluded from ledger output:
// extraction produced issues and no invoice number.
func (r *InvoiceRecord) Failed() bool {
	return r.HasIssues() && r.InvoiceNumber == ""
}

// TaxAmount is the sum of CGST, SGST and IGST.
func (r *InvoiceRecord) TaxAmount() decimal.Decimal {
	return r.CGSTAmount.Add(r.SGSTAmount).Add(r.IGSTAmount)
}

// ReconciledAmount is taxable + non-taxable + all tax amounts.
func (r *InvoiceRecord) ReconciledAmount() decimal.Decimal {
	return r.TaxableValue.Add(r.NonTaxableValue).Add(r.TaxAmount())
}

// IsInterstate reports whether IGST is present.
func (r *InvoiceRecord) IsInterstate() bool {
	return r.IGSTAmount.IsPositive()
}

// IsIntrastate reports whether CGST or SGST is present.
func (r *InvoiceRecord) IsIntrastate() bool {
	return r.CGSTAmount.IsPositive() || r.SGSTAmount.IsPositive()
}
