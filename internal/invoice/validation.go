package invoice

import (
	"github.com/shopspring/decimal"

	"airledger/internal/normalize"
	"airledger/pkg/models"
)

// Issue strings recorded on invoice records. They are user-visible in the
// processing summary and must stay stable.
const (
	IssueCreditNote       = "Credit notes are not supported"
	IssueNoText           = "Could not extract text from PDF"
	IssueNoInvoiceNumber  = "Invoice number not found"
	IssueNoInvoiceDate    = "Invoice date not found"
	IssueNoCustomerGSTIN  = "Customer GSTIN not found"
	IssueNoTotal          = "Total amount not found or is zero"
	IssueMixedTaxes       = "IGST and CGST/SGST both present"
	IssueFallbackFailed   = "LLM fallback also failed"
	issueNotReconciledFmt = "Amounts do not reconcile with total (difference %s)"
)

// ReconcileTolerance is the largest accepted gap between the grand total and
// the sum of taxable, non-taxable and tax amounts.
var ReconcileTolerance = decimal.NewFromInt(1)

// Validate annotates rec with issues for missing required fields, amounts
// that do not add up to the total and mixed inter/intrastate taxes. It never
// clears existing issues or rejects the record.
func Validate(rec *models.InvoiceRecord) {
	if rec.InvoiceNumber == "" {
		rec.AddIssue(IssueNoInvoiceNumber)
	}
	if rec.InvoiceDate == "" {
		rec.AddIssue(IssueNoInvoiceDate)
	}
	if rec.CustomerGSTIN == "" {
		rec.AddIssue(IssueNoCustomerGSTIN)
	}
	if !rec.TotalAmount.IsPositive() {
		rec.AddIssue(IssueNoTotal)
	}

	if diff, ok := reconcileDifference(rec); ok && diff.GreaterThan(ReconcileTolerance) {
		rec.AddIssue(issueNotReconciledFmt, normalize.FormatAmount(diff))
	}

	if rec.IsInterstate() && rec.IsIntrastate() {
		rec.AddIssue(IssueMixedTaxes)
	}
}

// reconcileDifference returns |sum - total| when there is something to
// compare: a positive total and at least one extracted base amount.
func reconcileDifference(rec *models.InvoiceRecord) (decimal.Decimal, bool) {
	if !rec.TotalAmount.IsPositive() {
		return decimal.Zero, false
	}
	if !rec.TaxableValue.IsPositive() && !rec.NonTaxableValue.IsPositive() {
		return decimal.Zero, false
	}
	return rec.ReconciledAmount().Sub(rec.TotalAmount).Abs(), true
}

// needsFallback reports whether local extraction left the record without an
// invoice number or a usable total.
func needsFallback(rec *models.InvoiceRecord) bool {
	return rec.InvoiceNumber == "" || !rec.TotalAmount.IsPositive()
}
