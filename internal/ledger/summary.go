package ledger

import (
	"strings"

	"airledger/internal/normalize"
	"airledger/pkg/models"
)

// Summary warnings.
const (
	WarnOrgBranchEmpty      = "Org Branch Empty"
	WarnVendorNotInMap      = "Vendor GSTIN not in Map (State Fallback used)"
	WarnCustomerBranchEmpty = "Customer Branch Empty"
)

const notAvailable = "N/A"

// Document is one processed input: its record, the ledger rows it produced
// and its summary line. Failed documents carry no rows.
type Document struct {
	Record  *models.InvoiceRecord `json:"record"`
	Rows    []models.LedgerRow    `json:"rows"`
	Summary models.SummaryRow     `json:"summary"`
}

// Build produces the rows and summary line for one record. Records that failed
// extraction are kept out of the ledger and reported as Failed.
func (b *Builder) Build(rec *models.InvoiceRecord) Document {
	if rec.Failed() {
		return Document{Record: rec, Summary: failedSummary(rec)}
	}
	rows := b.Rows(rec)
	return Document{Record: rec, Rows: rows, Summary: b.summarize(rec, rows[0])}
}

func failedSummary(rec *models.InvoiceRecord) models.SummaryRow {
	invoiceNo := rec.InvoiceNumber
	if invoiceNo == "" {
		invoiceNo = notAvailable
	}
	return models.SummaryRow{
		Status:           models.StatusFailed,
		Issues:           strings.Join(rec.Issues, "; "),
		FileName:         fileLabel(rec),
		InvoiceNo:        invoiceNo,
		Airline:          rec.Airline,
		VendorGSTIN:      rec.VendorGSTIN,
		MappedOrgBranch:  notAvailable,
		InVendorMap:      notAvailable,
		CustomerGSTIN:    rec.CustomerGSTIN,
		MappedCustBranch: notAvailable,
		Amount:           normalize.FormatAmount(rec.TotalAmount),
	}
}

// summarize checks the first row for mapping gaps. Extraction issues on a
// record that still produced rows are carried over as warnings.
func (b *Builder) summarize(rec *models.InvoiceRecord, first models.LedgerRow) models.SummaryRow {
	issues := append([]string{}, rec.Issues...)

	if first.OrganizationBranch == "" {
		issues = append(issues, WarnOrgBranchEmpty)
	}
	_, inMap := b.resolver.VendorBranch(rec.VendorGSTIN)
	if rec.VendorGSTIN != "" && !inMap {
		issues = append(issues, WarnVendorNotInMap)
	}
	if first.Branch == "" {
		issues = append(issues, WarnCustomerBranchEmpty)
	}

	status := models.StatusSuccess
	if len(issues) > 0 {
		status = models.StatusWarning
	}

	return models.SummaryRow{
		Status:           status,
		Issues:           strings.Join(issues, "; "),
		FileName:         fileLabel(rec),
		InvoiceNo:        rec.InvoiceNumber,
		Airline:          rec.Airline,
		VendorGSTIN:      rec.VendorGSTIN,
		MappedOrgBranch:  first.OrganizationBranch,
		InVendorMap:      yesNo(inMap),
		CustomerGSTIN:    rec.CustomerGSTIN,
		MappedCustBranch: first.Branch,
		Amount:           first.Amount,
	}
}

func fileLabel(rec *models.InvoiceRecord) string {
	if rec.Filename == "" {
		return "Unknown"
	}
	return rec.Filename
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Counts tallies summary statuses.
type Counts struct {
	Success int
	Warning int
	Failed  int
}

// Tally counts the statuses of docs.
func Tally(docs []Document) Counts {
	var c Counts
	for _, d := range docs {
		switch d.Summary.Status {
		case models.StatusSuccess:
			c.Success++
		case models.StatusWarning:
			c.Warning++
		case models.StatusFailed:
			c.Failed++
		}
	}
	return c
}
