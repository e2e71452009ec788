package models

// LedgerHeaders is the literal header row of the accounting upload.
// " Charge Narration" carries a leading space in the portal template.
var LedgerHeaders = []string{
	"Entry Date",
	"Posting Date",
	"Organization",
	"Organization Branch",
	"Vendor Inv No",
	"Vendor Inv Date",
	"Currency",
	"ExchRate",
	"Narration",
	"Due Date",
	"Charge or GL",
	"Charge or GL Name",
	"Charge or GL Amount",
	"DR or CR",
	"Cost Center",
	"Branch",
	" Charge Narration",
	"TaxGroup",
	"Tax Type",
	"SAC or HSN",
	"Taxcode1",
	"Taxcode1 Amt",
	"Taxcode2",
	"Taxcode2 Amt",
	"Taxcode3",
	"Taxcode3 Amt",
	"Taxcode4",
	"Taxcode4 Amt",
	"Avail Tax Credit",
	"LOB",
	"Ref Type",
	"Ref No",
	"Amount",
	"Start Date",
	"End Date",
	"WH Tax Code",
	"WH Tax Percentage",
	"WH Tax Taxable",
	"WH Tax Amount",
	"Round Off",
	"CC Code",
}

// LedgerRow is one line of the accounting upload. Field order matches LedgerHeaders.
type LedgerRow struct {
	EntryDate          string `csv:"Entry Date" json:"entry_date"`
	PostingDate        string `csv:"Posting Date" json:"posting_date"`
	Organization       string `csv:"Organization" json:"organization"`
	OrganizationBranch string `csv:"Organization Branch" json:"organization_branch"`
	VendorInvNo        string `csv:"Vendor Inv No" json:"vendor_inv_no"`
	VendorInvDate      string `csv:"Vendor Inv Date" json:"vendor_inv_date"`
	Currency           string `csv:"Currency" json:"currency"`
	ExchRate           string `csv:"ExchRate" json:"exch_rate"`
	Narration          string `csv:"Narration" json:"narration"`
	DueDate            string `csv:"Due Date" json:"due_date"`
	ChargeOrGL         string `csv:"Charge or GL" json:"charge_or_gl"`
	ChargeOrGLName     string `csv:"Charge or GL Name" json:"charge_or_gl_name"`
	ChargeOrGLAmount   string `csv:"Charge or GL Amount" json:"charge_or_gl_amount"`
	DrOrCr             string `csv:"DR or CR" json:"dr_or_cr"`
	CostCenter         string `csv:"Cost Center" json:"cost_center"`
	Branch             string `csv:"Branch" json:"branch"`
	ChargeNarration    string `csv:"Charge Narration" json:"charge_narration"`
	TaxGroup           string `csv:"TaxGroup" json:"tax_group"`
	TaxType            string `csv:"Tax Type" json:"tax_type"`
	SACOrHSN           string `csv:"SAC or HSN" json:"sac_or_hsn"`
	Taxcode1           string `csv:"Taxcode1" json:"taxcode1"`
	Taxcode1Amt        string `csv:"Taxcode1 Amt" json:"taxcode1_amt"`
	Taxcode2           string `csv:"Taxcode2" json:"taxcode2"`
	Taxcode2Amt        string `csv:"Taxcode2 Amt" json:"taxcode2_amt"`
	Taxcode3           string `csv:"Taxcode3" json:"taxcode3"`
	Taxcode3Amt        string `csv:"Taxcode3 Amt" json:"taxcode3_amt"`
	Taxcode4           string `csv:"Taxcode4" json:"taxcode4"`
	Taxcode4Amt        string `csv:"Taxcode4 Amt" json:"taxcode4_amt"`
	AvailTaxCredit     string `csv:"Avail Tax Credit" json:"avail_tax_credit"`
	LOB                string `csv:"LOB" json:"lob"`
	RefType            string `csv:"Ref Type" json:"ref_type"`
	RefNo              string `csv:"Ref No" json:"ref_no"`
	Amount             string `csv:"Amount" json:"amount"`
	StartDate          string `csv:"Start Date" json:"start_date"`
	EndDate            string `csv:"End Date" json:"end_date"`
	WHTaxCode          string `csv:"WH Tax Code" json:"wh_tax_code"`
	WHTaxPercentage    string `csv:"WH Tax Percentage" json:"wh_tax_percentage"`
	WHTaxTaxable       string `csv:"WH Tax Taxable" json:"wh_tax_taxable"`
	WHTaxAmount        string `csv:"WH Tax Amount" json:"wh_tax_amount"`
	RoundOff           string `csv:"Round Off" json:"round_off"`
	CCCode             string `csv:"CC Code" json:"cc_code"`
}

// Values returns the row cells in LedgerHeaders order.
func (r LedgerRow) Values() []string {
	return []string{
		r.EntryDate, r.PostingDate, r.Organization, r.OrganizationBranch,
		r.VendorInvNo, r.VendorInvDate, r.Currency, r.ExchRate,
		r.Narration, r.DueDate, r.ChargeOrGL, r.ChargeOrGLName,
		r.ChargeOrGLAmount, r.DrOrCr, r.CostCenter, r.Branch,
		r.ChargeNarration, r.TaxGroup, r.TaxType, r.SACOrHSN,
		r.Taxcode1, r.Taxcode1Amt, r.Taxcode2, r.Taxcode2Amt,
		r.Taxcode3, r.Taxcode3Amt, r.Taxcode4, r.Taxcode4Amt,
		r.AvailTaxCredit, r.LOB, r.RefType, r.RefNo,
		r.Amount, r.StartDate, r.EndDate, r.WHTaxCode,
		r.WHTaxPercentage, r.WHTaxTaxable, r.WHTaxAmount, r.RoundOff,
		r.CCCode,
	}
}

// Summary statuses
const (
	StatusSuccess = "Success"
	StatusWarning = "Warning"
	StatusFailed  = "Failed"
)

// SummaryHeaders is the header row of the processing summary report.
var SummaryHeaders = []string{
	"Status",
	"Issues",
	"File Name",
	"Invoice No",
	"Airline",
	"Vendor GSTIN",
	"Mapped Org Branch",
	"In Vendor Map?",
	"Customer GSTIN",
	"Mapped Cust Branch",
	"Amount",
}

// SummaryRow is one line of the processing summary, one per input document.
type SummaryRow struct {
	Status           string `csv:"Status" json:"status"`
	Issues           string `csv:"Issues" json:"issues"`
	FileName         string `csv:"File Name" json:"file_name"`
	InvoiceNo        string `csv:"Invoice No" json:"invoice_no"`
	Airline          string `csv:"Airline" json:"airline"`
	VendorGSTIN      string `csv:"Vendor GSTIN" json:"vendor_gstin"`
	MappedOrgBranch  string `csv:"Mapped Org Branch" json:"mapped_org_branch"`
	InVendorMap      string `csv:"In Vendor Map?" json:"in_vendor_map"`
	CustomerGSTIN    string `csv:"Customer GSTIN" json:"customer_gstin"`
	MappedCustBranch string `csv:"Mapped Cust Branch" json:"mapped_cust_branch"`
	Amount           string `csv:"Amount" json:"amount"`
}

// Values returns the row cells in SummaryHeaders order.
func (r SummaryRow) Values() []string {
	return []string{
		r.Status, r.Issues, r.FileName, r.InvoiceNo, r.Airline, r.VendorGSTIN,
		r.MappedOrgBranch, r.InVendorMap, r.CustomerGSTIN, r.MappedCustBranch, r.Amount,
	}
}
