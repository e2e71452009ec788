package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airledger/internal/gstin"
	"airledger/internal/normalize"
	"airledger/pkg/models"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return normalize.Text(string(raw))
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

type wantRecord struct {
	airline       string
	invoiceNumber string
	invoiceDate   string
	vendorGSTIN   string
	customerGSTIN string
	customerName  string
	stateCode     string
	placeOfSupply string
	pnr           string
	passenger     string
	routing       string
	taxable       string
	nonTaxable    string
	cgstRate      string
	cgst          string
	sgstRate      string
	sgst          string
	igstRate      string
	igst          string
	total         string
}

func TestDispatcherExtractFixtures(t *testing.T) {
	d := NewDispatcher(gstin.NewResolver(nil, ""))

	tests := []struct {
		fixture string
		want    wantRecord
	}{
		{
			fixture: "airindia.txt",
			want: wantRecord{
				airline:       "AIR INDIA",
				invoiceNumber: "AI2425GJ0012345",
				invoiceDate:   "15-MAY-2025",
				vendorGSTIN:   "24AABCI2726B1Z8",
				customerGSTIN: "24AACCN5739J1ZA",
				customerName:  "NAVITAS TRAVEL PRIVATE LIMITED",
				stateCode:     "24",
				placeOfSupply: "GUJARAT",
				pnr:           "ABC123",
				passenger:     "SHAH RAHUL MR",
				routing:       "AMD TO BOM",
				taxable:       "3962.00",
				nonTaxable:    "236.00",
				cgstRate:      "2.5",
				cgst:          "99.50",
				sgstRate:      "2.5",
				sgst:          "99.50",
				igstRate:      "0",
				igst:          "0",
				total:         "4397.00",
			},
		},
		{
			fixture: "airindia_express.txt",
			want: wantRecord{
				airline:       "AIR INDIA EXPRESS",
				invoiceNumber: "IX2526KL000456",
				invoiceDate:   "02-JUN-2025",
				vendorGSTIN:   "32AABCI2726B1ZB",
				customerGSTIN: "33AACCN5739J1ZB",
				customerName:  "Navitas Travel Pvt Ltd",
				stateCode:     "33",
				placeOfSupply: "TAMIL NADU",
				pnr:           "XY9Z8W",
				passenger:     "Priya Nair",
				routing:       "COK TO MAA",
				taxable:       "31451.42",
				nonTaxable:    "1772.00",
				cgstRate:      "0",
				cgst:          "0",
				sgstRate:      "0",
				sgst:          "0",
				igstRate:      "5",
				igst:          "1572.58",
				total:         "34796.00",
			},
		},
		{
			fixture: "indigo.txt",
			want: wantRecord{
				airline:       "INDIGO",
				invoiceNumber: "GJ1252612AB78975",
				invoiceDate:   "07-APR-2025",
				vendorGSTIN:   "24AACCN6194P1ZV",
				customerGSTIN: "24AACCN5739J1ZA",
				customerName:  "Navitas Travel Private Limited",
				stateCode:     "24",
				placeOfSupply: "GUJARAT",
				pnr:           "QW8E7R",
				passenger:     "Amit Patel",
				routing:       "AMD TO DEL",
				taxable:       "5022.00",
				nonTaxable:    "974.00",
				cgstRate:      "2.5",
				cgst:          "125.55",
				sgstRate:      "2.5",
				sgst:          "125.55",
				igstRate:      "0",
				igst:          "0",
				total:         "6247.10",
			},
		},
		{
			fixture: "akasa.txt",
			want: wantRecord{
				airline:       "AKASA AIR",
				invoiceNumber: "QP25MH00012345",
				invoiceDate:   "22-OCT-2025",
				vendorGSTIN:   "27ABECS9580P1ZC",
				customerGSTIN: "24AACCN5739J1ZA",
				customerName:  "Navitas Travel Pvt Ltd",
				stateCode:     "24",
				placeOfSupply: "GUJARAT",
				pnr:           "K7L8M9",
				routing:       "BOM",
				taxable:       "10120.00",
				nonTaxable:    "1018.00",
				cgstRate:      "0",
				cgst:          "0",
				sgstRate:      "0",
				sgst:          "0",
				igstRate:      "5",
				igst:          "506.00",
				total:         "11644.00",
			},
		},
		{
			fixture: "gulfair.txt",
			want: wantRecord{
				airline:       "GULF AIR",
				invoiceNumber: "TKMHP/2510/04496",
				invoiceDate:   "21-OCT-2025",
				vendorGSTIN:   "07AABCG1234H1Z5",
				customerGSTIN: "27AACCN5739J1Z4",
				customerName:  "NAVITAS TRAVEL PRIVATE LIMITED",
				stateCode:     "27",
				placeOfSupply: "MAHARASHTRA",
				pnr:           "0722401234567",
				taxable:       "12000.00",
				nonTaxable:    "3450.00",
				cgstRate:      "0",
				cgst:          "0",
				sgstRate:      "0",
				sgst:          "0",
				igstRate:      "18",
				igst:          "2160.00",
				total:         "17610.00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			rec := d.Extract(loadFixture(t, tt.fixture), models.CategoryTaxInvoice)
			w := tt.want

			assert.Empty(t, rec.Issues)
			assert.Equal(t, w.airline, rec.Airline)
			assert.Equal(t, models.CategoryTaxInvoice, rec.Category)
			assert.Equal(t, w.invoiceNumber, rec.InvoiceNumber)
			assert.Equal(t, w.invoiceDate, rec.InvoiceDate)
			assert.Equal(t, w.vendorGSTIN, rec.VendorGSTIN)
			assert.Equal(t, w.customerGSTIN, rec.CustomerGSTIN)
			assert.Equal(t, w.customerName, rec.CustomerName)
			assert.Equal(t, w.stateCode, rec.StateCode)
			assert.Equal(t, w.placeOfSupply, rec.PlaceOfSupply)
			assert.Equal(t, w.pnr, rec.PNR)
			assert.Equal(t, w.passenger, rec.PassengerName)
			assert.Equal(t, w.routing, rec.Routing)
			assert.Equal(t, "INR", rec.Currency)

			assertAmount(t, w.taxable, rec.TaxableValue, "taxable")
			assertAmount(t, w.nonTaxable, rec.NonTaxableValue, "non-taxable")
			assertAmount(t, w.cgstRate, rec.CGSTRate, "cgst rate")
			assertAmount(t, w.cgst, rec.CGSTAmount, "cgst")
			assertAmount(t, w.sgstRate, rec.SGSTRate, "sgst rate")
			assertAmount(t, w.sgst, rec.SGSTAmount, "sgst")
			assertAmount(t, w.igstRate, rec.IGSTRate, "igst rate")
			assertAmount(t, w.igst, rec.IGSTAmount, "igst")
			assertAmount(t, w.total, rec.TotalAmount, "total")

			// every fixture reconciles exactly
			assert.True(t, rec.ReconciledAmount().Equal(rec.TotalAmount))
		})
	}
}

func TestAirIndiaFareNoteFallback(t *testing.T) {
	text := `AIR INDIA LTD
Debit Note Number : DN24250001
Debit Note Date : 3-7-2025
Customer GSTIN : 27AACCN5739J1Z4
996425-Air Transport service 1,000.00 5 % 25.00 25.00 0.00 1,050.00
Non-taxable fare details: P2 = 236.00; IN = 207.00
`
	e, ok := NewDispatcher(nil).Select(text)
	require.True(t, ok)
	rec := e.Extract(text, models.CategoryDebit)

	assert.Equal(t, "DN24250001", rec.InvoiceNumber)
	assert.Equal(t, "03-JUL-2025", rec.InvoiceDate)
	assert.Equal(t, models.CategoryDebit, rec.Category)
	assertAmount(t, "1000.00", rec.TaxableValue, "taxable")
	assertAmount(t, "443.00", rec.NonTaxableValue, "non-taxable")
	assertAmount(t, "1050.00", rec.TotalAmount, "total")
	// no labeled supplier GSTIN and the only token belongs to the customer
	assert.Empty(t, rec.VendorGSTIN)
}

func TestAkasaChargeRowFallback(t *testing.T) {
	text := `Akasa Air
Invoice Number : QP25GJ0099
996425 10,518.00 1,018.00 398.00 11,138.00 0% 0.00 0% 0.00 5% 506.00 11,644.00
Airport Charges 0.00 1,018.00 0.00 1,018.00
`
	rec := NewDispatcher(nil).Extract(text, models.CategoryTaxInvoice)

	assert.Equal(t, "AKASA AIR", rec.Airline)
	assertAmount(t, "10518.00", rec.TaxableValue, "taxable")
	assertAmount(t, "506.00", rec.IGSTAmount, "igst")
	assertAmount(t, "5", rec.IGSTRate, "igst rate")
	assertAmount(t, "11644.00", rec.TotalAmount, "total")
	assertAmount(t, "1018.00", rec.NonTaxableValue, "non-taxable")
}

func TestAkasaIntrastateOverride(t *testing.T) {
	text := `SNV Aviation Private Limited
Invoice Number : QP25MH0001
996425 5,022.00 0.00 0.00 5,022.00 2.5% 125.55 2.5% 125.55 0% 0.00 5,273.10
Grand Total 5022.00 0.00 0.00 5022.00 125.55 125.55 0.00 5273.10
`
	rec := NewDispatcher(nil).Extract(text, models.CategoryTaxInvoice)

	assertAmount(t, "5022.00", rec.TaxableValue, "taxable")
	assertAmount(t, "2.5", rec.CGSTRate, "cgst rate")
	assertAmount(t, "125.55", rec.CGSTAmount, "cgst")
	assertAmount(t, "125.55", rec.SGSTAmount, "sgst")
	assert.True(t, rec.IGSTAmount.IsZero())
	assert.True(t, rec.IGSTRate.IsZero())
	assertAmount(t, "5273.10", rec.TotalAmount, "total")
}

func TestAkasaIGSTRate(t *testing.T) {
	assertAmount(t, "5", akasaIGSTRate(decimal.NewFromInt(50), decimal.NewFromInt(1000)), "5%")
	assertAmount(t, "5", akasaIGSTRate(decimal.NewFromInt(55), decimal.NewFromInt(1000)), "5.5%")
	assertAmount(t, "18", akasaIGSTRate(decimal.NewFromInt(180), decimal.NewFromInt(1000)), "18%")
	assertAmount(t, "5", akasaIGSTRate(decimal.NewFromInt(180), decimal.Zero), "no taxable")
}

func TestVendorGSTINSkipsCustomerLabels(t *testing.T) {
	text := "GSTIN of Customer : 27AACCN5739J1Z4\nSupplier details\nGSTIN : 24AABCI2726B1Z8\n"
	assert.Equal(t, "24AABCI2726B1Z8", vendorGSTIN(text, gstinLabel))

	text = "Customer GSTIN : 27AACCN5739J1Z4\nSupplier details follow here\n24AABCI2726B1Z8 Ahmedabad\n"
	assert.Equal(t, "24AABCI2726B1Z8", vendorGSTIN(text, gstinLabel))

	assert.Empty(t, vendorGSTIN("no tax ids here", gstinLabel))
}

func TestMissingFieldsStayDefault(t *testing.T) {
	rec := NewDispatcher(nil).Extract("GULF AIR\nnothing else of use", models.CategoryUnknown)

	assert.Equal(t, "GULF AIR", rec.Airline)
	assert.Empty(t, rec.InvoiceNumber)
	assert.Empty(t, rec.InvoiceDate)
	assert.Empty(t, rec.CustomerGSTIN)
	assert.Empty(t, rec.StateCode)
	assert.True(t, rec.TotalAmount.IsZero())
	assert.Empty(t, rec.Issues)
}
