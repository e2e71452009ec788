// Package extract turns normalized invoice text into an InvoiceRecord. It holds
// one extractor per supported airline layout and the dispatcher that picks
// between them.
package extract

import (
	"strings"

	"airledger/pkg/models"
)

// Vendor identifies one supported invoice layout.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorAirIndiaExpress
	VendorAirIndia
	VendorIndiGo
	VendorAkasa
	VendorGulfAir
)

var vendorNames = map[Vendor]string{
	VendorAirIndiaExpress: "AIR INDIA EXPRESS",
	VendorAirIndia:        "AIR INDIA",
	VendorIndiGo:          "INDIGO",
	VendorAkasa:           "AKASA AIR",
	VendorGulfAir:         "GULF AIR",
}

var vendorOrganizations = map[Vendor]string{
	VendorAirIndiaExpress: "AIR INDIA EXPRESS LIMITED",
	VendorAirIndia:        "AIR INDIA LTD",
	VendorIndiGo:          "InterGlobe Aviation Limited",
	VendorAkasa:           "SNV Aviation Private Limited",
	VendorGulfAir:         "Gulf Air B.S.C. (c)",
}

// String returns the airline name written into InvoiceRecord.Airline.
func (v Vendor) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return "UNKNOWN"
}

// Organization returns the legal entity name used on ledger rows.
func (v Vendor) Organization() string {
	return vendorOrganizations[v]
}

// VendorOf maps an airline name back to its vendor. Express is checked before
// Air India because its name contains the other.
func VendorOf(airline string) Vendor {
	upper := strings.ToUpper(airline)
	switch {
	case strings.Contains(upper, "AIR INDIA EXPRESS"):
		return VendorAirIndiaExpress
	case strings.Contains(upper, "AIR INDIA"):
		return VendorAirIndia
	case strings.Contains(upper, "INDIGO"), strings.Contains(upper, "INTERGLOBE"):
		return VendorIndiGo
	case strings.Contains(upper, "AKASA"), strings.Contains(upper, "SNV AVIATION"):
		return VendorAkasa
	case strings.Contains(upper, "GULF"):
		return VendorGulfAir
	}
	return VendorUnknown
}

// Organization maps an airline name to its ledger organization. Unknown
// airlines are returned upper-cased.
func Organization(airline string) string {
	if v := VendorOf(airline); v != VendorUnknown {
		return v.Organization()
	}
	return strings.ToUpper(airline)
}

// Extractor is one invoice layout: a recognizer over upper-cased text and a
// field extraction function. Extractors hold no state.
type Extractor struct {
	Vendor    Vendor
	recognize func(upper string) bool
	fill      func(text string, rec *models.InvoiceRecord)
}

// CanHandle reports whether text looks like this extractor's layout.
func (e Extractor) CanHandle(text string) bool {
	return e.recognize(strings.ToUpper(text))
}

// Extract builds a record from normalized text. Fields that cannot be found
// keep their zero values.
func (e Extractor) Extract(text string, category models.Category) *models.InvoiceRecord {
	rec := models.NewInvoiceRecord(e.Vendor.String(), category)
	e.fill(text, rec)
	return rec
}

// Extractors returns every supported layout in dispatch priority order.
func Extractors() []Extractor {
	return []Extractor{
		{
			Vendor: VendorAirIndiaExpress,
			recognize: func(upper string) bool {
				return strings.Contains(upper, "AIR INDIA EXPRESS")
			},
			fill: extractAirIndiaExpress,
		},
		{
			Vendor: VendorAirIndia,
			recognize: func(upper string) bool {
				return strings.Contains(upper, "AIR INDIA LTD") && !strings.Contains(upper, "AIR INDIA EXPRESS")
			},
			fill: extractAirIndia,
		},
		{
			Vendor: VendorIndiGo,
			recognize: func(upper string) bool {
				return strings.Contains(upper, "INDIGO") || strings.Contains(upper, "INTERGLOBE AVIATION")
			},
			fill: extractIndiGo,
		},
		{
			Vendor: VendorAkasa,
			recognize: func(upper string) bool {
				return strings.Contains(upper, "AKASA") || strings.Contains(upper, "SNV AVIATION")
			},
			fill: extractAkasa,
		},
		{
			Vendor: VendorGulfAir,
			recognize: func(upper string) bool {
				return strings.Contains(upper, "GULF AIR")
			},
			fill: extractGulfAir,
		},
	}
}
