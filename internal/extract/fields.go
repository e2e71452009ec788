package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"airledger/internal/gstin"
	"airledger/internal/normalize"
)

const customerWindow = 30

var (
	gstinToken  = regexp.MustCompile(gstin.Pattern)
	amount2     = regexp.MustCompile(`\d[\d,]*\.\d{2}`)
	anyDecimal  = regexp.MustCompile(`\d[\d,]*\.\d+`)
	grandTotal  = regexp.MustCompile(`(?i)Grand\s*Total.*`)
	airportLine = regexp.MustCompile(`(?i)Airport\s*Charges\s+[\d,.]+\s+(\d[\d,]*\.\d{2})`)

	gstinLabel = regexp.MustCompile(`(?i)GSTIN\s*[:\s]*(` + gstin.Pattern + `)`)
	// customer GSTIN labels differ per vendor
	customerGSTINOf = regexp.MustCompile(`(?i)GSTIN\s*of\s*Customer\s*[:\s]*(` + gstin.Pattern + `)`)
	pnrLabel        = regexp.MustCompile(`(?i)PNR\s*[:\s]*([A-Z0-9]{6})`)
)

var (
	rateCGST  = decimal.RequireFromString("2.5")
	rateIGST  = decimal.NewFromInt(5)
	rateMisc  = decimal.NewFromInt(18)
	hundred   = decimal.NewFromInt(100)
	rateDelta = decimal.NewFromInt(1)
)

// find returns the trimmed first capture group of re in text, or "".
func find(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// findAmount parses the first capture group of re as an amount.
func findAmount(re *regexp.Regexp, text string) decimal.Decimal {
	return normalize.ParseAmount(find(re, text))
}

// findName returns the first line of a name capture. Name captures are allowed
// to run across line breaks and stop at the next label punctuation.
func findName(re *regexp.Regexp, text string) string {
	return firstLine(find(re, text))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// lastAmount returns the last two-decimal amount on the "Grand Total" line.
func lastAmount(line string) decimal.Decimal {
	all := amount2.FindAllString(line, -1)
	if len(all) == 0 {
		return decimal.Zero
	}
	return normalize.ParseAmount(all[len(all)-1])
}

func grandTotalLine(text string) string {
	return grandTotal.FindString(text)
}

func sumAmounts(tokens []string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range tokens {
		sum = sum.Add(normalize.ParseAmount(t))
	}
	return sum
}

// nearCustomer reports whether the word "customer" occurs in the text just
// before start.
func nearCustomer(text string, start int) bool {
	from := start - customerWindow
	if from < 0 {
		from = 0
	}
	return strings.Contains(strings.ToLower(text[from:start]), "customer")
}

// vendorGSTIN returns the supplier tax id: the first labeled GSTIN that is not
// adjacent to "Customer", else the first bare GSTIN token that is not.
func vendorGSTIN(text string, label *regexp.Regexp) string {
	for _, m := range label.FindAllStringSubmatchIndex(text, -1) {
		if !nearCustomer(text, m[0]) {
			return text[m[2]:m[3]]
		}
	}
	for _, m := range gstinToken.FindAllStringIndex(text, -1) {
		if !nearCustomer(text, m[0]) {
			return text[m[0]:m[1]]
		}
	}
	return ""
}

// airportCharges returns the pass-through amount of an "Airport Charges" row.
func airportCharges(text string) decimal.Decimal {
	return findAmount(airportLine, text)
}

// route builds the "FROM TO TO" routing string.
func route(from, to string) string {
	if from == "" || to == "" {
		return ""
	}
	return from + " TO " + to
}

func positiveRate(amount, rate decimal.Decimal) decimal.Decimal {
	if amount.IsPositive() {
		return rate
	}
	return decimal.Zero
}
