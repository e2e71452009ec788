// Package normalize repairs extracted PDF text and converts the amount and date
// strings found on airline invoices into canonical values.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// amountNoise lists the characters stripped before parsing an amount.
var amountNoise = strings.NewReplacer(
	"₹", "",
	"$", "",
	"€", "",
	"£", "",
	",", "",
	"%", "",
)

// ParseAmount converts an invoice amount such as "₹ 1,23,456.50" or "5 %" into a decimal.
// Empty or unparseable input yields zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := amountNoise.Replace(s)
	cleaned = strings.Join(strings.Fields(cleaned), "")
	if cleaned == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with two decimals, the way the ledger expects it.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
