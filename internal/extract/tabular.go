package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"airledger/internal/normalize"
	"airledger/pkg/models"
)

// sacAirTransport is the service code that marks the fare charge line.
const sacAirTransport = "996425"

const headerLookback = 5

var (
	hasDigit = regexp.MustCompile(`\d`)

	// rates above this are amounts, not percentages
	maxTaxRate = decimal.NewFromInt(18)

	// half of the 5, 12 and 18 percent slabs
	intrastateRates = []decimal.Decimal{
		decimal.RequireFromString("2.5"),
		decimal.NewFromInt(6),
		decimal.NewFromInt(9),
	}
)

// chargeLine is the tokenized fare line of a tabular invoice, starting at the
// SAC token, with the nearest header line above it.
type chargeLine struct {
	tokens []string
	header string
}

type taxPair struct {
	rate   decimal.Decimal
	amount decimal.Decimal
}

// findChargeLine picks the SAC line with the most numeric tokens. Ties go to
// the line with the larger tax amount in the second to last position.
func findChargeLine(text string) (chargeLine, bool) {
	lines := strings.Split(text, "\n")
	var best chargeLine

	for i, line := range lines {
		if !strings.Contains(line, sacAirTransport) {
			continue
		}
		candidate := sacTokens(line)
		if candidate == nil {
			continue
		}
		if !betterChargeLine(candidate, best.tokens) {
			continue
		}

		best = chargeLine{tokens: candidate}
		for j := i - 1; j >= 0 && j >= i-headerLookback; j-- {
			if strings.Contains(lines[j], "Taxable") || strings.Contains(lines[j], "GST") || strings.Contains(lines[j], "Code") {
				best.header = lines[j]
				break
			}
		}
	}

	return best, len(best.tokens) > 0
}

func sacTokens(line string) []string {
	fields := strings.Fields(line)
	start := -1
	for k, f := range fields {
		if strings.Contains(f, sacAirTransport) {
			start = k
			break
		}
	}
	if start < 0 {
		return nil
	}
	tokens := fields[start:]
	for len(tokens) > 0 && !hasDigit.MatchString(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func betterChargeLine(candidate, current []string) bool {
	if len(candidate) != len(current) {
		return len(candidate) > len(current)
	}
	if len(candidate) < 2 {
		return false
	}
	return normalize.ParseAmount(candidate[len(candidate)-2]).
		GreaterThan(normalize.ParseAmount(current[len(current)-2]))
}

func (c chargeLine) hasDiscount() bool {
	return strings.Contains(c.header, "Discount") || strings.Contains(c.header, "Disc")
}

func (c chargeLine) total() decimal.Decimal {
	if len(c.tokens) < 2 {
		return decimal.Zero
	}
	return normalize.ParseAmount(c.tokens[len(c.tokens)-1])
}

// taxable is the first amount after the SAC, less the discount column when
// the header announces one.
func (c chargeLine) taxable() decimal.Decimal {
	if len(c.tokens) < 2 {
		return decimal.Zero
	}
	v := normalize.ParseAmount(c.tokens[1])
	if c.hasDiscount() && len(c.tokens) > 2 {
		v = v.Sub(normalize.ParseAmount(c.tokens[2]))
	}
	return v
}

// taxPairs scans the tokens between the taxable columns and the trailing
// total. A value of at most 18 followed by another token is a (rate, amount)
// pair; anything larger is a repeated base value and is skipped.
//
// With a discount column the scan starts at token 3 (net taxable), past the
// gross and discount columns, not at token 2: starting at 2 reads a discount
// of 18 or less (including 0.00) as a rate and shifts every following pair.
// applyTaxPairs also drops zero-rate pairs. Both are intentional; see
// TestChargeLineZeroDiscountIsNotARate and TestApplyTaxPairsSkipsZeroRate.
func (c chargeLine) taxPairs() []taxPair {
	start := 2
	if c.hasDiscount() {
		start = 3
	}
	if len(c.tokens)-1 <= start {
		return nil
	}

	nums := make([]decimal.Decimal, 0, len(c.tokens)-1-start)
	for _, t := range c.tokens[start : len(c.tokens)-1] {
		nums = append(nums, normalize.ParseAmount(t))
	}

	var pairs []taxPair
	for i := 0; i < len(nums)-1; {
		if nums[i].LessThanOrEqual(maxTaxRate) {
			pairs = append(pairs, taxPair{rate: nums[i], amount: nums[i+1]})
			i += 2
			continue
		}
		i++
	}
	return pairs
}

func isIntrastateRate(rate decimal.Decimal) bool {
	for _, r := range intrastateRates {
		if rate.Equal(r) {
			return true
		}
	}
	return false
}

// applyTaxPairs assigns non-zero pairs: intrastate rates fill CGST then SGST,
// any other positive rate is IGST. Zero-rate pairs carry no tax.
func applyTaxPairs(rec *models.InvoiceRecord, pairs []taxPair) {
	for _, p := range pairs {
		if !p.amount.IsPositive() || p.rate.IsZero() {
			continue
		}
		switch {
		case isIntrastateRate(p.rate) && rec.CGSTAmount.IsZero():
			rec.CGSTRate, rec.CGSTAmount = p.rate, p.amount
		case isIntrastateRate(p.rate):
			rec.SGSTRate, rec.SGSTAmount = p.rate, p.amount
		default:
			rec.IGSTRate, rec.IGSTAmount = p.rate, p.amount
		}
	}
}
