package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds a monetary amount to the company's configured decimal
// precision, half away from zero.
func Round(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Round(precision)
}

// Format renders a monetary amount as a fixed-point string at the given
// precision. Rounding happens at this formatting layer, half away from zero.
func Format(d decimal.Decimal, precision int32) string {
	return d.Round(precision).StringFixed(precision)
}

// ParseLoose parses a user-entered numeric string. Anything that does not
// parse as a number degrades to zero with ok=false rather than an error.
func ParseLoose(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ToNumber converts an amount to the float64 shape the backend services
// expect on mutation bodies.
func ToNumber(d decimal.Decimal, precision int32) float64 {
	return d.Round(precision).InexactFloat64()
}
