package core

import (
	"math"
	"strconv"
)

// TaxRate is the fixed sales tax rate applied at checkout.
const TaxRate = 0.07

// Round2 rounds a currency amount to 2 decimal places, half away from
// zero. Applied at the point of display and at the point of submission;
// intermediate sums are kept unrounded so line totals never drift from
// the cart's subtotal.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPrice renders a currency amount for display.
func FormatPrice(v float64) string {
	return "$" + strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// ParseTip parses user-entered tip input, defaulting to 0 when the
// input is unparseable or negative.
func ParseTip(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
