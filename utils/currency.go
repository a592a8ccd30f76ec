package utils

import (
	"fmt"
	"math"
)

// Round2 rounds a money amount to 2 decimal places. All price arithmetic
// (line totals, order totals) goes through this to avoid float drift.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// HasMaxTwoDecimals reports whether a price fits the money format
// (at most 2 decimal places).
func HasMaxTwoDecimals(amount float64) bool {
	return amount == Round2(amount)
}

// FormatPrice renders an amount for receipts and logs, e.g. 23 -> "$23.00".
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", Round2(amount))
}
