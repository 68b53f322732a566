// Package money converts between the integer minor units stored in the
// database and decimal amounts shown to people.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal returns minor as a decimal amount with the given number of
// fraction digits (1250, 2 -> 12.50).
func Decimal(minor int64, decimals int) decimal.Decimal {
	return decimal.New(minor, -int32(decimals))
}

// Format renders minor with exactly decimals fraction digits.
func Format(minor int64, decimals int) string {
	return Decimal(minor, decimals).StringFixed(int32(decimals))
}

// FormatWithSymbol renders an amount followed by the currency symbol.
func FormatWithSymbol(minor int64, decimals int, symbol string) string {
	if symbol == "" {
		return Format(minor, decimals)
	}
	return Format(minor, decimals) + " " + symbol
}

// Parse reads a decimal amount and returns it in minor units. Amounts with
// more fraction digits than the currency allows are rejected rather than
// rounded.
func Parse(s string, decimals int) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("parse amount %q: more than %d decimals", s, decimals)
	}
	return shifted.IntPart(), nil
}

// Sum adds minor amounts through decimal arithmetic.
func Sum(decimals int, amounts ...int64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(Decimal(a, decimals))
	}
	return total
}
