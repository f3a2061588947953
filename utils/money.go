package utils

import "github.com/shopspring/decimal"

// FormatAmount renders an amount held in the smallest currency unit as a
// decimal string with two fraction digits, e.g. 12345 -> "123.45".
func FormatAmount(units int64) string {
	return decimal.NewFromInt(units).Shift(-2).StringFixed(2)
}
