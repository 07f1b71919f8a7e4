// Package money holds the cent arithmetic shared by cobrands and payouts.
// Every rounding is half away from zero.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DollarsToCents converts a dollar amount to integer cents.
func DollarsToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// CentsToDollars is the display value of a cent amount.
func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// BasisPoints returns round(total * bp / 10000).
func BasisPoints(total, bp int64) int64 {
	return decimal.NewFromInt(total).
		Mul(decimal.NewFromInt(bp)).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()
}

// Percent returns round(total * pct / 100).
func Percent(total int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(total).Mul(pct).Div(hundred).Round(0).IntPart()
}
