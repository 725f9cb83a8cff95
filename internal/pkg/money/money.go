// Package money does decimal arithmetic on float64 amounts so totals and
// tolerance checks are not skewed by binary floating point.
package money

import "github.com/shopspring/decimal"

// Tolerance is the largest difference at which two amounts still match.
var Tolerance = decimal.New(1, -2)

// Round rounds v half away from zero to two decimal places.
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Line returns price × quantity without rounding.
func Line(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}

// Sum adds the values and rounds the total to two decimal places.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

// Sub returns a − b rounded to two decimal places.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Matches reports whether a and b differ by no more than Tolerance.
func Matches(a, b float64) bool {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs().LessThanOrEqual(Tolerance)
}
