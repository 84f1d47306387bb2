// Package money rounds monetary values half-up to two decimal places.
package money

import "github.com/shopspring/decimal"

const Places = 2

// Round2 rounds half away from zero at the cent, going through decimal so
// 1.005 becomes 1.01 rather than the float artefact 1.00.
func Round2(v float64) float64 {
	return RoundDecimal(decimal.NewFromFloat(v))
}

func RoundDecimal(d decimal.Decimal) float64 {
	f, _ := d.Round(Places).Float64()
	return f
}

// Sum adds values exactly and rounds the result once.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return RoundDecimal(total)
}

func D(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
