package calculator

import "github.com/shopspring/decimal"

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
