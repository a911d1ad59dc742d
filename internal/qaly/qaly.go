// Package qaly accrues discounted quality-adjusted life years over a survival
// time.
package qaly

import "math"

// Discounted returns the discounted quality-adjusted life years accrued over
// survivalYears at a constant utility. Whole year y is discounted by
// 1/(1+rate)^(y-1); the final fractional year is pro-rated and discounted as
// the year it falls in.
func Discounted(utility, survivalYears, rate float64) float64 {
	if survivalYears <= 0 {
		return 0
	}
	if rate == 0 {
		return utility * survivalYears
	}
	whole, frac := math.Modf(survivalYears)
	total := 0.0
	for y := 1; y <= int(whole); y++ {
		total += utility / math.Pow(1+rate, float64(y-1))
	}
	if frac > 0 {
		total += utility * frac / math.Pow(1+rate, whole)
	}
	return total
}
