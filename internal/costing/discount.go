// Package costing discounts yearly resource use and prices it.
package costing

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DaysPerYear converts residential care years to billable days.
const DaysPerYear = 365

// Factors returns the discount factor 1/(1+rate)^(y-1) for years 1..n.
func Factors(n int, rate float64) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = 1 / math.Pow(1+rate, float64(i))
	}
	return f
}

// Discount sums yearly increments, the first of which belongs to year 1,
// after applying the per-year discount factor.
func Discount(increments []float64, rate float64) float64 {
	if len(increments) == 0 {
		return 0
	}
	return floats.Dot(increments, Factors(len(increments), rate))
}
