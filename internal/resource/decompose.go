package resource

import (
	"fmt"
	"math"

	"stroke-outcome-engine/internal/model"
)

// NonMonotonicError reports a cumulative model that decreased between two
// consecutive evaluation points.
type NonMonotonicError struct {
	Category  model.Category
	Grade     int
	Year      int
	Increment float64
}

func (e *NonMonotonicError) Error() string {
	return fmt.Sprintf("%s use for mRS %d decreases in year %d (increment %g)", e.Category, e.Grade, e.Year, e.Increment)
}

// Decompose splits cumulative use up to years into increments for years
// 1..ceil(years). Each year is evaluated at min(year, years), so the last,
// possibly partial, year ends exactly at the fractional survival time.
func Decompose(category model.Category, grade int, f Cumulative, years float64) (model.ResourceProjection, error) {
	proj := model.ResourceProjection{Category: category, Grade: grade, Increments: []float64{}}
	if years <= 0 {
		return proj, nil
	}

	last := int(math.Ceil(years))
	proj.Increments = make([]float64, 0, last)
	prev := 0.0
	for year := 1; year <= last; year++ {
		cum := f(math.Min(float64(year), years))
		inc := cum - prev
		if inc < 0 || math.IsNaN(inc) {
			return model.ResourceProjection{}, &NonMonotonicError{Category: category, Grade: grade, Year: year, Increment: inc}
		}
		proj.Increments = append(proj.Increments, inc)
		prev = cum
	}
	proj.Cumulative = prev
	return proj, nil
}
