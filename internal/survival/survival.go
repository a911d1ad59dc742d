// Package survival derives survival curves and summaries from the stitched
// mortality model.
package survival

import (
	"fmt"
	"math"

	"stroke-outcome-engine/internal/model"
	"stroke-outcome-engine/internal/mortality"
)

// Quantile targets for the summary.
const (
	LowerQuartileTarget = 0.25
	MedianTarget        = 0.5
	UpperQuartileTarget = 0.75
)

// MaxSurvivalYears bounds the forward search for the year survival reaches
// zero, and the median survival time a grade may be projected over.
const MaxSurvivalYears = 200

// UnboundedSurvivalError reports a median survival time that is not a finite
// number of years within MaxSurvivalYears.
type UnboundedSurvivalError struct {
	Grade       int
	MedianYears float64
}

func (e *UnboundedSurvivalError) Error() string {
	return fmt.Sprintf("median survival for mRS %d is %v years, outside the %d-year limit", e.Grade, e.MedianYears, MaxSurvivalYears)
}

// Curve evaluates the cumulative death probability for years 0..horizon.
// Year 0 is always zero, and once the probability reaches 1 it is held there.
func Curve(st mortality.Stitched, horizon int) model.SurvivalCurve {
	curve := model.SurvivalCurve{
		Grade:          st.Grade,
		Points:         make([]model.CurvePoint, 0, horizon+1),
		SaturatedYears: []int{},
	}
	curve.Points = append(curve.Points, model.CurvePoint{Year: 0, PDeath: 0, Survival: 1})

	prev := 0.0
	for year := 1; year <= horizon; year++ {
		p, saturated := st.PDeath(float64(year))
		if prev >= 1 {
			p, saturated = 1, true
		}
		if saturated {
			curve.SaturatedYears = append(curve.SaturatedYears, year)
		}
		curve.Points = append(curve.Points, model.CurvePoint{
			Year:       year,
			PDeath:     p,
			Survival:   1 - p,
			AnnualRisk: annualRisk(prev, p),
		})
		prev = p
	}
	return curve
}

// annualRisk is the probability of dying during a year given survival to its start.
func annualRisk(prev, cur float64) float64 {
	if prev >= 1 {
		return 1
	}
	return (cur - prev) / (1 - prev)
}

// TimeForPDeath returns the continuous survival time at which the cumulative
// death probability equals target.
func TimeForPDeath(st mortality.Stitched, target float64) (float64, error) {
	if !(target > 0 && target < 1) {
		return 0, fmt.Errorf("quantile target %v outside (0, 1)", target)
	}
	return st.TimeFor(target), nil
}

// ZeroSurvivalYear returns the first whole year whose raw cumulative death
// probability is at least 1. The inverse is undefined there, so it is found
// by stepping forward.
func ZeroSurvivalYear(st mortality.Stitched) (int, bool) {
	for year := 1; year <= MaxSurvivalYears; year++ {
		if _, saturated := st.PDeath(float64(year)); saturated {
			return year, true
		}
	}
	return 0, false
}

// Summarise computes median and quartile survival times, life expectancy and
// the saturation markers for one grade.
func Summarise(st mortality.Stitched, age float64, curve model.SurvivalCurve) model.SurvivalSummary {
	// Targets are fixed constants inside (0, 1), so the inversion cannot fail.
	median, _ := TimeForPDeath(st, MedianTarget)
	lower, _ := TimeForPDeath(st, LowerQuartileTarget)
	upper, _ := TimeForPDeath(st, UpperQuartileTarget)

	s := model.SurvivalSummary{
		Grade:              st.Grade,
		MedianYears:        median,
		LowerQuartileYears: lower,
		UpperQuartileYears: upper,
		LifeExpectancy:     age + median,
	}
	if y, ok := ZeroSurvivalYear(st); ok {
		s.ZeroSurvivalYear = &y
	}
	if y, ok := curve.SaturationYear(); ok {
		s.SaturationYear = &y
	}
	return s
}

// CheckMedian rejects a summary whose median survival cannot drive a
// projection.
func CheckMedian(s model.SurvivalSummary) error {
	if math.IsNaN(s.MedianYears) || s.MedianYears < 0 || s.MedianYears > MaxSurvivalYears {
		return &UnboundedSurvivalError{Grade: s.Grade, MedianYears: s.MedianYears}
	}
	return nil
}

// Project builds the stitched model, its curve and summary for one grade.
func Project(c model.MortalityCoefficients, age float64, sex, grade, horizon int) (mortality.Stitched, model.SurvivalCurve, model.SurvivalSummary) {
	st := mortality.New(c, age, sex, grade)
	curve := Curve(st, horizon)
	return st, curve, Summarise(st, age, curve)
}
