// Package mortality implements the stitched post-stroke mortality model: a
// logistic model for the first year after discharge and a Gompertz hazard
// for every later year, conditioned on surviving the first.
package mortality

import (
	"math"

	"stroke-outcome-engine/internal/model"
)

// Model is one piece of the stitched model. The two implementations are
// YearOneModel and YearNModel; Stitched.For selects between them.
type Model interface {
	// CumulativePDeath is the unclamped probability of death by t years.
	CumulativePDeath(t float64) float64
	// TimeFor is the closed-form inverse of CumulativePDeath on this piece.
	TimeFor(target float64) float64
	isModel()
}

// YearOneModel covers t in [0, 1]. The logistic model only fixes the
// probability at t = 1; deaths are spread uniformly across the year.
type YearOneModel struct {
	LP     float64
	PDeath float64
}

func (YearOneModel) isModel() {}

func (m YearOneModel) CumulativePDeath(t float64) float64 {
	return m.PDeath * math.Min(math.Max(t, 0), 1)
}

func (m YearOneModel) TimeFor(target float64) float64 {
	if m.PDeath <= 0 {
		return 0
	}
	return target / m.PDeath
}

// YearNModel covers t >= 1. The hazard accumulated since the end of year 1
// is converted to a death probability among year-1 survivors. Nothing bounds
// the result at 1; callers clamp.
type YearNModel struct {
	LP            float64
	Gamma         float64
	YearOnePDeath float64
}

func (YearNModel) isModel() {}

// Hazard is the Gompertz cumulative hazard between t = 1 and t.
func (m YearNModel) Hazard(t float64) float64 {
	if t <= 1 {
		return 0
	}
	scale := math.Exp(m.LP)
	if m.Gamma == 0 {
		return scale * (t - 1)
	}
	return scale * math.Expm1(m.Gamma*(t-1)) / m.Gamma
}

func (m YearNModel) CumulativePDeath(t float64) float64 {
	return m.YearOnePDeath + (1-m.YearOnePDeath)*m.Hazard(t)
}

func (m YearNModel) TimeFor(target float64) float64 {
	h := (target - m.YearOnePDeath) / (1 - m.YearOnePDeath)
	if h <= 0 {
		return 1
	}
	scaled := h * math.Exp(-m.LP)
	if m.Gamma == 0 {
		return 1 + scaled
	}
	return 1 + math.Log1p(m.Gamma*scaled)/m.Gamma
}

// Stitched joins the two pieces for one patient and grade.
type Stitched struct {
	Grade   int
	YearOne YearOneModel
	YearN   YearNModel
}

// New builds the stitched model for a patient at the given grade.
func New(c model.MortalityCoefficients, age float64, sex, grade int) Stitched {
	lp1 := YearOneLP(c, age, sex, grade)
	p1 := logistic(lp1)
	return Stitched{
		Grade:   grade,
		YearOne: YearOneModel{LP: lp1, PDeath: p1},
		YearN:   YearNModel{LP: YearNLP(c, age, sex, grade), Gamma: c.Gamma, YearOnePDeath: p1},
	}
}

// For returns the piece that governs time t.
func (s Stitched) For(t float64) Model {
	if t <= 1 {
		return s.YearOne
	}
	return s.YearN
}

// PDeath is the cumulative death probability at t, clamped to 1. saturated
// reports whether the raw model value reached 1.
func (s Stitched) PDeath(t float64) (p float64, saturated bool) {
	p = s.For(t).CumulativePDeath(t)
	if p >= 1 {
		return 1, true
	}
	return p, false
}

// TimeFor returns the survival time at which the cumulative death
// probability equals target, for target in (0, 1).
func (s Stitched) TimeFor(target float64) float64 {
	if target <= s.YearOne.PDeath {
		return s.YearOne.TimeFor(target)
	}
	return s.YearN.TimeFor(target)
}

// YearOneLP is the logistic linear predictor, centred on the grade's mean age.
func YearOneLP(c model.MortalityCoefficients, age float64, sex, grade int) float64 {
	return c.YearOne.Evaluate(age-c.MeanAges[grade], sex, grade)
}

// YearNLP is the Gompertz log-hazard linear predictor.
func YearNLP(c model.MortalityCoefficients, age float64, sex, grade int) float64 {
	return c.YearN.Evaluate(age-c.YearNMeanAge, sex, grade)
}

// YearOneDeathProbability is the probability of death within the first year.
func YearOneDeathProbability(c model.MortalityCoefficients, age float64, sex, grade int) float64 {
	return logistic(YearOneLP(c, age, sex, grade))
}

// HazardYearN returns the hazard accumulated after year 1 and the resulting
// unclamped cumulative death probability at the given year (> 1).
func HazardYearN(c model.MortalityCoefficients, age float64, sex, grade, year int, yearOnePDeath float64) (hazard, pDeath float64) {
	m := YearNModel{LP: YearNLP(c, age, sex, grade), Gamma: c.Gamma, YearOnePDeath: yearOnePDeath}
	t := float64(year)
	return m.Hazard(t), m.CumulativePDeath(t)
}

func logistic(lp float64) float64 {
	return 1 / (1 + math.Exp(-lp))
}
