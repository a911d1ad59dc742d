// Package resource projects expected healthcare resource use over the
// survival time of a patient and splits it into yearly increments.
package resource

import (
	"fmt"
	"math"

	"stroke-outcome-engine/internal/model"
)

// Cumulative gives expected cumulative use after t years.
type Cumulative func(t float64) float64

// CountModel is a fitted count regression for one category and grade.
type CountModel struct {
	LP           float64
	TimeExponent float64
}

// NewCountModel evaluates the linear predictor with age centred on meanAge.
func NewCountModel(cm model.CountModel, meanAge, age float64, sex, grade int) CountModel {
	return CountModel{
		LP:           cm.Evaluate(age-meanAge, sex, grade),
		TimeExponent: cm.TimeExponent,
	}
}

// At is the expected cumulative count after t years; zero before any time has elapsed.
func (m CountModel) At(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Exp(m.LP) * math.Pow(t, m.TimeExponent)
}

// ResidentialCare scales the grade's share of patients in residential care
// by elapsed time, giving expected years in care.
func ResidentialCare(share float64) Cumulative {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		return share * t
	}
}

// Set holds the four cumulative models of one patient at one grade.
type Set struct {
	Grade       int
	AE          CountModel
	NonElective CountModel
	Elective    CountModel
	CareShare   float64
}

// NewSet fits every resource model for the patient at grade. Resource
// models share the year-1 mortality model's age centring.
func NewSet(p *model.Parameters, age float64, sex, grade int) Set {
	meanAge := p.Coefficients.Mortality.MeanAges[grade]
	r := p.Coefficients.Resources
	return Set{
		Grade:       grade,
		AE:          NewCountModel(r.AE, meanAge, age, sex, grade),
		NonElective: NewCountModel(r.NonElective, meanAge, age, sex, grade),
		Elective:    NewCountModel(r.Elective, meanAge, age, sex, grade),
		CareShare:   p.Fixed.CareHome.ForAge(age)[grade],
	}
}

// Model returns the cumulative function for a category.
func (s Set) Model(c model.Category) Cumulative {
	switch c {
	case model.CategoryAE:
		return s.AE.At
	case model.CategoryNonElective:
		return s.NonElective.At
	case model.CategoryElective:
		return s.Elective.At
	case model.CategoryResidential:
		return ResidentialCare(s.CareShare)
	}
	panic(fmt.Sprintf("resource: unknown category %q", c))
}

// Counts evaluates every category at the given survival time.
func (s Set) Counts(years float64) model.LifetimeCounts {
	return model.LifetimeCounts{
		AE:               s.AE.At(years),
		NonElective:      s.NonElective.At(years),
		Elective:         s.Elective.At(years),
		ResidentialYears: ResidentialCare(s.CareShare)(years),
	}
}

// Project decomposes every category over the survival time, in
// model.Categories order. The first non-monotonic category aborts the grade.
func (s Set) Project(years float64) ([]model.ResourceProjection, error) {
	out := make([]model.ResourceProjection, 0, len(model.Categories))
	for _, c := range model.Categories {
		proj, err := Decompose(c, s.Grade, s.Model(c), years)
		if err != nil {
			return nil, err
		}
		out = append(out, proj)
	}
	return out, nil
}
