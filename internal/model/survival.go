package model

// CurvePoint is one year on the survival axis. PDeath is cumulative;
// AnnualRisk is the probability of dying during the year given survival to
// its start.
type CurvePoint struct {
	Year       int     `json:"year"`
	PDeath     float64 `json:"p_death"`
	Survival   float64 `json:"survival"`
	AnnualRisk float64 `json:"annual_risk"`
}

// SurvivalCurve covers years 0..horizon for one grade. SaturatedYears lists
// every year whose raw cumulative probability reached 1.0 and was clamped.
type SurvivalCurve struct {
	Grade          int          `json:"grade"`
	Points         []CurvePoint `json:"points"`
	SaturatedYears []int        `json:"saturated_years"`
}

// SaturationYear returns the first clamped year, if any.
func (c SurvivalCurve) SaturationYear() (int, bool) {
	if len(c.SaturatedYears) == 0 {
		return 0, false
	}
	return c.SaturatedYears[0], true
}

type SurvivalSummary struct {
	Grade              int     `json:"grade"`
	MedianYears        float64 `json:"median_years"`
	LowerQuartileYears float64 `json:"lower_quartile_years"`
	UpperQuartileYears float64 `json:"upper_quartile_years"`
	LifeExpectancy     float64 `json:"life_expectancy"`
	ZeroSurvivalYear   *int    `json:"zero_survival_year"`
	SaturationYear     *int    `json:"saturation_year"`
}
