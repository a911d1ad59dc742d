package model

import "math"

// LinearPredictor holds the shared regression structure used by the mortality
// and resource-count models: intercept, age term, sex term and one offset per
// mRS grade.
type LinearPredictor struct {
	Intercept float64            `json:"intercept" mapstructure:"intercept"`
	Age       float64            `json:"age" mapstructure:"age"`
	Sex       float64            `json:"sex" mapstructure:"sex"`
	MRS       [NumGrades]float64 `json:"mrs" mapstructure:"mrs"`
}

// Evaluate returns the linear predictor for an age already centred on the
// model's mean age.
func (lp LinearPredictor) Evaluate(ageDeviation float64, sex, grade int) float64 {
	return lp.Intercept + lp.Age*ageDeviation + lp.Sex*float64(sex) + lp.MRS[grade]
}

// MortalityCoefficients parameterises the stitched year-1 logistic and
// year-N Gompertz models.
type MortalityCoefficients struct {
	YearOne      LinearPredictor    `json:"year_one" mapstructure:"year_one"`
	MeanAges     [NumGrades]float64 `json:"mean_ages" mapstructure:"mean_ages"`
	YearN        LinearPredictor    `json:"year_n" mapstructure:"year_n"`
	YearNMeanAge float64            `json:"year_n_mean_age" mapstructure:"year_n_mean_age"`
	Gamma        float64            `json:"gamma" mapstructure:"gamma"`
}

// CountModel is a count regression: the cumulative expected count after t
// years is exp(LP) * t^TimeExponent.
type CountModel struct {
	LinearPredictor `mapstructure:",squash"`
	TimeExponent    float64 `json:"time_exponent" mapstructure:"time_exponent"`
}

type ResourceCoefficients struct {
	AE          CountModel `json:"ae" mapstructure:"ae"`
	NonElective CountModel `json:"non_elective" mapstructure:"non_elective"`
	Elective    CountModel `json:"elective" mapstructure:"elective"`
}

// ModelCoefficients is the regression part of a parameter set.
type ModelCoefficients struct {
	Mortality MortalityCoefficients `json:"mortality" mapstructure:"mortality"`
	Resources ResourceCoefficients  `json:"resources" mapstructure:"resources"`
}

// UnitCosts are in currency per attendance, per bed-day and per residential day.
type UnitCosts struct {
	AEAttendance      float64 `json:"ae_attendance" mapstructure:"ae_attendance"`
	NonElectiveBedDay float64 `json:"non_elective_bed_day" mapstructure:"non_elective_bed_day"`
	ElectiveBedDay    float64 `json:"elective_bed_day" mapstructure:"elective_bed_day"`
	ResidentialDay    float64 `json:"residential_day" mapstructure:"residential_day"`
}

// CareHomeShare is the proportion of patients in residential care per grade,
// split by age band.
type CareHomeShare struct {
	Over70    [NumGrades]float64 `json:"over_70" mapstructure:"over_70"`
	NotOver70 [NumGrades]float64 `json:"not_over_70" mapstructure:"not_over_70"`
}

// CareHomeAgeThreshold separates the two residential care age bands.
const CareHomeAgeThreshold = 70.0

// ForAge picks the age band. Ages strictly above the threshold count as over 70.
func (c CareHomeShare) ForAge(age float64) [NumGrades]float64 {
	if age > CareHomeAgeThreshold {
		return c.Over70
	}
	return c.NotOver70
}

type FixedParameters struct {
	HorizonYears        int                `json:"horizon_years" mapstructure:"horizon_years"`
	DiscountRatePercent float64            `json:"discount_rate_percent" mapstructure:"discount_rate_percent"`
	UnitCosts           UnitCosts          `json:"unit_costs" mapstructure:"unit_costs"`
	WTPPerQALY          float64            `json:"wtp_per_qaly" mapstructure:"wtp_per_qaly"`
	Utility             [NumGrades]float64 `json:"utility" mapstructure:"utility"`
	CareHome            CareHomeShare      `json:"care_home" mapstructure:"care_home"`
}

// DiscountRate is the per-year rate as a fraction.
func (f FixedParameters) DiscountRate() float64 {
	return f.DiscountRatePercent / 100.0
}

// Parameters is the read-only configuration handed to every component.
type Parameters struct {
	Coefficients ModelCoefficients `json:"coefficients" mapstructure:"coefficients"`
	Fixed        FixedParameters   `json:"fixed" mapstructure:"fixed"`
}

// Validate rejects parameter sets that cannot produce a meaningful projection.
// Count-model time exponents are not range-checked: a decreasing
// cumulative count surfaces as a projection failure for the affected grade.
func (p *Parameters) Validate() error {
	f := p.Fixed
	if f.HorizonYears < 1 {
		return configErr("fixed.horizon_years", "must be at least 1, got %d", f.HorizonYears)
	}
	if !finite(f.DiscountRatePercent) || f.DiscountRatePercent <= -100 {
		return configErr("fixed.discount_rate_percent", "must be greater than -100, got %v", f.DiscountRatePercent)
	}
	costs := []struct {
		field string
		value float64
	}{
		{"fixed.unit_costs.ae_attendance", f.UnitCosts.AEAttendance},
		{"fixed.unit_costs.non_elective_bed_day", f.UnitCosts.NonElectiveBedDay},
		{"fixed.unit_costs.elective_bed_day", f.UnitCosts.ElectiveBedDay},
		{"fixed.unit_costs.residential_day", f.UnitCosts.ResidentialDay},
	}
	for _, c := range costs {
		if !finite(c.value) || c.value < 0 {
			return configErr(c.field, "must be a non-negative amount, got %v", c.value)
		}
	}
	if !finite(f.WTPPerQALY) || f.WTPPerQALY < 0 {
		return configErr("fixed.wtp_per_qaly", "must be non-negative, got %v", f.WTPPerQALY)
	}
	for g := 0; g < NumGrades; g++ {
		if !finite(f.Utility[g]) {
			return configErr("fixed.utility", "grade %d is not a finite number", g)
		}
		if s := f.CareHome.Over70[g]; !finite(s) || s < 0 || s > 1 {
			return configErr("fixed.care_home.over_70", "grade %d share %v outside [0,1]", g, s)
		}
		if s := f.CareHome.NotOver70[g]; !finite(s) || s < 0 || s > 1 {
			return configErr("fixed.care_home.not_over_70", "grade %d share %v outside [0,1]", g, s)
		}
	}

	m := p.Coefficients.Mortality
	if !finite(m.Gamma) || m.Gamma < 0 {
		return configErr("coefficients.mortality.gamma", "must be non-negative, got %v", m.Gamma)
	}
	if err := checkPredictor("coefficients.mortality.year_one", m.YearOne); err != nil {
		return err
	}
	for g, a := range m.MeanAges {
		if !finite(a) {
			return configErr("coefficients.mortality.mean_ages", "grade %d mean age is not finite", g)
		}
	}
	if err := checkPredictor("coefficients.mortality.year_n", m.YearN); err != nil {
		return err
	}
	if !finite(m.YearNMeanAge) {
		return configErr("coefficients.mortality.year_n_mean_age", "is not a finite number")
	}
	r := p.Coefficients.Resources
	counts := []struct {
		field string
		model CountModel
	}{
		{"coefficients.resources.ae", r.AE},
		{"coefficients.resources.non_elective", r.NonElective},
		{"coefficients.resources.elective", r.Elective},
	}
	for _, c := range counts {
		if err := checkPredictor(c.field, c.model.LinearPredictor); err != nil {
			return err
		}
		if !finite(c.model.TimeExponent) {
			return configErr(c.field+".time_exponent", "is not a finite number")
		}
	}
	return nil
}

func checkPredictor(field string, lp LinearPredictor) error {
	if !finite(lp.Intercept) || !finite(lp.Age) || !finite(lp.Sex) {
		return configErr(field, "intercept, age and sex terms must be finite")
	}
	for g, v := range lp.MRS {
		if !finite(v) {
			return configErr(field+".mrs", "grade %d offset is not finite", g)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
