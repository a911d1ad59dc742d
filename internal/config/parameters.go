package config

import (
	"fmt"

	"github.com/spf13/viper"

	"stroke-outcome-engine/internal/model"
)

// DefaultParameters returns the built-in sample parameter set. Deployments
// are expected to supply their own coefficients through PARAMETERS_FILE or
// the parameter registry.
func DefaultParameters() *model.Parameters {
	return &model.Parameters{
		Coefficients: model.ModelCoefficients{
			Mortality: model.MortalityCoefficients{
				YearOne: model.LinearPredictor{
					Intercept: -3.3,
					Age:       0.06,
					Sex:       0.2,
					MRS:       [model.NumGrades]float64{0, 0.3, 0.6, 1.0, 1.6, 2.4},
				},
				MeanAges: [model.NumGrades]float64{59.9, 66.6, 71.9, 73.2, 75.8, 76.6},
				YearN: model.LinearPredictor{
					Intercept: -3.5,
					Age:       0.05,
					Sex:       0.15,
					MRS:       [model.NumGrades]float64{0, 0.2, 0.45, 0.75, 1.1, 1.6},
				},
				YearNMeanAge: 71.0,
				Gamma:        0.09,
			},
			Resources: model.ResourceCoefficients{
				AE: model.CountModel{
					LinearPredictor: model.LinearPredictor{
						Intercept: 0.4,
						Age:       0.01,
						Sex:       0.05,
						MRS:       [model.NumGrades]float64{0, 0.1, 0.2, 0.3, 0.4, 0.5},
					},
					TimeExponent: 1.0,
				},
				NonElective: model.CountModel{
					LinearPredictor: model.LinearPredictor{
						Intercept: 1.6,
						Age:       0.02,
						Sex:       -0.05,
						MRS:       [model.NumGrades]float64{0, 0.3, 0.6, 0.9, 1.2, 1.4},
					},
					TimeExponent: 0.9,
				},
				Elective: model.CountModel{
					LinearPredictor: model.LinearPredictor{
						Intercept: 0.4,
						Age:       -0.01,
						Sex:       0.1,
						MRS:       [model.NumGrades]float64{0, 0.05, 0.1, 0.1, 0.05, 0},
					},
					TimeExponent: 1.0,
				},
			},
		},
		Fixed: model.FixedParameters{
			HorizonYears:        50,
			DiscountRatePercent: 3.5,
			UnitCosts: model.UnitCosts{
				AEAttendance:      221.0,
				NonElectiveBedDay: 430.0,
				ElectiveBedDay:    423.0,
				ResidentialDay:    108.0,
			},
			WTPPerQALY: 20000,
			Utility:    [model.NumGrades]float64{0.95, 0.93, 0.83, 0.62, 0.42, 0.11},
			CareHome: model.CareHomeShare{
				Over70:    [model.NumGrades]float64{0, 0, 0.1, 0.2, 0.45, 0.7},
				NotOver70: [model.NumGrades]float64{0, 0, 0.05, 0.1, 0.25, 0.5},
			},
		},
	}
}

// LoadParameters reads a complete parameter file (any format viper
// understands) and validates it. A file that omits any coefficient is a
// ConfigurationError; nothing is filled in from the defaults. An empty path
// yields the built-in set.
func LoadParameters(path string) (*model.Parameters, error) {
	p := DefaultParameters()
	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read parameters %s: %w", path, err)
		}
		if err := model.CheckComplete(v.AllSettings()); err != nil {
			return nil, fmt.Errorf("parameters %s: %w", path, err)
		}
		p = &model.Parameters{}
		if err := v.Unmarshal(p); err != nil {
			return nil, fmt.Errorf("unmarshal parameters %s: %w", path, err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
