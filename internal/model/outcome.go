package model

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryAE          Category = "ae"
	CategoryNonElective Category = "non_elective"
	CategoryElective    Category = "elective"
	CategoryResidential Category = "residential"
)

// Categories lists the resource categories in costing order.
var Categories = []Category{CategoryAE, CategoryNonElective, CategoryElective, CategoryResidential}

// ResourceProjection is the yearly decomposition of one category's
// cumulative use over years 1..ceil(median survival).
type ResourceProjection struct {
	Category   Category  `json:"category"`
	Grade      int       `json:"grade"`
	Increments []float64 `json:"increments"`
	// Cumulative is the model value at the fractional median survival time.
	Cumulative float64 `json:"cumulative"`
}

type CategoryOutcome struct {
	DiscountedCount float64         `json:"discounted_count"`
	DiscountedCost  decimal.Decimal `json:"discounted_cost"`
}

// DiscountedOutcome holds the lifetime discounted values of one grade.
type DiscountedOutcome struct {
	Grade       int             `json:"grade"`
	QALY        float64         `json:"qaly"`
	AE          CategoryOutcome `json:"ae"`
	NonElective CategoryOutcome `json:"non_elective"`
	Elective    CategoryOutcome `json:"elective"`
	Residential CategoryOutcome `json:"residential"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// Category returns the outcome of one resource category.
func (o DiscountedOutcome) Category(c Category) CategoryOutcome {
	switch c {
	case CategoryAE:
		return o.AE
	case CategoryNonElective:
		return o.NonElective
	case CategoryElective:
		return o.Elective
	default:
		return o.Residential
	}
}

// Predictors exposes the linear predictors behind one grade's projection.
type Predictors struct {
	YearOne     float64 `json:"year_one"`
	YearN       float64 `json:"year_n"`
	AE          float64 `json:"ae"`
	NonElective float64 `json:"non_elective"`
	Elective    float64 `json:"elective"`
}

// LifetimeCounts are undiscounted cumulative counts at the median survival time.
type LifetimeCounts struct {
	AE               float64 `json:"ae"`
	NonElective      float64 `json:"non_elective"`
	Elective         float64 `json:"elective"`
	ResidentialYears float64 `json:"residential_years"`
}

// GradeResult is everything the pipeline derives for one grade.
type GradeResult struct {
	Grade       int                  `json:"grade"`
	Curve       SurvivalCurve        `json:"curve"`
	Summary     SurvivalSummary      `json:"summary"`
	Predictors  Predictors           `json:"predictors"`
	Counts      LifetimeCounts       `json:"counts"`
	Projections []ResourceProjection `json:"projections"`
	Outcome     DiscountedOutcome    `json:"outcome"`
}
