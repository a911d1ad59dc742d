package costing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"stroke-outcome-engine/internal/model"
)

// UnitCost is the price of one unit of a category's discounted count.
// Residential care is counted in years and priced per day.
func UnitCost(u model.UnitCosts, c model.Category) decimal.Decimal {
	switch c {
	case model.CategoryAE:
		return decimal.NewFromFloat(u.AEAttendance)
	case model.CategoryNonElective:
		return decimal.NewFromFloat(u.NonElectiveBedDay)
	case model.CategoryElective:
		return decimal.NewFromFloat(u.ElectiveBedDay)
	case model.CategoryResidential:
		return decimal.NewFromFloat(u.ResidentialDay).Mul(decimal.NewFromInt(DaysPerYear))
	}
	panic(fmt.Sprintf("costing: unknown category %q", c))
}

// Category discounts one projection and prices it.
func Category(proj model.ResourceProjection, rate float64, u model.UnitCosts) model.CategoryOutcome {
	count := Discount(proj.Increments, rate)
	return model.CategoryOutcome{
		DiscountedCount: count,
		DiscountedCost:  decimal.NewFromFloat(count).Mul(UnitCost(u, proj.Category)),
	}
}

// Outcome assembles the discounted outcome of one grade. The total cost is
// the exact decimal sum of the category costs.
func Outcome(grade int, qaly float64, projections []model.ResourceProjection, f model.FixedParameters) model.DiscountedOutcome {
	rate := f.DiscountRate()
	out := model.DiscountedOutcome{Grade: grade, QALY: qaly, TotalCost: decimal.Zero}
	for _, proj := range projections {
		co := Category(proj, rate, f.UnitCosts)
		switch proj.Category {
		case model.CategoryAE:
			out.AE = co
		case model.CategoryNonElective:
			out.NonElective = co
		case model.CategoryElective:
			out.Elective = co
		case model.CategoryResidential:
			out.Residential = co
		}
	}
	out.TotalCost = out.AE.DiscountedCost.
		Add(out.NonElective.DiscountedCost).
		Add(out.Elective.DiscountedCost).
		Add(out.Residential.DiscountedCost)
	return out
}
