// Package comparison builds the pairwise outcome tables across mRS grades.
//
// Every table is indexed [row][col] where row is the baseline grade and col
// the grade it is compared with. Only col < row is populated, the diagonal is
// a "no difference" marker and the upper triangle stays empty.
package comparison

import (
	"gonum.org/v1/gonum/mat"

	"stroke-outcome-engine/internal/model"
)

// Triangle builds a table from a full matrix, keeping the strict lower
// triangle. Cells whose row or column grade is not in ok stay empty.
func Triangle(full mat.Matrix, ok [model.NumGrades]bool) model.Table {
	var t model.Table
	for row := 0; row < model.NumGrades; row++ {
		for col := 0; col < model.NumGrades; col++ {
			switch {
			case col == row:
				t[row][col] = model.Cell{State: model.CellDiagonal}
			case col < row && ok[row] && ok[col]:
				t[row][col] = model.Cell{State: model.CellValue, Value: full.At(row, col)}
			}
		}
	}
	return t
}

// Inputs holds the per-grade scalars the tables are built from.
type Inputs struct {
	QALY [model.NumGrades]float64
	Cost [model.NumGrades]float64
	OK   [model.NumGrades]bool
}

// NewInputs collects QALYs and total costs. A nil outcome marks a failed grade.
func NewInputs(outcomes []*model.DiscountedOutcome) Inputs {
	var in Inputs
	for g, o := range outcomes {
		if g >= model.NumGrades || o == nil {
			continue
		}
		in.QALY[g] = o.QALY
		in.Cost[g] = o.TotalCost.InexactFloat64()
		in.OK[g] = true
	}
	return in
}

// QALYDifference is the full matrix qaly[col] - qaly[row].
func QALYDifference(in Inputs) *mat.Dense {
	return full(func(row, col int) float64 { return in.QALY[col] - in.QALY[row] })
}

// CostDifference is the full matrix cost[row] - cost[col]. Moving from row to
// col, a positive value is a saving and a negative value an added cost.
func CostDifference(in Inputs) *mat.Dense {
	return full(func(row, col int) float64 { return in.Cost[row] - in.Cost[col] })
}

// NetBenefit is wtp * QALY difference + cost difference. Positive values
// favour the change of outcome.
func NetBenefit(in Inputs, wtp float64) *mat.Dense {
	var nb mat.Dense
	nb.Scale(wtp, QALYDifference(in))
	nb.Add(&nb, CostDifference(in))
	return &nb
}

// Build assembles the three comparison tables.
func Build(outcomes []*model.DiscountedOutcome, wtp float64) model.ComparisonTables {
	in := NewInputs(outcomes)
	return model.ComparisonTables{
		QALY:       Triangle(QALYDifference(in), in.OK),
		Cost:       Triangle(CostDifference(in), in.OK),
		NetBenefit: Triangle(NetBenefit(in, wtp), in.OK),
	}
}

func full(f func(row, col int) float64) *mat.Dense {
	d := mat.NewDense(model.NumGrades, model.NumGrades, nil)
	for row := 0; row < model.NumGrades; row++ {
		for col := 0; col < model.NumGrades; col++ {
			d.Set(row, col, f(row, col))
		}
	}
	return d
}
