package comparison

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"stroke-outcome-engine/internal/model"
)

func sampleOutcomes() []*model.DiscountedOutcome {
	qalys := []float64{7.9, 6.8, 5.1, 3.2, 1.9, 0.4}
	costs := []string{"12000.50", "15500", "24000.25", "51000", "88000.75", "97000"}
	out := make([]*model.DiscountedOutcome, model.NumGrades)
	for g := range out {
		out[g] = &model.DiscountedOutcome{Grade: g, QALY: qalys[g], TotalCost: decimal.RequireFromString(costs[g])}
	}
	return out
}

func TestFullMatricesAreAntisymmetric(t *testing.T) {
	in := NewInputs(sampleOutcomes())
	for name, m := range map[string]*mat.Dense{
		"qaly":        QALYDifference(in),
		"cost":        CostDifference(in),
		"net_benefit": NetBenefit(in, 20000),
	} {
		var sum mat.Dense
		sum.Add(m, m.T())
		if !mat.EqualApprox(&sum, mat.NewDense(model.NumGrades, model.NumGrades, nil), 1e-9) {
			t.Fatalf("%s: expected M + Mᵀ = 0, got\n%v", name, mat.Formatted(&sum))
		}
	}
}

func TestBuildTriangularLayout(t *testing.T) {
	outcomes := sampleOutcomes()
	tables := Build(outcomes, 20000)

	for row := 0; row < model.NumGrades; row++ {
		for col := 0; col < model.NumGrades; col++ {
			q := tables.QALY[row][col]
			switch {
			case row == col:
				if q.State != model.CellDiagonal {
					t.Fatalf("(%d,%d): expected diagonal marker, got %+v", row, col, q)
				}
			case col > row:
				if q.State != model.CellEmpty || tables.Cost[row][col].State != model.CellEmpty {
					t.Fatalf("(%d,%d): expected empty upper triangle", row, col)
				}
			default:
				wantQ := outcomes[col].QALY - outcomes[row].QALY
				if got, ok := tables.QALY.Value(row, col); !ok || got != wantQ {
					t.Fatalf("(%d,%d): expected QALY diff %v, got %v", row, col, wantQ, got)
				}
				wantC := outcomes[row].TotalCost.InexactFloat64() - outcomes[col].TotalCost.InexactFloat64()
				if got, ok := tables.Cost.Value(row, col); !ok || got != wantC {
					t.Fatalf("(%d,%d): expected cost diff %v, got %v", row, col, wantC, got)
				}
				got, _ := tables.NetBenefit.Value(row, col)
				if want := 20000*wantQ + wantC; !scalar.EqualWithinAbsOrRel(got, want, 1e-9, 1e-12) {
					t.Fatalf("(%d,%d): expected net benefit %v, got %v", row, col, want, got)
				}
			}
		}
	}
}

func TestBuildImprovementIsFavourable(t *testing.T) {
	tables := Build(sampleOutcomes(), 20000)
	// Moving from mRS 5 to mRS 0 gains QALYs and saves money.
	if v, _ := tables.QALY.Value(5, 0); v <= 0 {
		t.Fatalf("expected a QALY gain, got %v", v)
	}
	if v, _ := tables.Cost.Value(5, 0); v <= 0 {
		t.Fatalf("expected a cost saving, got %v", v)
	}
	if v, _ := tables.NetBenefit.Value(5, 0); v <= 0 {
		t.Fatalf("expected a positive net benefit, got %v", v)
	}
}

func TestBuildSkipsFailedGrades(t *testing.T) {
	outcomes := sampleOutcomes()
	outcomes[3] = nil
	tables := Build(outcomes, 20000)

	for g := 0; g < model.NumGrades; g++ {
		if g == 3 {
			continue
		}
		if _, ok := tables.QALY.Value(3, g); ok {
			t.Fatalf("expected row 3 to be empty at column %d", g)
		}
		if _, ok := tables.NetBenefit.Value(g, 3); ok {
			t.Fatalf("expected column 3 to be empty at row %d", g)
		}
	}
	if tables.QALY[3][3].State != model.CellDiagonal {
		t.Fatal("expected diagonal marker to remain for a failed grade")
	}
	if _, ok := tables.Cost.Value(4, 2); !ok {
		t.Fatal("expected unaffected cells to stay populated")
	}
}

func TestTableJSON(t *testing.T) {
	var tbl model.Table
	tbl[0][0] = model.Cell{State: model.CellDiagonal}
	tbl[1][0] = model.Cell{State: model.CellValue, Value: -1.5}

	b, err := json.Marshal(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded [][]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded[0][0] != "-" {
		t.Fatalf("expected diagonal marker, got %v", decoded[0][0])
	}
	if decoded[1][0] != -1.5 {
		t.Fatalf("expected -1.5, got %v", decoded[1][0])
	}
	if decoded[0][1] != nil {
		t.Fatalf("expected null for an empty cell, got %v", decoded[0][1])
	}
}
