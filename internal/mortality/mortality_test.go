package mortality

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"stroke-outcome-engine/internal/model"
)

func testCoefficients() model.MortalityCoefficients {
	return model.MortalityCoefficients{
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
	}
}

func TestYearOneDeathProbabilityIsLogistic(t *testing.T) {
	c := testCoefficients()
	lp := -3.3 + 0.06*(75-59.9) + 0.2*1 + 0
	want := 1 / (1 + math.Exp(-lp))

	got := YearOneDeathProbability(c, 75, model.SexMale, 0)
	if !scalar.EqualWithinAbsOrRel(got, want, 1e-12, 1e-12) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if lp1 := YearOneLP(c, 75, model.SexMale, 0); !scalar.EqualWithinAbsOrRel(lp1, lp, 1e-12, 1e-12) {
		t.Fatalf("expected LP %v, got %v", lp, lp1)
	}
}

func TestHazardYearN(t *testing.T) {
	c := testCoefficients()
	p1 := YearOneDeathProbability(c, 75, model.SexFemale, 2)
	lp := YearNLP(c, 75, model.SexFemale, 2)

	for _, year := range []int{2, 5, 10} {
		wantHazard := math.Exp(lp) * (math.Exp(c.Gamma*float64(year-1)) - 1) / c.Gamma
		hazard, pDeath := HazardYearN(c, 75, model.SexFemale, 2, year, p1)
		if !scalar.EqualWithinAbsOrRel(hazard, wantHazard, 1e-12, 1e-12) {
			t.Fatalf("year %d: expected hazard %v, got %v", year, wantHazard, hazard)
		}
		wantP := p1 + (1-p1)*wantHazard
		if !scalar.EqualWithinAbsOrRel(pDeath, wantP, 1e-12, 1e-12) {
			t.Fatalf("year %d: expected pDeath %v, got %v", year, wantP, pDeath)
		}
	}
}

func TestStitchedIsContinuousAtYearOne(t *testing.T) {
	st := New(testCoefficients(), 75, model.SexFemale, 3)
	if got := st.YearN.CumulativePDeath(1); got != st.YearOne.PDeath {
		t.Fatalf("expected year-N model to start at %v, got %v", st.YearOne.PDeath, got)
	}
	if p, _ := st.PDeath(1); p != st.YearOne.PDeath {
		t.Fatalf("expected P(1) = %v, got %v", st.YearOne.PDeath, p)
	}
}

func TestStitchedSelectsPieceByYear(t *testing.T) {
	st := New(testCoefficients(), 60, model.SexMale, 1)
	if _, ok := st.For(0.5).(YearOneModel); !ok {
		t.Fatal("expected year-one model at t=0.5")
	}
	if _, ok := st.For(1).(YearOneModel); !ok {
		t.Fatal("expected year-one model at t=1")
	}
	if _, ok := st.For(1.01).(YearNModel); !ok {
		t.Fatal("expected year-N model at t=1.01")
	}
}

func TestTimeForInvertsPDeath(t *testing.T) {
	c := testCoefficients()
	for grade := 0; grade < model.NumGrades; grade++ {
		st := New(c, 75, model.SexFemale, grade)
		for _, target := range []float64{0.01, 0.05, 0.25, 0.5, 0.75, 0.99} {
			tm := st.TimeFor(target)
			if tm < 0 || math.IsInf(tm, 0) || math.IsNaN(tm) {
				t.Fatalf("grade %d target %v: invalid time %v", grade, target, tm)
			}
			got := st.For(tm).CumulativePDeath(tm)
			if !scalar.EqualWithinAbsOrRel(got, target, 1e-9, 1e-9) {
				t.Fatalf("grade %d target %v: P(%v) = %v", grade, target, tm, got)
			}
		}
	}
}

func TestTimeForWithZeroGamma(t *testing.T) {
	c := testCoefficients()
	c.Gamma = 0
	st := New(c, 70, model.SexMale, 4)

	if h := st.YearN.Hazard(3); !scalar.EqualWithinAbsOrRel(h, math.Exp(st.YearN.LP)*2, 1e-12, 1e-12) {
		t.Fatalf("expected exponential hazard, got %v", h)
	}
	tm := st.TimeFor(0.6)
	if got := st.For(tm).CumulativePDeath(tm); !scalar.EqualWithinAbsOrRel(got, 0.6, 1e-9, 1e-9) {
		t.Fatalf("expected P(%v) = 0.6, got %v", tm, got)
	}
}

func TestPDeathClampsAtOne(t *testing.T) {
	st := New(testCoefficients(), 95, model.SexMale, 5)
	p, saturated := st.PDeath(40)
	if !saturated {
		t.Fatal("expected the model to saturate by year 40")
	}
	if p != 1 {
		t.Fatalf("expected clamped probability 1, got %v", p)
	}
	if raw := st.YearN.CumulativePDeath(40); raw <= 1 {
		t.Fatalf("expected raw probability above 1, got %v", raw)
	}
}
