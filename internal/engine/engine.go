package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/exascience/pargo/parallel"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stroke-outcome-engine/internal/comparison"
	"stroke-outcome-engine/internal/costing"
	"stroke-outcome-engine/internal/model"
	"stroke-outcome-engine/internal/mortality"
	"stroke-outcome-engine/internal/paramregistry"
	"stroke-outcome-engine/internal/qaly"
	"stroke-outcome-engine/internal/resource"
	"stroke-outcome-engine/internal/survival"
)

type Engine struct {
	registry *paramregistry.Registry
	parallel bool
	log      zerolog.Logger
}

type Option func(*Engine)

// WithParallelGrades projects the six grades concurrently. Each grade only
// reads the parameters and writes its own slot.
func WithParallelGrades(on bool) Option {
	return func(e *Engine) { e.parallel = on }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(registry *paramregistry.Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProjectGrade runs the whole pipeline for one grade: survival, QALYs,
// resource decomposition and costing. A median survival outside
// survival.MaxSurvivalYears fails the grade before anything is decomposed.
func ProjectGrade(p *model.Parameters, age float64, sex, grade int) (*model.GradeResult, error) {
	st, curve, summary := survival.Project(p.Coefficients.Mortality, age, sex, grade, p.Fixed.HorizonYears)
	if err := survival.CheckMedian(summary); err != nil {
		return nil, err
	}

	set := resource.NewSet(p, age, sex, grade)
	projections, err := set.Project(summary.MedianYears)
	if err != nil {
		return nil, fmt.Errorf("project resources: %w", err)
	}

	q := qaly.Discounted(p.Fixed.Utility[grade], summary.MedianYears, p.Fixed.DiscountRate())
	return &model.GradeResult{
		Grade:       grade,
		Curve:       curve,
		Summary:     summary,
		Predictors:  predictors(st, set),
		Counts:      set.Counts(summary.MedianYears),
		Projections: projections,
		Outcome:     costing.Outcome(grade, q, projections, p.Fixed),
	}, nil
}

func predictors(st mortality.Stitched, set resource.Set) model.Predictors {
	return model.Predictors{
		YearOne:     st.YearOne.LP,
		YearN:       st.YearN.LP,
		AE:          set.AE.LP,
		NonElective: set.NonElective.LP,
		Elective:    set.Elective.LP,
	}
}

func failureCode(err error) string {
	var unbounded *survival.UnboundedSurvivalError
	if errors.As(err, &unbounded) {
		return model.CodeUnboundedSurvival
	}
	return model.CodeNonMonotonic
}

// ProjectAll projects every grade. A failure leaves that grade's slot nil
// and its error in the matching errs slot; other grades are unaffected.
func ProjectAll(p *model.Parameters, age float64, sex int, inParallel bool) (results []*model.GradeResult, errs []error) {
	results = make([]*model.GradeResult, model.NumGrades)
	errs = make([]error, model.NumGrades)
	run := func(low, high int) {
		for g := low; g < high; g++ {
			results[g], errs[g] = ProjectGrade(p, age, sex, g)
		}
	}
	if inParallel {
		parallel.Range(0, model.NumGrades, 0, run)
	} else {
		run(0, model.NumGrades)
	}
	return results, errs
}

// Process runs a projection request. The returned error is only set when the
// requested parameter set is invalid; every other problem is reported as a
// message in the response.
func (e *Engine) Process(ctx context.Context, req *model.ProjectionRequest) (*model.ProjectionResponse, error) {
	start := time.Now()
	calcID := uuid.New().String()

	params, fellBack, err := e.registry.Lookup(ctx, req.ParameterSetID)
	if err != nil {
		return nil, err
	}

	var allMessages []model.CalculationMessage
	add := func(msg model.CalculationMessage) {
		msg.ID = len(allMessages)
		allMessages = append(allMessages, msg)
	}

	if fellBack {
		add(model.CalculationMessage{
			Level:   model.LevelWarning,
			Code:    model.CodeParameterSetFallback,
			Message: fmt.Sprintf("Parameter set %s unavailable, default parameters used", req.ParameterSetID),
		})
	}

	outcome := model.OutcomeSuccess
	result := model.CalculationResult{Patient: req.Patient}

	validationMsgs := validatePatient(req.Patient)
	for _, vm := range validationMsgs {
		add(vm)
	}
	if len(validationMsgs) > 0 {
		outcome = model.OutcomeFailure
	} else {
		results, errs := ProjectAll(params, req.Patient.Age, req.Patient.Sex, e.parallel)
		outcomes := make([]*model.DiscountedOutcome, model.NumGrades)
		for g := range results {
			grade := g
			if errs[g] != nil {
				e.log.Error().Err(errs[g]).Str("calculation_id", calcID).Int("grade", g).Msg("grade projection failed")
				add(model.CalculationMessage{
					Level:   model.LevelCritical,
					Code:    failureCode(errs[g]),
					Grade:   &grade,
					Message: errs[g].Error(),
				})
				if g == req.Patient.MRS {
					outcome = model.OutcomeFailure
				} else if outcome == model.OutcomeSuccess {
					outcome = model.OutcomePartial
				}
				continue
			}

			r := results[g]
			outcomes[g] = &r.Outcome
			e.log.Debug().
				Str("calculation_id", calcID).
				Int("grade", g).
				Float64("median_years", r.Summary.MedianYears).
				Float64("qaly", r.Outcome.QALY).
				Msg("grade projected")
			if r.Summary.SaturationYear != nil {
				year := *r.Summary.SaturationYear
				e.log.Warn().Str("calculation_id", calcID).Int("grade", g).Int("year", year).Msg("mortality model saturated")
				add(model.CalculationMessage{
					Level:   model.LevelWarning,
					Code:    model.CodeModelSaturated,
					Grade:   &grade,
					Message: fmt.Sprintf("Probability of death for mRS %d reaches 1.0 in year %d; the model is not meaningful beyond it", g, year),
				})
			}
		}
		result.Grades = results
		tables := comparison.Build(outcomes, params.Fixed.WTPPerQALY)
		result.Comparisons = &tables
	}

	if allMessages == nil {
		allMessages = []model.CalculationMessage{}
	}
	result.Messages = allMessages

	elapsed := time.Since(start)
	now := time.Now().UTC()
	e.log.Info().
		Str("calculation_id", calcID).
		Str("tenant_id", req.TenantID).
		Str("outcome", outcome).
		Dur("duration", elapsed).
		Msg("projection calculated")

	return &model.ProjectionResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          calcID,
			TenantID:               req.TenantID,
			ParameterSetID:         req.ParameterSetID,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: result,
	}, nil
}
