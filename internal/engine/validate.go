package engine

import (
	"fmt"
	"math"

	"stroke-outcome-engine/internal/model"
)

func validatePatient(p model.Patient) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	if math.IsNaN(p.Age) || math.IsInf(p.Age, 0) || p.Age < 0 {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelCritical,
			Code:    model.CodeInvalidAge,
			Message: fmt.Sprintf("Age must be a non-negative number, got %v", p.Age),
		})
	}

	if p.Sex != model.SexFemale && p.Sex != model.SexMale {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelCritical,
			Code:    model.CodeInvalidSex,
			Message: fmt.Sprintf("Sex must be 0 (female) or 1 (male), got %d", p.Sex),
		})
	}

	if p.MRS < 0 || p.MRS >= model.NumGrades {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelCritical,
			Code:    model.CodeInvalidMRS,
			Message: fmt.Sprintf("mRS must be between 0 and %d, got %d", model.NumGrades-1, p.MRS),
		})
	}

	return msgs
}
