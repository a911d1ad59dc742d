package model

type ProjectionResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   CalculationResult   `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	TenantID               string `json:"tenant_id"`
	ParameterSetID         string `json:"parameter_set_id,omitempty"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

type CalculationResult struct {
	Messages []CalculationMessage `json:"messages"`
	Patient  Patient              `json:"patient"`
	// Grades has one slot per mRS grade; a slot is nil when that grade failed.
	Grades      []*GradeResult    `json:"grades"`
	Comparisons *ComparisonTables `json:"comparisons,omitempty"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomePartial = "PARTIAL"
	OutcomeFailure = "FAILURE"
)
