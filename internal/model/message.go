package model

type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Grade   *int   `json:"grade,omitempty"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

const (
	CodeInvalidAge           = "INVALID_AGE"
	CodeInvalidSex           = "INVALID_SEX"
	CodeInvalidMRS           = "INVALID_MRS"
	CodeModelSaturated       = "MODEL_SATURATED"
	CodeNonMonotonic         = "NON_MONOTONIC_PROJECTION"
	CodeUnboundedSurvival    = "UNBOUNDED_SURVIVAL"
	CodeParameterSetFallback = "PARAMETER_SET_FALLBACK"
)
