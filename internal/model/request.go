package model

type ProjectionRequest struct {
	TenantID string  `json:"tenant_id"`
	Patient  Patient `json:"patient"`
	// ParameterSetID optionally names a parameter set held by the registry.
	ParameterSetID string `json:"parameter_set_id,omitempty"`
}
