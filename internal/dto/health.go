package dto

// HealthResponse is returned by /healthz, /livez and /readyz. Details is
// only set by the readiness check and carries the storage status.
type HealthResponse struct {
	Status  string         `json:"status" example:"ready"`
	Details map[string]any `json:"details,omitempty"`
}
