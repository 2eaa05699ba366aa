package common

// ErrorResponse documents the JSON error body returned by every endpoint
type ErrorResponse struct {
	Error   string            `json:"error" example:"Cannot start meeting with status: in_progress"`
	Code    string            `json:"code" example:"MEETING_INVALID_STATE"`
	Details map[string]string `json:"details,omitempty"`
}

// StatusResponse is returned by endpoints that have no resource to show
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
