package handlers

// ErrorResponse is the standard error response body for the echo-served
// operational endpoints. Huma operations use RFC 9457 problem details.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse is the /readyz body.
type ReadyResponse struct {
	Status string `json:"status"          example:"ready"`
	Store  string `json:"store,omitempty" example:"postgres"`
}
