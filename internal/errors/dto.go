package errors

// ErrorResponse is the envelope every failed quote API request renders to;
// the error middleware builds it from the hint and safe-detail chain.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the client-facing message and structured details
type ErrorDetail struct {
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}
