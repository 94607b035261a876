package model

// ErrorResponse is the body of every non-2xx checkout API response.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	// Details lists schema violations of a rejected webhook body.
	Details []string `json:"details,omitempty"`
}
