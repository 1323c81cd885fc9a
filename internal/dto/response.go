package dto

import "time"

// APIResponse is the envelope every endpoint returns. Success mirrors the HTTP
// status class; Errors carries field-level detail on validation failures.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Errors    interface{} `json:"errors,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewSuccessResponse wraps data in the standard envelope.
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorResponse wraps an error message in the standard envelope.
func NewErrorResponse(message string, errs interface{}) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: time.Now().UTC(),
	}
}
