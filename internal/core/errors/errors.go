package errors

const (
	HttpInternalError      = "internal_error"
	HttpInvalidFilterError = "invalid_filter"
	HttpNotReadyError      = "not_ready"
	HttpNotFoundError      = "not_found"
)

// ErrorResponse is the error response body for dashboard API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
