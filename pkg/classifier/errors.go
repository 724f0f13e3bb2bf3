package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned when no model is loaded. It is
	// surfaced before any inference is attempted; no partial timeline
	// is ever computed behind it.
	ErrModelUnavailable = errors.New("classifier: model unavailable")

	// ErrEmptyOutput is returned when the model produced no class scores.
	ErrEmptyOutput = errors.New("classifier: model returned no scores")
)

// APIError represents an error response from the scoring sidecar.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the sidecar.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("classifier: sidecar error %d: %s", e.StatusCode, e.Message)
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}
