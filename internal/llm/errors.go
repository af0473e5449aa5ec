package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyCompletion = errors.New("no completion returned")
	ErrMissingAPIKey   = errors.New("API key not configured")
)

// APIError is a gateway rejection: a non-2xx status or an error payload.
type APIError struct {
	StatusCode int
	Code       string // gateway error code as sent, "" when absent
	Message    string
	Model      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm %s: status %d: %s", e.Model, e.StatusCode, e.Message)
}

// Retryable reports whether the backup model should be tried
// (rate limited or provider unavailable).
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusServiceUnavailable
}

// IsRetryable unwraps err looking for a retryable *APIError.
func IsRetryable(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Retryable()
}

// StatusCode returns the gateway status carried by err, or 0.
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

// ErrorMessage returns the gateway message when err is an *APIError, else err.Error().
func ErrorMessage(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
