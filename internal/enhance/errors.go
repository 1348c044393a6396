package enhance

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyContent is returned when there is no text to enhance.
	ErrEmptyContent = errors.New("no content to enhance")
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("API key is not set")
	// ErrMalformedResponse is returned when a successful response carries
	// no text.
	ErrMalformedResponse = errors.New("malformed response from enhancement service")
)

// APIError is a non-success answer from the enhancement service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Retryable reports whether the request may succeed when repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
