package concourse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from the server.
type APIError struct {
	StatusCode int      `json:"status_code"      yaml:"status_code"`
	Method     string   `json:"method"           yaml:"method"`
	Path       string   `json:"path"             yaml:"path"`
	Message    string   `json:"message"          yaml:"message"`
	Errors     []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	detail := e.Message
	if len(e.Errors) > 0 {
		detail = strings.Join(e.Errors, "; ")
	}

	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}

	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, detail)
}

// NewAPIError builds an APIError from a response body. JSON bodies of the
// form {"errors": [...]} populate Errors; anything else is kept as Message.
func NewAPIError(method, path string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
		Message:    strings.TrimSpace(string(body)),
	}

	var payload struct {
		Errors []string `json:"errors"`
	}

	if json.Unmarshal(body, &payload) == nil && len(payload.Errors) > 0 {
		apiErr.Errors = payload.Errors
	}

	return apiErr
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrURLRequired          = errors.New("URL is required")
	ErrSkipTLSOnlyInDev     = errors.New("skipTLS is only allowed in development environments")
	ErrPasswordRequired     = errors.New("password is required when username is set")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrRateLimiterCanceled  = errors.New("rate limiter wait canceled")
	ErrInvalidRateLimit     = errors.New("requests per second must be positive")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrPipelineNameRequired = errors.New("pipeline name is required")
	ErrJobNameRequired      = errors.New("job name is required")
	ErrResourceNameRequired = errors.New("resource name is required")
)

func statusOf(err error) int {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}
