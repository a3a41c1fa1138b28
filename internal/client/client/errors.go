package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is the single shape every failed request is normalized into.
//
// Status is 0 when no HTTP status could be obtained. Data holds the decoded
// response body for HTTP failures.
type APIError struct {
	Message        string
	Status         int
	IsTimeout      bool
	IsNetworkError bool
	Data           any
	Err            error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets callers match transport failures against ErrUnavailable and
// rejected credentials against ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.IsTimeout || e.IsNetworkError || e.Status == http.StatusServiceUnavailable
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// AsAPIError unwraps err into an *APIError if there is one in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newTimeoutError(err error) *APIError {
	return &APIError{
		Message:   "Request timeout",
		Status:    http.StatusRequestTimeout,
		IsTimeout: true,
		Err:       err,
	}
}

func newNetworkError(err error) *APIError {
	return &APIError{
		Message:        err.Error(),
		IsNetworkError: true,
		Err:            err,
	}
}

func newHTTPError(status int, data any) *APIError {
	msg := fmt.Sprintf("HTTP %d", status)
	if m, ok := data.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			msg = s
		}
	}
	return &APIError{Message: msg, Status: status, Data: data}
}
