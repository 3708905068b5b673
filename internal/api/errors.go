package api

import (
	"errors"
	"fmt"
)

// The closed error taxonomy every resource-client method resolves into.
// Exactly one of these matches via errors.Is on any returned error.
var (
	// ErrUnauthorized is returned on HTTP 401. The client does not refresh
	// tokens or force a logout; it warns and surfaces the error.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned on HTTP 404: the id does not exist or is not
	// visible to the caller's tenant.
	ErrNotFound = errors.New("not found")

	// ErrValidationFailed is returned on a 4xx carrying field errors, and
	// by the client's own pre-flight payload validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNetworkFailure is returned when the request never reached the
	// server (DNS, connect, timeout).
	ErrNetworkFailure = errors.New("network failure")

	// ErrUnknown covers everything else, including 5xx responses.
	ErrUnknown = errors.New("unknown api error")
)

// APIError wraps a failed call with the operation, the HTTP status (zero if
// the request never got a response) and any per-field validation detail.
// It unwraps to exactly one taxonomy sentinel.
type APIError struct {
	Op     string
	Kind   error
	Status int
	Detail string
	Fields map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s: %v: %s", e.Op, e.Kind, e.Detail)
	}
	if e.Status != 0 {
		return fmt.Sprintf("api: %s: %v (status %d)", e.Op, e.Kind, e.Status)
	}
	return fmt.Sprintf("api: %s: %v", e.Op, e.Kind)
}

// Unwrap returns the taxonomy sentinel this error resolves to.
func (e *APIError) Unwrap() error { return e.Kind }

// newError builds an APIError for op resolving an HTTP status into the
// taxonomy.
func newError(op string, status int, detail string) *APIError {
	return &APIError{Op: op, Kind: kindForStatus(status), Status: status, Detail: detail}
}

func kindForStatus(status int) error {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 400 || status == 422:
		return ErrValidationFailed
	default:
		return ErrUnknown
	}
}

// validationError builds an APIError for a payload rejected before it was
// sent, carrying the per-field messages.
func validationError(op string, fields map[string]string) *APIError {
	return &APIError{Op: op, Kind: ErrValidationFailed, Fields: fields}
}

// networkError wraps a transport-level failure.
func networkError(op string, err error) *APIError {
	return &APIError{Op: op, Kind: ErrNetworkFailure, Detail: err.Error()}
}
