package errors

import (
	"errors"
	"fmt"
)

// Client-side error conditions.
var (
	// Transport / realtime
	ErrNotConnected     = errors.New("websocket not connected")
	ErrAlreadyConnected = errors.New("websocket already connected")

	// Auth
	ErrMissingToken = errors.New("authentication token is not set")
	ErrTokenExpired = errors.New("authentication token has expired")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("action forbidden")

	// REST
	ErrNotFound    = errors.New("resource not found")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrBadRequest  = errors.New("bad request")
	ErrConflict    = errors.New("resource conflict")
	ErrServer      = errors.New("server error")
)

// APIError wraps a failed backend call with the HTTP status and the
// human-readable message from the response envelope. Stores surface
// apiErr.Message as their current error string.
type APIError struct {
	Err        error  // sentinel classifying the failure
	StatusCode int    // HTTP status, 0 for transport-level failures
	Message    string // user-facing message from the envelope, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError classifies an HTTP status code into an APIError.
func NewAPIError(statusCode int, message string) *APIError {
	var sentinel error
	switch {
	case statusCode == 400 || statusCode == 422:
		sentinel = ErrBadRequest
	case statusCode == 401:
		sentinel = ErrUnauthorized
	case statusCode == 403:
		sentinel = ErrForbidden
	case statusCode == 404:
		sentinel = ErrNotFound
	case statusCode == 409:
		sentinel = ErrConflict
	case statusCode == 429:
		sentinel = ErrRateLimited
	case statusCode >= 500:
		sentinel = ErrServer
	default:
		sentinel = fmt.Errorf("unexpected status %d", statusCode)
	}
	return &APIError{Err: sentinel, StatusCode: statusCode, Message: message}
}

// NewRequestError wraps a failure that happened before any HTTP status was
// received (connection refused, timeout, body decode).
func NewRequestError(err error) *APIError {
	return &APIError{Err: err}
}
