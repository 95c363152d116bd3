package httptransport

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies transport errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the request deadline passed or was cancelled.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeRequest indicates the HTTP request could not be constructed.
	ErrCodeRequest
	// ErrCodeTooLarge indicates the response body exceeded MaxBodySize.
	ErrCodeTooLarge
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeClient indicates any other 4xx response.
	ErrCodeClient
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeRequest:
		return "request"
	case ErrCodeTooLarge:
		return "too_large"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeClient:
		return "client"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified transport failure. Non-2xx responses carry the
// status code and the response body.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable reports whether repeating the request may succeed.
	Retryable bool
	// Body is the response body, if one was read.
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httptransport: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httptransport: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

func newRequestError(err error) *Error {
	return &Error{Code: ErrCodeRequest, Message: err.Error(), Err: err}
}

func newTooLargeError(statusCode int, limit int64) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeTooLarge,
		Message:    fmt.Sprintf("response body exceeds %d bytes", limit),
	}
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	e := &Error{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d %s", statusCode, http.StatusText(statusCode)),
		Body:       body,
	}
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code = ErrCodeRateLimit
		e.Retryable = true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeClient
	case statusCode >= 500:
		e.Code = ErrCodeServer
		e.Retryable = true
	default:
		// 1xx and 3xx that the client did not follow.
		e.Code = ErrCodeServer
	}
	return e
}

// StatusCode returns the HTTP status code carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsTooLarge checks if the response body exceeded the configured limit.
func IsTooLarge(err error) bool { return hasCode(err, ErrCodeTooLarge) }

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimit) }

// IsClientError checks if an error is a 4xx error other than auth, not found, or rate limit.
func IsClientError(err error) bool { return hasCode(err, ErrCodeClient) }

// IsServerError checks if an error is a server error.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
