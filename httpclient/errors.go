package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeConflict indicates a state conflict (409).
	ErrCodeConflict
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates a rejected or unbuildable request (4xx).
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
	// ErrCodeCanceled indicates the caller cancelled the context.
	ErrCodeCanceled
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeConflict:
		return "conflict"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	case ErrCodeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable indicates whether the operation can be retried.
	Retryable bool
	// RetryAfter is the server-provided delay from a Retry-After header, if any.
	RetryAfter time.Duration
	// Body is the original response body (may be nil).
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewCanceledError creates an error for a cancelled context.
func NewCanceledError(err error) *Error {
	return &Error{Code: ErrCodeCanceled, Message: err.Error(), Retryable: false, Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewValidationError creates an error for a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg, Retryable: false}
}

// statusError builds a classified error for a received response.
func statusError(code ErrorCode, statusCode int, body []byte, retryable bool) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       code,
		Message:    statusMessage(statusCode, body),
		Retryable:  retryable,
		Body:       body,
	}
}

// statusMessage is "HTTP 404 Not Found", plus a short body excerpt when present.
func statusMessage(statusCode int, body []byte) string {
	msg := fmt.Sprintf("HTTP %d %s", statusCode, http.StatusText(statusCode))
	if len(body) == 0 {
		return msg
	}
	const maxExcerpt = 200
	excerpt := string(body)
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt] + "..."
	}
	return msg + ": " + excerpt
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return statusError(ErrCodeAuth, statusCode, body, false)
	case statusCode == http.StatusNotFound:
		return statusError(ErrCodeNotFound, statusCode, body, false)
	case statusCode == http.StatusConflict:
		return statusError(ErrCodeConflict, statusCode, body, false)
	case statusCode == http.StatusRequestTimeout:
		return statusError(ErrCodeTimeout, statusCode, body, true)
	case statusCode == http.StatusTooManyRequests:
		return statusError(ErrCodeRateLimit, statusCode, body, true)
	case statusCode >= 400 && statusCode < 500:
		return statusError(ErrCodeValidation, statusCode, body, false)
	case statusCode >= 500:
		retryable := statusCode != http.StatusNotImplemented && statusCode != http.StatusHTTPVersionNotSupported
		return statusError(ErrCodeServer, statusCode, body, retryable)
	default:
		return statusError(ErrCodeServer, statusCode, body, false)
	}
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
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

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimit) }

// IsServerError checks if an error is a server error.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
