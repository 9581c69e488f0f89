package telguarder

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies lookup failures. Every error returned by this package
// carries exactly one kind.
type ErrorKind string

const (
	// KindInvalidInput means the phone number could not be normalized.
	// Raised locally, before any network traffic.
	KindInvalidInput ErrorKind = "invalid_input"

	// KindNetwork means the exchange with the service failed below the
	// HTTP layer (timeout, connection refused, generic I/O).
	KindNetwork ErrorKind = "network"

	// KindRemote means the service answered with an error status.
	KindRemote ErrorKind = "remote"

	// KindDecode means the service answered with a success status but the
	// payload did not match the expected structure.
	KindDecode ErrorKind = "decode"
)

// Error codes refine a kind.
const (
	CodeInvalidNumber = "INVALID_NUMBER"

	CodeTimeout           = "TIMEOUT"
	CodeConnectionRefused = "CONNECTION_REFUSED"
	CodeIOFailure         = "IO_FAILURE"

	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeRateLimited  = "RATE_LIMITED"
	CodeClientError  = "CLIENT_ERROR"
	CodeServerError  = "SERVER_ERROR"

	CodeMalformedPayload = "MALFORMED_PAYLOAD"
)

// Error is the structured error type returned by the client.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string

	// StatusCode is the HTTP status for remote errors, 0 otherwise.
	StatusCode int

	// RetryAfter is parsed from the Retry-After header on rate-limited
	// responses, when present.
	RetryAfter time.Duration

	// RawBody is a truncated copy of the response body for remote errors.
	RawBody []byte

	Cause     error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Error constructors

func NewInvalidInputError(message string) *Error {
	return &Error{
		Kind:      KindInvalidInput,
		Code:      CodeInvalidNumber,
		Message:   message,
		Retryable: false,
	}
}

func NewNetworkError(code, message string) *Error {
	return &Error{
		Kind:      KindNetwork,
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

func NewRemoteError(code, message string, statusCode int) *Error {
	return &Error{
		Kind:       KindRemote,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  false,
	}
}

func NewRateLimitError(message string, statusCode int, retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRemote,
		Code:       CodeRateLimited,
		Message:    message,
		StatusCode: statusCode,
		RetryAfter: retryAfter,
		Retryable:  true,
	}
}

func NewDecodeError(message string) *Error {
	return &Error{
		Kind:      KindDecode,
		Code:      CodeMalformedPayload,
		Message:   message,
		Retryable: false,
	}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not a telguarder error.
func KindOf(err error) ErrorKind {
	if te, ok := AsError(err); ok {
		return te.Kind
	}
	return ""
}

// IsRetryable reports whether the client's retry policy applies to err.
func IsRetryable(err error) bool {
	te, ok := AsError(err)
	return ok && te.Retryable
}

func IsInvalidInput(err error) bool { return KindOf(err) == KindInvalidInput }
func IsNetworkError(err error) bool { return KindOf(err) == KindNetwork }
func IsRemoteError(err error) bool  { return KindOf(err) == KindRemote }
func IsDecodeError(err error) bool  { return KindOf(err) == KindDecode }

// IsRateLimited reports whether err is a rate-limited remote error.
func IsRateLimited(err error) bool {
	te, ok := AsError(err)
	return ok && te.Kind == KindRemote && te.Code == CodeRateLimited
}

// IsUnauthorized reports whether the service rejected the credential.
func IsUnauthorized(err error) bool {
	te, ok := AsError(err)
	return ok && te.Kind == KindRemote && te.Code == CodeUnauthorized
}

// IsNotFound reports whether the service had no record for the request.
func IsNotFound(err error) bool {
	te, ok := AsError(err)
	return ok && te.Kind == KindRemote && te.Code == CodeNotFound
}
