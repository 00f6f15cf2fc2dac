package omeife

import (
	"errors"
	"fmt"
)

// Common client errors
var (
	// ErrMissingAPIKey indicates no API key was supplied for the run
	ErrMissingAPIKey = errors.New("API key is missing")

	// ErrMissingField indicates the response JSON lacked the expected field
	ErrMissingField = errors.New("response field missing")

	// ErrEmptyText indicates there is nothing to send
	ErrEmptyText = errors.New("text cannot be empty")
)

// ErrorCode identifies the class of a client failure.
type ErrorCode string

const (
	// ErrorCodeCredentialMissing is returned before any request is attempted.
	ErrorCodeCredentialMissing ErrorCode = "CREDENTIAL_MISSING"

	// ErrorCodeTransport covers network failures and non-success statuses.
	ErrorCodeTransport ErrorCode = "TRANSPORT"

	// ErrorCodeParse covers undecodable bodies and missing fields.
	ErrorCodeParse ErrorCode = "PARSE"

	// ErrorCodeIO covers local file failures.
	ErrorCodeIO ErrorCode = "IO"

	// ErrorCodeSynthesis marks a failure of the speech request itself,
	// before any audio was fetched.
	ErrorCodeSynthesis ErrorCode = "SYNTHESIS"

	// ErrorCodeDownload marks a failure fetching the generated audio.
	ErrorCodeDownload ErrorCode = "DOWNLOAD"
)

// Error is a client error with a code and the operation that produced it.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// newError creates a new client error.
func newError(code ErrorCode, op, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the outermost *Error in err's chain, or "" if
// err is nil or carries no code.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// StatusError reports a non-success HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
