// Package streamerr provides the stream package's structured error type:
// a machine-readable code plus a retryable classification, adapted from
// the teacher repo's errors package (trimmed of its HTTP-status mapping,
// which belongs to a service's transport layer, not a library).
package streamerr

import "fmt"

// Code is a machine-readable error code.
type Code string

const (
	// CodeSourceBound indicates an attempt to attach a source that already
	// has a destination.
	CodeSourceBound Code = "SOURCE_ALREADY_BOUND"
	// CodeSourceReplaced indicates an attempt to set a transform's source
	// twice.
	CodeSourceReplaced Code = "SOURCE_ALREADY_SET"
	// CodeInvalidSource indicates a source object missing Read or event
	// subscription support.
	CodeInvalidSource Code = "INVALID_SOURCE"
	// CodeDoubleCallback indicates a done callback invoked more than once.
	CodeDoubleCallback Code = "DOUBLE_CALLBACK"
	// CodeDestroyed carries a caller-supplied cause through destroy(cause).
	CodeDestroyed Code = "DESTROYED"
	// CodeUpstream wraps an error propagated from a source iterator.
	CodeUpstream Code = "UPSTREAM_ERROR"
	// CodeExhausted marks adapter-level retry/circuit-breaker exhaustion.
	CodeExhausted Code = "RETRY_EXHAUSTED"
	// CodeInvalidOptions marks a malformed options struct rejected at
	// construction time, before any source is attached.
	CodeInvalidOptions Code = "INVALID_OPTIONS"
	// CodeValidation marks a struct-tag validation failure reported by
	// internal/validate.
	CodeValidation Code = "VALIDATION_FAILED"
)

var retryable = map[Code]bool{
	CodeUpstream:  true,
	CodeExhausted: false,
}

// IsRetryable reports whether an error of the given code is worth retrying.
func IsRetryable(c Code) bool { return retryable[c] }

// Error is the structured error type carried through the stream package's
// "error" events and destroy(cause) calls.
type Error struct {
	Code    Code
	Message string
	Cause   error
	// Details carries structured context, such as the per-field messages
	// a validation failure produced.
	Details map[string]any
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Retryable() bool { return IsRetryable(e.Code) }
