package arr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure of the access layer
type ErrorKind int

const (
	// ErrConfigMissing means no usable endpoint exists; callers fall back to samples
	ErrConfigMissing ErrorKind = iota
	ErrInsecureMixedContent
	ErrAuthRejected
	ErrTimeout
	ErrNetworkOrCors
	ErrHTTP
	ErrAggregateFailure
	ErrDecode
	ErrCircuitOpen
)

// String returns a short name for the kind
func (k ErrorKind) String() string {
	switch k {
	case ErrConfigMissing:
		return "config_missing"
	case ErrInsecureMixedContent:
		return "insecure_mixed_content"
	case ErrAuthRejected:
		return "auth_rejected"
	case ErrTimeout:
		return "timeout"
	case ErrNetworkOrCors:
		return "network_or_cors"
	case ErrHTTP:
		return "http_error"
	case ErrAggregateFailure:
		return "aggregate_failure"
	case ErrDecode:
		return "decode"
	case ErrCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Error is a classified access-layer failure
type Error struct {
	Kind     ErrorKind
	Message  string
	Status   int
	Provider string
	Err      error
	// Causes holds each provider failure of an ErrAggregateFailure
	Causes []error
}

func (e *Error) Error() string {
	if e.Provider != "" {
		return e.Provider + ": " + e.Message
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new classified error
func NewError(kind ErrorKind, message string, status int) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Status:  status,
	}
}

// KindOf returns the kind of err and true if err is classified
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func newConfigMissingError(what string) *Error {
	return NewError(ErrConfigMissing, fmt.Sprintf("No enabled %s service is configured", what), 0)
}

func newMixedContentError(target string) *Error {
	return NewError(ErrInsecureMixedContent,
		fmt.Sprintf("Browser block: cannot reach HTTP server %s from an HTTPS page. Use an HTTPS URL for the server or open Hydrarr over HTTP.", target), 0)
}

func newAuthError(status int) *Error {
	return NewError(ErrAuthRejected,
		fmt.Sprintf("Authentication rejected (%d). Check the API key.", status), status)
}

func newTimeoutError(timeoutSec float64, err error) *Error {
	e := NewError(ErrTimeout,
		fmt.Sprintf("Timed out (%gs). Check the IP and that the server is running.", timeoutSec), 0)
	e.Err = err
	return e
}

func newNetworkError(err error) *Error {
	e := NewError(ErrNetworkOrCors,
		"Connection failed (network/CORS). Make sure this device is on the same network as the server.", 0)
	e.Err = err
	return e
}

func newHTTPError(status int, body string) *Error {
	msg := fmt.Sprintf("HTTP error %d", status)
	if body = strings.TrimSpace(body); body != "" {
		if len(body) > 200 {
			body = body[:200]
		}
		msg += ": " + body
	}
	return NewError(ErrHTTP, msg, status)
}

func newDecodeError(err error) *Error {
	e := NewError(ErrDecode, fmt.Sprintf("Invalid JSON response: %v", err), 0)
	e.Err = err
	return e
}

func newCircuitOpenError(err error) *Error {
	e := NewError(ErrCircuitOpen, "Service temporarily disabled after repeated failures. Retrying shortly.", 0)
	e.Err = err
	return e
}

func newAggregateError(what string, causes []error) *Error {
	e := NewError(ErrAggregateFailure, fmt.Sprintf("All %s providers failed", what), 0)
	e.Causes = causes
	e.Err = errors.Join(causes...)
	return e
}
