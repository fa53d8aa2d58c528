package apierr

import (
	"errors"
	"fmt"
)

// Error is a classified beacon error. Transport and config code construct
// these instead of bare fmt.Errorf so the pipeline supervisor can branch on
// Code without string matching.
type Error struct {
	Code    Code
	Message string
	Status  int // HTTP status, when Code came from a server response
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NotReady constructs the error returned when transport is invoked while
// the link layer reports the network is not associated.
func NotReady() *Error {
	return &Error{Code: CodeNotReady, Message: "network link not associated"}
}

// Timeout constructs the error returned when the HTTP POST exceeds its
// total timeout.
func Timeout(err error) *Error {
	return &Error{Code: CodeTimeout, Message: "request exceeded timeout", Err: err}
}

// ServerError constructs the error returned for any response status other
// than 200 or 201.
func ServerError(status int) *Error {
	return &Error{Code: CodeServerError, Message: "response status not 200/201", Status: status}
}

// TransportError constructs the error returned for socket/TLS-level
// failures below the HTTP layer.
func TransportError(err error) *Error {
	return &Error{Code: CodeTransportError, Message: "transport failure", Err: err}
}

// Validation constructs the error returned when Config.Set rejects an
// out-of-range value.
func Validation(field string, value any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf("value %v out of range for %s", value, field)}
}

// FatalHardware constructs the error logged before the device halts.
func FatalHardware(component string, err error) *Error {
	return &Error{Code: CodeFatalHardware, Message: fmt.Sprintf("%s failed to initialize", component), Err: err}
}

// CodeOf extracts the Code from err if it (or something it wraps) is an
// *Error, and ("", false) otherwise.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
