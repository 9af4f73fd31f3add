// Package errors is the project error type: a code for machines, a message
// for people, and an optional field and op tag. Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure. The numeric values go over the wire, so
// append new codes at the end.
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota
	ErrorCodePanic                     // recovered by middleware
	ErrorCodeUnavailable               // could not reach a dependency
	ErrorCodeUpstream                  // dependency answered badly
	ErrorCodeTimeout                   // a member reply wait elapsed
	ErrorCodePrecondition              // flow entry requirement failed (role grant, DM open)
	ErrorCodeConflict                  // already in progress
	ErrorCodeInvalidArgument           // bad caller input
	ErrorCodeValidation                // config or payload validation
	ErrorCodeNotFound
	ErrorCodeDB
)

var codeTable = map[ErrorCode]struct {
	label  string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeUpstream:        {"upstream", http.StatusBadGateway},
	ErrorCodeTimeout:         {"timeout", http.StatusGatewayTimeout},
	ErrorCodePrecondition:    {"precondition", http.StatusPreconditionFailed},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
}

// String is the label used in log fields and metric labels
func (c ErrorCode) String() string {
	if e, ok := codeTable[c]; ok {
		return e.label
	}
	return "unknown"
}

// Status is the HTTP status the ops API answers with
func (c ErrorCode) Status() int {
	if e, ok := codeTable[c]; ok {
		return e.status
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned by single-row lookups that matched nothing
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code and message around an optional cause
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	cause error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field names the offending input, if any
func (e *Error) Field() string { return e.field }

// Wire is the JSON shape of an error in API envelopes
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom maps any error onto Wire. Foreign errors become Unknown with
// their text as the message; nil gives the zero Wire.
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns the outermost code in the chain, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether CodeOf(err) is code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is CodeOf(err).Status()
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// Root follows Unwrap to the innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

// OpOf returns the op tag nearest the root of the chain
func OpOf(err error) string {
	var op string
	for ; err != nil; err = stderrs.Unwrap(err) {
		if e, ok := err.(*Error); ok && e.op != "" {
			op = e.op
		}
	}
	return op
}

// with copies the outermost *Error and applies set; foreign errors pass through
func with(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	set(&cp)
	return &cp
}

// WithField tags err with the offending input name
func WithField(err error, field string) error {
	return with(err, func(e *Error) { e.field = field })
}

// WithOp tags err with the operation that failed
func WithOp(err error, op string) error {
	return with(err, func(e *Error) { e.op = op })
}

// New returns an *Error with no cause
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a format string
func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap attaches code and msg to cause
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

// Wrapf is Wrap with a format string
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

// WrapIf is Wrap that keeps nil as nil
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error   { return Newf(ErrorCodeInvalidArgument, format, a...) }
func DBf(format string, a ...any) error           { return Newf(ErrorCodeDB, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Conflictf(format string, a ...any) error     { return Newf(ErrorCodeConflict, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }
func Upstreamf(format string, a ...any) error     { return Newf(ErrorCodeUpstream, format, a...) }
func Timeoutf(format string, a ...any) error      { return Newf(ErrorCodeTimeout, format, a...) }
func Preconditionf(format string, a ...any) error { return Newf(ErrorCodePrecondition, format, a...) }
