package strictreq

import (
	"errors"
	"fmt"
	"net/http"
)

///////////////////////////////////////////////////////////////////////////////
// Error Kinds
///////////////////////////////////////////////////////////////////////////////

// ErrorKind classifies why a parameter was rejected.
type ErrorKind uint8

const (
	// MissingParameter is returned when a required field is absent or empty.
	MissingParameter ErrorKind = iota + 1
	// InvalidType is returned when coercion or the post-coercion type
	// check fails.
	InvalidType
	// TooLong is returned when a string exceeds its length rule.
	TooLong
	// OutOfRange is returned when a number (or a filtered key) falls
	// outside its min/max rules.
	OutOfRange
	// MalformedBody is returned when a JSON body is absent or undecodable.
	MalformedBody
)

var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidType      = errors.New("invalid parameter type")
	ErrTooLong          = errors.New("parameter too long")
	ErrOutOfRange       = errors.New("parameter out of range")
	ErrMalformedBody    = errors.New("malformed request body")
)

var kindNames = map[ErrorKind]string{
	MissingParameter: "missing_parameter",
	InvalidType:      "invalid_type",
	TooLong:          "too_long",
	OutOfRange:       "out_of_range",
	MalformedBody:    "malformed_body",
}

var kindSentinels = map[ErrorKind]error{
	MissingParameter: ErrMissingParameter,
	InvalidType:      ErrInvalidType,
	TooLong:          ErrTooLong,
	OutOfRange:       ErrOutOfRange,
	MalformedBody:    ErrMalformedBody,
}

// String returns the snake_case name of the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinel returns the sentinel error matched by errors.Is for this kind.
func (k ErrorKind) Sentinel() error {
	return kindSentinels[k]
}

///////////////////////////////////////////////////////////////////////////////
// Error
///////////////////////////////////////////////////////////////////////////////

// Error is a rejected parameter. It always names the offending field so the
// caller can report it back to the client.
type Error struct {
	Kind  ErrorKind
	Field string
	Cause error // optional underlying error (strconv, uuid, gjson...)
}

func newError(kind ErrorKind, field string) *Error {
	return &Error{Kind: kind, Field: field}
}

func wrapError(kind ErrorKind, field string, cause error) *Error {
	return &Error{Kind: kind, Field: field, Cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Kind.Sentinel(), e.Field)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.Sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// StatusCode is the HTTP status every rejected parameter maps to.
func (e *Error) StatusCode() int {
	return http.StatusBadRequest
}

// KindOf reports the ErrorKind carried by err, if err is (or wraps) an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// FieldOf reports the field name carried by err, if err is (or wraps) an *Error.
func FieldOf(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Field, true
	}
	return "", false
}
