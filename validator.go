package strictreq

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrInvalidateDest = errors.New("cannot invalidate a non ptr or nil value")

// Validatable marks a bound struct that checks cross-field constraints after
// all of its tagged fields have been populated.
type Validatable interface {
	// Validate is called by Bind once every field is set. A non-nil error
	// zeroes the struct and is returned as a *ValidationError.
	Validate() error
}

// ValidationError is returned by Bind when a Validatable destination
// rejects its own populated fields.
type ValidationError struct {
	Cause error
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("failed to validate: %s", ve.Cause)
}

func (ve *ValidationError) Unwrap() error {
	return ve.Cause
}

// validate runs dest.Validate when dest implements Validatable.
func validate(dest any) error {
	v, ok := dest.(Validatable)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return &ValidationError{Cause: err}
	}
	return nil
}

// Invalidate clears a partially or fully bound dest by setting each field
// to its zero value. dest must be a non-nil pointer to a struct.
func Invalidate(dest any) error {
	value := reflect.ValueOf(dest)
	if dest == nil || value.Kind() != reflect.Ptr || value.IsNil() {
		return ErrInvalidateDest
	}
	zeroStructFields(value.Elem())
	return nil
}
