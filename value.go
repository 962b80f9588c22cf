package strictreq

import (
	"fmt"

	"github.com/spf13/cast"
)

///////////////////////////////////////////////////////////////////////////////
// Declared Types
///////////////////////////////////////////////////////////////////////////////

// Type is the declared type of a parameter.
type Type uint8

const (
	Invalid Type = iota
	Integer
	String
	Double
	Boolean
	Array
)

var typeNames = [...]string{
	Invalid: "invalid",
	Integer: "integer",
	String:  "string",
	Double:  "double",
	Boolean: "boolean",
	Array:   "array",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Valid reports whether t is one of the declarable types.
func (t Type) Valid() bool {
	return t >= Integer && t <= Array
}

///////////////////////////////////////////////////////////////////////////////
// Value
///////////////////////////////////////////////////////////////////////////////

type valueState uint8

const (
	stateAbsent valueState = iota
	stateCoerced
	stateDefault
)

// Value is the result of a successful extraction. It is one of:
//   - absent: the field was not present, not required, and had no default
//   - default: the caller's Rules.Default, returned verbatim
//   - coerced: a value of the declared Type (int64, float64, string, bool,
//     or for Array the raw []any / []string / map[string]any)
//
// An absent Value is distinct from a coerced boolean false.
type Value struct {
	state valueState
	typ   Type
	v     any
}

// AbsentValue is the sentinel returned for absent, optional, default-less
// fields.
var AbsentValue = Value{}

func coercedValue(typ Type, v any) Value {
	return Value{state: stateCoerced, typ: typ, v: v}
}

func defaultValue(v any) Value {
	return Value{state: stateDefault, v: v}
}

// IsAbsent reports whether the field was absent with no default.
func (v Value) IsAbsent() bool { return v.state == stateAbsent }

// IsDefault reports whether the value is the caller supplied default.
func (v Value) IsDefault() bool { return v.state == stateDefault }

// IsSet reports whether the value was present in the source.
func (v Value) IsSet() bool { return v.state == stateCoerced }

// Type is the declared type the value was coerced to. It is Invalid for
// absent and default values, since defaults are never type checked.
func (v Value) Type() Type { return v.typ }

// Interface returns the underlying Go value: int64, float64, string, bool,
// the raw array, the verbatim default, or nil when absent.
func (v Value) Interface() any { return v.v }

// Int returns the value as an int64. Defaults are converted with cast.
func (v Value) Int() int64 {
	if i, ok := v.v.(int64); ok {
		return i
	}
	return cast.ToInt64(v.v)
}

// Float returns the value as a float64. Defaults are converted with cast.
func (v Value) Float() float64 {
	if f, ok := v.v.(float64); ok {
		return f
	}
	return cast.ToFloat64(v.v)
}

// String returns the value as a string. Absent values yield "".
func (v Value) String() string {
	if s, ok := v.v.(string); ok {
		return s
	}
	if v.v == nil {
		return ""
	}
	return cast.ToString(v.v)
}

// Bool returns the value as a bool. Absent values yield false; use IsAbsent
// to tell them apart from a real false.
func (v Value) Bool() bool {
	if b, ok := v.v.(bool); ok {
		return b
	}
	return cast.ToBool(v.v)
}

// Array returns the value as a slice of elements. Objects (map[string]any)
// are returned by Map instead.
func (v Value) Array() []any {
	switch a := v.v.(type) {
	case []any:
		return a
	case []string:
		out := make([]any, len(a))
		for i, s := range a {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// Map returns the value as a JSON object, if it is one.
func (v Value) Map() map[string]any {
	m, _ := v.v.(map[string]any)
	return m
}
