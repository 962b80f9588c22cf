package strictreq

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

var ErrUnsupportedField = errors.New("unsupported field type")

///////////////////////////////////////////////////////////////////////////////
// Field type mapping
///////////////////////////////////////////////////////////////////////////////

// declaredType maps a struct field type to the Type it is extracted as and
// the format it implies.
//
// Currently supports:
//   - int, int8..int64, uint, uint8..uint64 -> Integer
//   - float32, float64 -> Double
//   - string -> String
//   - bool -> Boolean
//   - []string, []any, map[string]any -> Array
//   - uuid.UUID -> String with FormatUUID
func declaredType(t reflect.Type) (Type, Format, error) {
	if t == UUIDType {
		return String, FormatUUID, nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer, FormatNone, nil
	case reflect.Float32, reflect.Float64:
		return Double, FormatNone, nil
	case reflect.String:
		return String, FormatNone, nil
	case reflect.Bool:
		return Boolean, FormatNone, nil
	}

	switch t {
	case StringSliceType, AnySliceType, SourceMapType:
		return Array, FormatNone, nil
	}

	return Invalid, FormatNone, fmt.Errorf("%w: %s", ErrUnsupportedField, t)
}

///////////////////////////////////////////////////////////////////////////////
// Assigning extracted values
///////////////////////////////////////////////////////////////////////////////

// assignValue stores an extracted value into field. A number that does not
// fit the field's Go type is OutOfRange for name.
func assignValue(field reflect.Value, v Value, name string) error {
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if field.OverflowInt(i) {
			return newError(OutOfRange, name)
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i := v.Int()
		if i < 0 || field.OverflowUint(uint64(i)) {
			return newError(OutOfRange, name)
		}
		field.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if field.OverflowFloat(f) {
			return newError(OutOfRange, name)
		}
		field.SetFloat(f)
	case reflect.String:
		field.SetString(v.String())
	case reflect.Bool:
		field.SetBool(v.Bool())
	case reflect.Slice:
		return assignSlice(field, v, name)
	case reflect.Map:
		m := v.Map()
		if m == nil {
			return wrapError(InvalidType, name, fmt.Errorf("expected object, got %T", v.Interface()))
		}
		field.Set(reflect.ValueOf(m))
	case reflect.Array:
		if field.Type() != UUIDType {
			return fmt.Errorf("%w: %s", ErrUnsupportedField, field.Type())
		}
		id, err := uuid.Parse(v.String())
		if err != nil {
			return wrapError(InvalidType, name, err)
		}
		field.Set(reflect.ValueOf(id))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedField, field.Type())
	}
	return nil
}

func assignSlice(field reflect.Value, v Value, name string) error {
	elems := v.Array()
	if elems == nil {
		return wrapError(InvalidType, name, fmt.Errorf("expected list, got %T", v.Interface()))
	}

	switch field.Type() {
	case AnySliceType:
		field.Set(reflect.ValueOf(elems))
	case StringSliceType:
		out := make([]string, len(elems))
		for i, e := range elems {
			s, err := trimScalar(e)
			if err != nil {
				return wrapError(InvalidType, name, err)
			}
			out[i] = s
		}
		field.Set(reflect.ValueOf(out))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedField, field.Type())
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Tag defaults
///////////////////////////////////////////////////////////////////////////////

// setFieldValue sets field from the text of a tag default.
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setIntValue(field, value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return setUintValue(field, value)
	case reflect.Float32, reflect.Float64:
		return setFloatValue(field, value)
	case reflect.Bool:
		return setBoolValue(field, value)
	case reflect.Slice:
		return setSliceValue(field, value)
	case reflect.Array:
		return setArrayValue(field, value)
	default:
		return fmt.Errorf("%w: default for %s", ErrUnsupportedField, field.Type())
	}
}

// setIntValue sets integer field values with overflow checking
func setIntValue(field reflect.Value, value string) error {
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("error converting value to int: %w", err)
	}
	if field.OverflowInt(intValue) {
		return fmt.Errorf("value %d overflows %s", intValue, field.Type().Name())
	}
	field.SetInt(intValue)
	return nil
}

// setUintValue sets unsigned integer field values with overflow checking
func setUintValue(field reflect.Value, value string) error {
	uintValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("error converting value to uint: %w", err)
	}
	if field.OverflowUint(uintValue) {
		return fmt.Errorf("value %d overflows %s", uintValue, field.Type().Name())
	}
	field.SetUint(uintValue)
	return nil
}

// setFloatValue sets float field values with overflow checking
func setFloatValue(field reflect.Value, value string) error {
	floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
	if err != nil {
		return fmt.Errorf("error converting value to float: %w", err)
	}
	if field.OverflowFloat(floatValue) {
		return fmt.Errorf("value %f overflows %s", floatValue, field.Type().Name())
	}
	field.SetFloat(floatValue)
	return nil
}

// setBoolValue sets boolean field values.
//
// Many common boolean representations are supported:
//   - "true", "1", "yes", "on" (case insensitive)
//   - "false", "0", "no", "off" (case insensitive)
func setBoolValue(field reflect.Value, value string) error {
	switch strings.ToLower(value) {
	case "yes", "on":
		field.SetBool(true)
		return nil
	case "no", "off":
		field.SetBool(false)
		return nil
	}
	boolValue, err := cast.ToBoolE(value)
	if err != nil {
		return fmt.Errorf("error converting value to bool: %w", err)
	}
	field.SetBool(boolValue)
	return nil
}

// setSliceValue sets []string and []any defaults from comma separated text.
func setSliceValue(field reflect.Value, value string) error {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch field.Type() {
	case StringSliceType:
		field.Set(reflect.ValueOf(parts))
	case AnySliceType:
		elems := make([]any, len(parts))
		for i, p := range parts {
			elems[i] = p
		}
		field.Set(reflect.ValueOf(elems))
	default:
		return fmt.Errorf("%w: default for %s", ErrUnsupportedField, field.Type())
	}
	return nil
}

// setArrayValue sets array field values
func setArrayValue(field reflect.Value, value string) error {
	if field.Type() == UUIDType {
		uuidValue, err := uuid.Parse(value)
		if err != nil {
			return fmt.Errorf("error converting value to UUID: %w", err)
		}
		field.Set(reflect.ValueOf(uuidValue))
		return nil
	}

	return fmt.Errorf("unsupported array type: %s", field.Type().Name())
}

// zeroStructFields sets all settable fields of a struct to their zero
// values.
func zeroStructFields(value reflect.Value) {
	if value.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if field.CanSet() {
			field.Set(reflect.Zero(field.Type()))
		}
	}
}
