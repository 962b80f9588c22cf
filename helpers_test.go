package strictreq

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a reflect.Value from any type
func valueFromInterface(v any) reflect.Value {
	return reflect.ValueOf(v).Elem()
}

func ptr[T any](v T) *T {
	return &v
}

func TestDeclaredType(t *testing.T) {
	type role string

	tests := []struct {
		name   string
		typ    reflect.Type
		want   Type
		format Format
		ok     bool
	}{
		{"int", reflect.TypeOf(int(0)), Integer, FormatNone, true},
		{"int8", reflect.TypeOf(int8(0)), Integer, FormatNone, true},
		{"uint64", reflect.TypeOf(uint64(0)), Integer, FormatNone, true},
		{"float32", reflect.TypeOf(float32(0)), Double, FormatNone, true},
		{"string", reflect.TypeOf(""), String, FormatNone, true},
		{"named string", reflect.TypeOf(role("")), String, FormatNone, true},
		{"bool", reflect.TypeOf(false), Boolean, FormatNone, true},
		{"string slice", StringSliceType, Array, FormatNone, true},
		{"any slice", AnySliceType, Array, FormatNone, true},
		{"object", SourceMapType, Array, FormatNone, true},
		{"uuid", UUIDType, String, FormatUUID, true},
		{"int slice", reflect.TypeOf([]int{}), Invalid, FormatNone, false},
		{"struct", reflect.TypeOf(struct{}{}), Invalid, FormatNone, false},
		{"pointer", reflect.TypeOf(ptr(1)), Invalid, FormatNone, false},
		{"complex", reflect.TypeOf(complex64(0)), Invalid, FormatNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, format, err := declaredType(tt.typ)
			if tt.ok != (err == nil) {
				t.Fatalf("declaredType(%s) error = %v, want ok %v", tt.typ, err, tt.ok)
			}
			if !tt.ok {
				assert.ErrorIs(t, err, ErrUnsupportedField)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.format, format)
		})
	}
}

func TestAssignValue(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name  string
		field any
		value Value
		want  any
		kind  ErrorKind
	}{
		{"int", ptr(int(0)), coercedValue(Integer, int64(42)), int(42), 0},
		{"int8 overflow", ptr(int8(0)), coercedValue(Integer, int64(128)), int8(0), OutOfRange},
		{"int16 underflow", ptr(int16(0)), coercedValue(Integer, int64(math.MinInt16 - 1)), int16(0), OutOfRange},
		{"uint", ptr(uint32(0)), coercedValue(Integer, int64(7)), uint32(7), 0},
		{"uint negative", ptr(uint(0)), coercedValue(Integer, int64(-1)), uint(0), OutOfRange},
		{"uint8 overflow", ptr(uint8(0)), coercedValue(Integer, int64(256)), uint8(0), OutOfRange},
		{"float64", ptr(float64(0)), coercedValue(Double, 2.5), 2.5, 0},
		{"float32 overflow", ptr(float32(0)), coercedValue(Double, 1e40), float32(0), OutOfRange},
		{"string", ptr(""), coercedValue(String, "hi"), "hi", 0},
		{"bool", ptr(false), coercedValue(Boolean, true), true, 0},
		{"any slice", ptr([]any(nil)), coercedValue(Array, []any{"a", 1.0}), []any{"a", 1.0}, 0},
		{"string slice", ptr([]string(nil)), coercedValue(Array, []any{" a ", 2.0}), []string{"a", "2"}, 0},
		{"string slice of objects", ptr([]string(nil)), coercedValue(Array, []any{map[string]any{}}), []string(nil), InvalidType},
		{"slice from object", ptr([]any(nil)), coercedValue(Array, map[string]any{"k": 1}), []any(nil), InvalidType},
		{"object", ptr(map[string]any(nil)), coercedValue(Array, map[string]any{"k": 1}), map[string]any{"k": 1}, 0},
		{"object from list", ptr(map[string]any(nil)), coercedValue(Array, []any{}), map[string]any(nil), InvalidType},
		{"uuid", ptr(uuid.UUID{}), coercedValue(String, id.String()), id, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := valueFromInterface(tt.field)
			err := assignValue(field, tt.value, "f")

			if tt.kind != 0 {
				requireKind(t, err, tt.kind, "f")
				return
			}
			require.NoError(t, err)
			if got := field.Interface(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("assignValue() got = %#v, want %#v", got, tt.want)
			}
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		err := assignValue(valueFromInterface(ptr(complex64(0))), coercedValue(Double, 1.0), "f")
		assert.True(t, errors.Is(err, ErrUnsupportedField))
	})
}

// Test for setFieldValue main function
func TestSetFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		value   string
		want    any
		wantErr bool
	}{
		// String tests
		{"string_basic", ptr(""), "hello", "hello", false},
		{"string_empty", ptr(""), "", "", false},

		// Integer tests
		{"int_basic", ptr(int(0)), "42", int(42), false},
		{"int8_basic", ptr(int8(0)), "127", int8(127), false},
		{"int16_basic", ptr(int16(0)), "32767", int16(32767), false},
		{"int32_basic", ptr(int32(0)), "2147483647", int32(2147483647), false},
		{"int64_basic", ptr(int64(0)), "9223372036854775807", int64(9223372036854775807), false},
		{"int_overflow", ptr(int8(0)), "128", int8(0), true},
		{"int_invalid", ptr(int(0)), "abc", int(0), true},

		// Unsigned integer tests
		{"uint_basic", ptr(uint(0)), "42", uint(42), false},
		{"uint8_basic", ptr(uint8(0)), "255", uint8(255), false},
		{"uint64_basic", ptr(uint64(0)), "18446744073709551615", uint64(18446744073709551615), false},
		{"uint_overflow", ptr(uint8(0)), "256", uint8(0), true},
		{"uint_negative", ptr(uint(0)), "-1", uint(0), true},

		// Float tests
		{"float32_basic", ptr(float32(0)), "3.14", float32(3.14), false},
		{"float64_basic", ptr(float64(0)), "3.14159265359", float64(3.14159265359), false},
		{"float_overflow", ptr(float32(0)), "3.4028235e+39", float32(0), true},
		{"float_invalid", ptr(float64(0)), "abc", float64(0), true},

		// Boolean tests
		{"bool_true", ptr(false), "true", true, false},
		{"bool_false", ptr(true), "false", false, false},
		{"bool_yes", ptr(false), "yes", true, false},
		{"bool_no", ptr(true), "no", false, false},
		{"bool_on", ptr(false), "ON", true, false},
		{"bool_off", ptr(true), "off", false, false},
		{"bool_1", ptr(false), "1", true, false},
		{"bool_0", ptr(true), "0", false, false},
		{"bool_case_insensitive", ptr(false), "TRUE", true, false},
		{"bool_invalid", ptr(false), "maybe", false, true},

		// Slice tests
		{"slice_strings", ptr([]string(nil)), "a, b ,c", []string{"a", "b", "c"}, false},
		{"slice_any", ptr([]any(nil)), "x,y", []any{"x", "y"}, false},
		{"slice_bytes", ptr([]byte{}), "hello", []byte{}, true},

		// UUID tests
		{"uuid_valid", ptr(uuid.UUID{}), "550e8400-e29b-41d4-a716-446655440000", uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"), false},
		{"uuid_invalid", ptr(uuid.UUID{}), "invalid-uuid", uuid.UUID{}, true},
		{"array_other", ptr([4]byte{}), "abcd", [4]byte{}, true},

		// Unsupported
		{"map", ptr(map[string]any(nil)), "{}", map[string]any(nil), true},
		{"complex", ptr(complex64(0)), "1+2i", complex64(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := valueFromInterface(tt.field)
			err := setFieldValue(field, tt.value)

			if (err != nil) != tt.wantErr {
				t.Errorf("setFieldValue() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				got := field.Interface()
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("setFieldValue() got = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestZeroStructFields(t *testing.T) {
	type Inner struct {
		Value string
	}
	type TestStruct struct {
		Name   string
		Count  int
		Tags   []string
		Inner  Inner
		hidden string
	}

	s := TestStruct{
		Name:   "x",
		Count:  3,
		Tags:   []string{"a"},
		Inner:  Inner{Value: "v"},
		hidden: "kept",
	}
	zeroStructFields(reflect.ValueOf(&s).Elem())

	assert.Equal(t, TestStruct{hidden: "kept"}, s)
}

func TestZeroStructFields_NonStruct(t *testing.T) {
	n := 5
	zeroStructFields(reflect.ValueOf(&n).Elem())
	assert.Equal(t, 5, n)
}
