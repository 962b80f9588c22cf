package strictreq

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	ErrNotScalar       = errors.New("value is not a scalar")
	ErrNotIntegerToken = errors.New("value is not an integer literal")
	ErrNotNumeric      = errors.New("value is not numeric")
)

// trimCutset matches the characters stripped around request values.
const trimCutset = " \t\n\r\x00\x0B"

///////////////////////////////////////////////////////////////////////////////
// Scalar coercion
///////////////////////////////////////////////////////////////////////////////

// isCollection reports whether raw is a map, slice or array (other than
// []byte, which is treated as text).
func isCollection(raw any) bool {
	if _, ok := raw.([]byte); ok {
		return false
	}
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// trimScalar stringifies a scalar raw value and trims it.
func trimScalar(raw any) (string, error) {
	if isCollection(raw) {
		return "", fmt.Errorf("%w: got %T", ErrNotScalar, raw)
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotScalar, err)
	}
	return strings.Trim(s, trimCutset), nil
}

// normalizeBool accepts a literal true or the case-insensitive text "true".
// Everything else is false.
func normalizeBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	}
	return false
}

// isIntegerToken reports whether s is ASCII digits with at most one leading
// sign.
func isIntegerToken(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// coerceInteger parses an integer token. A token that does not fit in an
// int64 is reported as out of range.
func coerceInteger(s string) (int64, ErrorKind, error) {
	if !isIntegerToken(s) {
		return 0, InvalidType, fmt.Errorf("%w: %q", ErrNotIntegerToken, s)
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, OutOfRange, err
		}
		return 0, InvalidType, err
	}
	return i, 0, nil
}

// coerceDouble converts text to a float64. When strict is false anything
// that is not a finite number becomes 0.
func coerceDouble(s string, strict bool) (float64, error) {
	f, err := cast.ToFloat64E(s)
	if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, nil
	}
	if strict {
		if err == nil {
			err = fmt.Errorf("%w: %q is not finite", ErrNotNumeric, s)
		}
		return 0, err
	}
	return 0, nil
}

// matchesType is the post-coercion variant check.
func matchesType(typ Type, v any) bool {
	switch typ {
	case Integer:
		_, ok := v.(int64)
		return ok
	case Double:
		_, ok := v.(float64)
		return ok
	case String:
		_, ok := v.(string)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Array:
		switch v.(type) {
		case []any, []string, map[string]any:
			return true
		}
	}
	return false
}

///////////////////////////////////////////////////////////////////////////////
// Numeric detection (bulk filter)
///////////////////////////////////////////////////////////////////////////////

// numericText holds a loosely numeric string: optional surrounding
// whitespace, a sign, digits with an optional fraction, and an exponent.
func numericText(s string) (string, bool) {
	s = strings.Trim(s, " \t\n\r\v\f")
	if s == "" {
		return "", false
	}
	body := s
	if body[0] == '+' || body[0] == '-' {
		body = body[1:]
	}
	digits, dot, i := 0, false, 0
scan:
	for ; i < len(body); i++ {
		c := body[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			break scan
		}
	}
	if digits == 0 {
		return "", false
	}
	if i < len(body) {
		if body[i] != 'e' && body[i] != 'E' {
			return "", false
		}
		i++
		if i < len(body) && (body[i] == '+' || body[i] == '-') {
			i++
		}
		if i == len(body) {
			return "", false
		}
		for ; i < len(body); i++ {
			if body[i] < '0' || body[i] > '9' {
				return "", false
			}
		}
	}
	return s, true
}

// toNumber converts a numeric raw value. Integers keep full precision in
// the int64 result; isInt is false when the value is only representable as
// a float.
func toNumber(raw any) (i int64, f float64, isInt bool, err error) {
	switch n := raw.(type) {
	case int, int8, int16, int32, int64:
		i = reflect.ValueOf(n).Int()
		return i, float64(i), true, nil
	case uint, uint8, uint16, uint32, uint64, uintptr:
		u := reflect.ValueOf(n).Uint()
		if u > math.MaxInt64 {
			return 0, float64(u), false, nil
		}
		return int64(u), float64(u), true, nil
	case float32:
		return 0, float64(n), false, nil
	case float64:
		return 0, n, false, nil
	case string:
		s, ok := numericText(n)
		if !ok {
			return 0, 0, false, fmt.Errorf("%w: %q", ErrNotNumeric, n)
		}
		if iv, perr := strconv.ParseInt(s, 10, 64); perr == nil {
			return iv, float64(iv), true, nil
		}
		fv, perr := strconv.ParseFloat(s, 64)
		if perr != nil && !errors.Is(perr, strconv.ErrRange) {
			return 0, 0, false, fmt.Errorf("%w: %w", ErrNotNumeric, perr)
		}
		return 0, fv, false, nil
	default:
		if s, ok := raw.(fmt.Stringer); ok {
			return toNumber(s.String())
		}
		return 0, 0, false, fmt.Errorf("%w: got %T", ErrNotNumeric, raw)
	}
}
