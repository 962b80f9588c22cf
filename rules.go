package strictreq

import (
	"fmt"
	"strconv"
)

// Format is an optional textual format a String parameter must satisfy.
type Format uint8

const (
	FormatNone Format = iota
	FormatUUID
)

// ParseFormat maps a format name (as used in struct tags) to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "none":
		return FormatNone, nil
	case "uuid":
		return FormatUUID, nil
	default:
		return FormatNone, fmt.Errorf("unknown format %q", name)
	}
}

// Rules is the optional constraint set for a single field.
//
//   - Default is returned verbatim when the field is absent and not required.
//     A nil Default means no default.
//   - Min and Max bound Integer and Double values.
//   - Length is the maximum rune count of a String. Zero or less means no
//     limit.
//   - Format is checked on String values after every other rule.
type Rules struct {
	Default any
	Min     Limit
	Max     Limit
	Length  int
	Format  Format
}

// Limit is a numeric bound that keeps integer precision when it is built
// from an integer. The zero Limit is unset.
type Limit struct {
	set     bool
	isFloat bool
	i       int64
	f       float64
}

// IntLimit returns an integer bound.
func IntLimit(i int64) Limit {
	return Limit{set: true, i: i, f: float64(i)}
}

// FloatLimit returns a floating point bound.
func FloatLimit(f float64) Limit {
	return Limit{set: true, isFloat: true, f: f}
}

// ParseLimit parses a bound from text, preferring an integer bound.
func ParseLimit(s string) (Limit, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntLimit(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Limit{}, fmt.Errorf("invalid numeric limit %q: %w", s, err)
	}
	return FloatLimit(f), nil
}

// IsSet reports whether the bound was configured.
func (l Limit) IsSet() bool { return l.set }

func (l Limit) String() string {
	switch {
	case !l.set:
		return "unset"
	case l.isFloat:
		return strconv.FormatFloat(l.f, 'g', -1, 64)
	default:
		return strconv.FormatInt(l.i, 10)
	}
}

// cmpInt compares v against the bound: -1 if v is below it, 1 if above.
func (l Limit) cmpInt(v int64) int {
	if l.isFloat {
		return l.cmpFloat(float64(v))
	}
	switch {
	case v < l.i:
		return -1
	case v > l.i:
		return 1
	}
	return 0
}

func (l Limit) cmpFloat(v float64) int {
	switch {
	case v < l.f:
		return -1
	case v > l.f:
		return 1
	}
	return 0
}

// inRange reports whether a coerced numeric value satisfies min and max.
func (r Rules) inRange(v any) bool {
	switch n := v.(type) {
	case int64:
		if r.Min.set && r.Min.cmpInt(n) < 0 {
			return false
		}
		if r.Max.set && r.Max.cmpInt(n) > 0 {
			return false
		}
	case float64:
		if r.Min.set && r.Min.cmpFloat(n) < 0 {
			return false
		}
		if r.Max.set && r.Max.cmpFloat(n) > 0 {
			return false
		}
	}
	return true
}
