package strictreq

import (
	"maps"
	"math"
	"slices"
	"strconv"
)

// FilterIntegers validates every entry of m and returns a new map whose
// values are converted to int64.
//
// Every value must be numeric (a Go number or numeric text such as "42",
// " -7 ", "1.5", "1e3") and lie within [min, max]; fractional values are
// truncated after the range check. With checkKeys every key must be numeric
// too; a key is truncated first and the converted key must lie within
// [min, max]. It is stored under its canonical decimal form, so " 07" becomes
// "7" and "10.5" becomes "10".
//
// Entries are visited in sorted key order. The first violation aborts the
// whole operation with an *Error naming the key (InvalidType or OutOfRange)
// and no partial result. m is never modified.
func FilterIntegers(m map[string]any, checkKeys bool, min, max int64) (map[string]int64, error) {
	out := make(map[string]int64, len(m))

	for _, key := range slices.Sorted(maps.Keys(m)) {
		outKey := key
		if checkKeys {
			k, err := filterKey(key, min, max)
			if err != nil {
				return nil, err
			}
			outKey = strconv.FormatInt(k, 10)
		}

		v, err := filterInteger(m[key], key, min, max)
		if err != nil {
			return nil, err
		}
		out[outKey] = v
	}

	return out, nil
}

// FilterAllIntegers is FilterIntegers over the full int64 range.
func FilterAllIntegers(m map[string]any, checkKeys bool) (map[string]int64, error) {
	return FilterIntegers(m, checkKeys, math.MinInt64, math.MaxInt64)
}

func filterKey(key string, min, max int64) (int64, error) {
	i, f, isInt, err := toNumber(key)
	if err != nil {
		return 0, wrapError(InvalidType, key, err)
	}

	if !isInt {
		t := math.Trunc(f)
		if math.IsNaN(t) || t < float64(min) || t > float64(max) {
			return 0, newError(OutOfRange, key)
		}
		i = math.MaxInt64
		if t < math.MaxInt64 {
			i = int64(t)
		}
	}
	if i < min || i > max {
		return 0, newError(OutOfRange, key)
	}
	return i, nil
}

func filterInteger(raw any, field string, min, max int64) (int64, error) {
	i, f, isInt, err := toNumber(raw)
	if err != nil {
		return 0, wrapError(InvalidType, field, err)
	}

	if isInt {
		if i < min || i > max {
			return 0, newError(OutOfRange, field)
		}
		return i, nil
	}

	if math.IsNaN(f) || f < float64(min) || f > float64(max) {
		return 0, newError(OutOfRange, field)
	}
	// float64(math.MaxInt64) rounds up past the int64 range.
	t := math.Trunc(f)
	if t >= math.MaxInt64 {
		return math.MaxInt64, nil
	}
	return int64(t), nil
}
