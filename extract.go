package strictreq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Source is a read-only key/value pool a parameter is extracted from: query
// parameters, form fields, or a decoded JSON object.
type Source map[string]any

// Options configures an Extractor.
type Options struct {
	// StrictDoubles rejects Double parameters that are not numeric with
	// InvalidType. By default they silently coerce to 0.
	StrictDoubles bool
	// MaxBodyBytes caps how much of an HTTP body NewHTTPRequest reads.
	// Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Logger receives a debug record for every rejected parameter.
	// Nil means discard.
	Logger *slog.Logger
}

// Extractor performs lookup, trimming, coercion, type verification and rule
// checks on a single field of a Source. It holds no per-request state and is
// safe for concurrent use.
type Extractor struct {
	opts   Options
	logger *slog.Logger
}

// NewExtractor returns an Extractor configured by opts.
func NewExtractor(opts Options) *Extractor {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{opts: opts, logger: logger}
}

// Options returns the effective options of the extractor.
func (ex *Extractor) Options() Options {
	return ex.opts
}

// Extract looks up name in src and returns it coerced to typ and checked
// against rules. The checks run in a fixed order and the first violation is
// returned as an *Error:
//
//  1. presence (MissingParameter, or the default / AbsentValue)
//  2. trimming of non-array values
//  3. boolean normalization
//  4. integer coercion (InvalidType)
//  5. double coercion (lenient unless Options.StrictDoubles)
//  6. type verification (InvalidType)
//  7. string length (TooLong)
//  8. NUL stripping
//  9. numeric range (OutOfRange)
//  10. format (InvalidType)
//
// Presence is decided on the untrimmed value: a required field holding only
// whitespace is present, so a String comes back as "" and an Integer fails
// with InvalidType. src is never modified.
func (ex *Extractor) Extract(src Source, name string, typ Type, required bool, rules Rules) (Value, error) {
	v, err := ex.extract(src, name, typ, required, rules)
	if err != nil {
		ex.reject(err, typ)
		return AbsentValue, err
	}
	return v, nil
}

// absent resolves a field that is not present in its source.
func absent(name string, required bool, rules Rules) (Value, error) {
	if required {
		return AbsentValue, newError(MissingParameter, name)
	}
	if rules.Default != nil {
		return defaultValue(rules.Default), nil
	}
	return AbsentValue, nil
}

func (ex *Extractor) extract(src Source, name string, typ Type, required bool, rules Rules) (Value, error) {
	if !typ.Valid() {
		return AbsentValue, wrapError(InvalidType, name, fmt.Errorf("undeclarable type %s", typ))
	}

	raw, ok := src[name]
	if !ok || raw == nil {
		return absent(name, required, rules)
	}
	if s, isStr := raw.(string); isStr && required && s == "" {
		return AbsentValue, newError(MissingParameter, name)
	}

	var v any = raw
	if typ != Array {
		if _, isBool := raw.(bool); !(isBool && typ == Boolean) {
			s, err := trimScalar(raw)
			if err != nil {
				return AbsentValue, wrapError(InvalidType, name, err)
			}
			v = s
		}
	}

	if typ == Boolean {
		v = normalizeBool(v)
	}

	if typ == Integer {
		i, kind, err := coerceInteger(v.(string))
		if err != nil {
			return AbsentValue, wrapError(kind, name, err)
		}
		v = i
	}

	if typ == Double {
		f, err := coerceDouble(v.(string), ex.opts.StrictDoubles)
		if err != nil {
			return AbsentValue, wrapError(InvalidType, name, err)
		}
		v = f
	}

	if !matchesType(typ, v) {
		return AbsentValue, wrapError(InvalidType, name, fmt.Errorf("expected %s, got %T", typ, v))
	}

	if typ == String {
		s := v.(string)
		if rules.Length > 0 && utf8.RuneCountInString(s) > rules.Length {
			return AbsentValue, newError(TooLong, name)
		}
		v = strings.ReplaceAll(s, "\x00", "")
	}

	if (typ == Integer || typ == Double) && !rules.inRange(v) {
		return AbsentValue, newError(OutOfRange, name)
	}

	if typ == String && rules.Format == FormatUUID {
		if _, err := uuid.Parse(v.(string)); err != nil {
			return AbsentValue, wrapError(InvalidType, name, err)
		}
	}

	return coercedValue(typ, v), nil
}

func (ex *Extractor) reject(err error, typ Type) {
	if !ex.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	kind, _ := KindOf(err)
	field, _ := FieldOf(err)
	ex.logger.Debug("parameter rejected",
		slog.String("field", field),
		slog.String("kind", kind.String()),
		slog.String("type", typ.String()),
		slog.Any("error", err),
	)
}

///////////////////////////////////////////////////////////////////////////////
// Global default Extractor and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _gExtractor = NewExtractor(Options{})

// DefaultExtractor returns the extractor used by the package-level functions.
func DefaultExtractor() *Extractor {
	return _gExtractor
}

// Extract extracts a field with the default extractor.
func Extract(src Source, name string, typ Type, required bool, rules Rules) (Value, error) {
	return _gExtractor.Extract(src, name, typ, required, rules)
}
