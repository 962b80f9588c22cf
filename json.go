package strictreq

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

var (
	ErrEmptyBody      = errors.New("empty body")
	ErrInvalidJSON    = errors.New("invalid JSON")
	ErrNotJSONObject  = errors.New("JSON body is not an object")
	ErrNotObjectValue = errors.New("value is not a JSON object")
)

// Document is a decoded JSON request body. Its top level is always an
// object.
type Document struct {
	root Source
	ex   *Extractor
}

// DecodeJSON validates raw and decodes it into a generic tree: objects
// become map[string]any and arrays []any. Integer literals become int64, or
// a json.Number holding the exact digits when they overflow int64; other
// numbers become float64.
//
// Empty input, invalid JSON and any top-level value other than an object
// are rejected.
func DecodeJSON(raw []byte) (*Document, error) {
	return _gExtractor.DecodeJSON(raw)
}

// DecodeJSON decodes raw like the package-level DecodeJSON; fields of the
// returned document are extracted with ex.
func (ex *Extractor) DecodeJSON(raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyBody
	}
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}

	result := gjson.ParseBytes(raw)
	if !result.IsObject() {
		return nil, fmt.Errorf("%w: got %s", ErrNotJSONObject, result.Type)
	}

	root, ok := treeValue(result).(map[string]any)
	if !ok {
		return nil, ErrNotJSONObject
	}
	return &Document{root: root, ex: ex}, nil
}

// treeValue converts r without routing integers through float64, which
// would round anything past 2^53.
func treeValue(r gjson.Result) any {
	switch {
	case r.IsObject():
		m := make(map[string]any)
		r.ForEach(func(k, v gjson.Result) bool {
			m[k.String()] = treeValue(v)
			return true
		})
		return m
	case r.IsArray():
		a := make([]any, 0)
		r.ForEach(func(_, v gjson.Result) bool {
			a = append(a, treeValue(v))
			return true
		})
		return a
	}

	switch r.Type {
	case gjson.Number:
		if !isIntegerToken(r.Raw) {
			return r.Num
		}
		if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return i
		}
		return json.Number(r.Raw)
	case gjson.String:
		return r.Str
	case gjson.True:
		return true
	case gjson.False:
		return false
	}
	return nil
}

// Source returns the top-level object of the document.
func (d *Document) Source() Source {
	return d.root
}

// Get extracts a top-level field of the document.
func (d *Document) Get(name string, typ Type, required bool, rules Rules) (Value, error) {
	return d.ex.Extract(d.root, name, typ, required, rules)
}

// GetObject extracts field name of the object stored under object, one
// level deep. The container is resolved first. A missing container is handled
// like a missing field (reported under the container name); a container
// that is not an object is an InvalidType for the container.
func (d *Document) GetObject(object, name string, typ Type, required bool, rules Rules) (Value, error) {
	ex := d.ex
	container, ok := d.root[object]
	if !ok || container == nil {
		v, err := absent(object, required, rules)
		if err != nil {
			ex.reject(err, typ)
		}
		return v, err
	}

	inner, ok := container.(map[string]any)
	if !ok {
		err := wrapError(InvalidType, object, fmt.Errorf("%w: got %T", ErrNotObjectValue, container))
		ex.reject(err, typ)
		return AbsentValue, err
	}

	return ex.Extract(inner, name, typ, required, rules)
}
