package strictreq

import (
	"reflect"

	"github.com/google/uuid"
)

// constants for subtag prefixes in parse tag
const (
	ParseTagPrefix              = "parse"
	DefaultValueSubTagPrefix    = "default"
	MinSubTagPrefix             = "min"
	MaxSubTagPrefix             = "max"
	LengthSubTagPrefix          = "length"
	FormatSubTagPrefix          = "format"
	DefaultSubTagScopeDelimiter = byte('\'')
	DefaultKeyValueTagDelimiter = ":"
)

// constants for builtin source bindings in parse tag
const (
	QueryTagBinding = "query"
	FormTagBinding  = "form"
	JSONTagBinding  = "json"
)

// constants for builtin source binding modifiers
const (
	RequiredBindingModifier  = "required"
	OmitEmptyBindingModifier = "omitempty"
)

// JSONObjectDelimiter separates the object name from the field name in a
// json binding identifier, e.g. json:'user.name'.
const JSONObjectDelimiter = "."

// ArrayKeySuffix marks a query or form key whose values are collected into
// an array, e.g. ?ids[]=1&ids[]=2.
const ArrayKeySuffix = "[]"

// Mime Type constants for content types and encodings.
const (
	ContentEncodingUTF8        string = "UTF-8"
	ContentTypeApplicationJSON string = "application/json"
	ContentTypeDelimiter              = ";"
)

// HeaderXRequestedWith is the header set by browser XHR libraries.
const (
	HeaderXRequestedWith = "X-Requested-With"
	XMLHTTPRequestValue  = "xmlhttprequest"
)

// DefaultMaxBodyBytes caps how much of a request body is read.
const DefaultMaxBodyBytes int64 = 1 << 20

// reflect.TypeOf constants for type checks
var (
	UUIDType        = reflect.TypeOf(uuid.UUID{})
	StringSliceType = reflect.TypeOf([]string{})
	AnySliceType    = reflect.TypeOf([]any{})
	SourceMapType   = reflect.TypeOf(map[string]any{})
)
