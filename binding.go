package strictreq

import (
	"errors"
)

// Binding represents a complete view of a single possible value
// binding for a field. Multiple Bindings may be defined per field; they are
// tried in the order they appear in the tag.
type Binding struct {
	Name       string           // The source: query, form or json
	Identifier string           // The key of the field in the source
	Object     string           // For json bindings, the containing object ("" for top level)
	Modifiers  BindingModifiers // Additional modifiers for the binding
}

// BindingModifiers represents additional modifiers for a binding.
type BindingModifiers struct {
	Required  bool // The field must be found by some binding
	OmitEmpty bool // An empty string counts as not found, so the next binding is tried
}

// Field is the name reported in errors for this binding.
func (b Binding) Field() string {
	return b.Identifier
}

// lookup resolves the source map holding the binding's key. It returns
// found=false when the key (or, for nested json bindings, its container) is
// not there. missing is the name to report if the field ends up missing.
func (b Binding) lookup(req *Request) (src Source, found bool, missing string, err error) {
	missing = b.Identifier

	switch b.Name {
	case QueryTagBinding:
		src = req.query
	case FormTagBinding:
		src = req.form
	case JSONTagBinding:
		doc, derr := req.JSON()
		if derr != nil {
			var e *Error
			// An empty body binds like an empty document.
			if errors.Is(derr, ErrEmptyBody) {
				return nil, false, missing, nil
			}
			if errors.As(derr, &e) {
				return nil, false, missing, wrapError(MalformedBody, b.Identifier, e.Cause)
			}
			return nil, false, missing, derr
		}
		src = doc.Source()
		if b.Object != "" {
			container, ok := src[b.Object]
			if !ok || container == nil {
				return nil, false, b.Object, nil
			}
			inner, ok := container.(map[string]any)
			if !ok {
				return nil, false, missing, wrapError(InvalidType, b.Object, ErrNotObjectValue)
			}
			src = inner
		}
	default:
		return nil, false, missing, ErrUnallowedBindingName
	}

	raw, ok := src[b.Identifier]
	if !ok || raw == nil {
		return src, false, missing, nil
	}
	if s, isStr := raw.(string); isStr && s == "" && b.Modifiers.OmitEmpty {
		return src, false, missing, nil
	}
	return src, true, missing, nil
}
