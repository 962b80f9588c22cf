package strictreq

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Base Error types for tag parsing errors
var (
	ErrNoParseTagInField        = errors.New("no parse tag found in field")
	ErrUnallowedBindingName     = errors.New("binding name is not allowed")
	ErrEmptyBindingIdentifier   = errors.New("binding identifier cannot be empty")
	ErrInvalidBindingTagFormat  = errors.New("invalid binding tag format")
	ErrUnallowedBindingModifier = errors.New("binding modifier is not allowed")
	ErrDuplicateSubTag          = errors.New("subtag given more than once")
	ErrInvalidRuleSubTag        = errors.New("invalid rule subtag")
	ErrSubTagNotFound           = errors.New("subtag not found")
	ErrUnterminatedSubTag       = errors.New("unterminated subtag value")
)

// This file contains the tag parser for the binder. A field opts into
// binding with a `parse` tag:
//
// Tag grammar:
//     parse:"<subtag_list>"
//
// subtag_list:
//     [<subtag>]^* // Space Separated, order matters for bindings
// subtag:
//     <key>:'<value>' | <key>:<value_without_spaces>
//
// Binding subtags (tried in order):
//     query:'<name>[,<modifier>]*'
//     form:'<name>[,<modifier>]*'
//     json:'<name>[,<modifier>]*' | json:'<object>.<name>[,<modifier>]*'
// modifier:
//     required | omitempty
//
// Rule subtags (at most once each):
//     default:'<value>' min:'<number>' max:'<number>' length:'<int>' format:'uuid'
//
// Example: Page int64 `parse:"query:'page' json:'paging.page' default:'1' min:'1'"`

// ParseTag corresponds to the `parse` tag in the struct field tags.
type ParseTag struct {
	DefaultTag  DefaultTag
	BindingTags []BindingTag
	Rules       Rules
}

// DefaultTag corresponds to the `default` subtag in the `parse` tag.
// Example: default:'5'
type DefaultTag struct {
	Value string
	Set   bool
}

// BindingTag corresponds to a binding subtag in the `parse` tag.
// Example: form:'foo,required'
type BindingTag struct {
	Name       string
	Identifier string
	Modifiers  []string
}

// SubTag is one key:value pair of a parse tag, in tag order.
type SubTag struct {
	Key   string
	Value string
}

var allowedBindingNames = []string{QueryTagBinding, FormTagBinding, JSONTagBinding}

// DecodeParseTag decodes the contents of a `parse` tag.
func DecodeParseTag(tag string) (ParseTag, error) {
	subtags, err := SubTags(tag)
	if err != nil {
		return ParseTag{}, err
	}

	var (
		ptag ParseTag
		seen = make(map[string]bool, len(subtags))
	)

	for _, st := range subtags {
		if seen[st.Key] && !slices.Contains(allowedBindingNames, st.Key) {
			return ParseTag{}, fmt.Errorf("%w: %s", ErrDuplicateSubTag, st.Key)
		}
		seen[st.Key] = true

		switch st.Key {
		case DefaultValueSubTagPrefix:
			ptag.DefaultTag = DefaultTag{Value: st.Value, Set: true}
		case MinSubTagPrefix:
			if ptag.Rules.Min, err = ParseLimit(st.Value); err != nil {
				return ParseTag{}, fmt.Errorf("%w %s: %w", ErrInvalidRuleSubTag, st.Key, err)
			}
		case MaxSubTagPrefix:
			if ptag.Rules.Max, err = ParseLimit(st.Value); err != nil {
				return ParseTag{}, fmt.Errorf("%w %s: %w", ErrInvalidRuleSubTag, st.Key, err)
			}
		case LengthSubTagPrefix:
			n, err := strconv.Atoi(st.Value)
			if err != nil || n <= 0 {
				return ParseTag{}, fmt.Errorf("%w %s: %q", ErrInvalidRuleSubTag, st.Key, st.Value)
			}
			ptag.Rules.Length = n
		case FormatSubTagPrefix:
			if ptag.Rules.Format, err = ParseFormat(st.Value); err != nil {
				return ParseTag{}, fmt.Errorf("%w %s: %w", ErrInvalidRuleSubTag, st.Key, err)
			}
		default:
			bt, err := decodeBindingTag(st)
			if err != nil {
				return ParseTag{}, err
			}
			ptag.BindingTags = append(ptag.BindingTags, bt)
		}
	}

	return ptag, nil
}

func decodeBindingTag(st SubTag) (BindingTag, error) {
	if !slices.Contains(allowedBindingNames, st.Key) {
		return BindingTag{}, fmt.Errorf("%w: %s", ErrUnallowedBindingName, st.Key)
	}

	// Example: "foo,required" -> "foo" as identifier, "required" as modifier
	info := strings.Split(st.Value, ",")
	identifier := strings.TrimSpace(info[0])
	if identifier == "" {
		return BindingTag{}, fmt.Errorf("%w in tag: %s:'%s'", ErrEmptyBindingIdentifier, st.Key, st.Value)
	}

	modifiers := make([]string, 0, len(info)-1)
	for _, m := range info[1:] {
		m = strings.TrimSpace(m)
		switch m {
		case "":
			continue
		case RequiredBindingModifier, OmitEmptyBindingModifier:
			modifiers = append(modifiers, m)
		default:
			return BindingTag{}, fmt.Errorf("%w: %s", ErrUnallowedBindingModifier, m)
		}
	}

	return BindingTag{
		Name:       st.Key,
		Identifier: identifier,
		Modifiers:  modifiers,
	}, nil
}

func makeBindings(ptag ParseTag) ([]Binding, error) {
	bindings := make([]Binding, 0, len(ptag.BindingTags))
	for _, bt := range ptag.BindingTags {
		binding, err := bt.toBinding()
		if err != nil {
			return nil, fmt.Errorf("error creating field binding from tag %s: %w", bt.Name, err)
		}
		bindings = append(bindings, binding)
	}
	return bindings, nil
}

func (t BindingTag) toBinding() (Binding, error) {
	binding := Binding{
		Name:       t.Name,
		Identifier: t.Identifier,
	}

	if t.Name == JSONTagBinding {
		if object, name, nested := strings.Cut(t.Identifier, JSONObjectDelimiter); nested {
			if object == "" || name == "" || strings.Contains(name, JSONObjectDelimiter) {
				return Binding{}, fmt.Errorf("%w: %q", ErrInvalidBindingTagFormat, t.Identifier)
			}
			binding.Object, binding.Identifier = object, name
		}
	}

	for _, modifier := range t.Modifiers {
		switch modifier {
		case RequiredBindingModifier:
			binding.Modifiers.Required = true
		case OmitEmptyBindingModifier:
			binding.Modifiers.OmitEmpty = true
		}
	}
	return binding, nil
}

// SubTags splits a parse tag into its key:value pairs, keeping tag order.
// Values may be wrapped in single quotes, inside which spaces are kept and
// \' escapes a quote.
func SubTags(tag string) ([]SubTag, error) {
	return SubTagsByDelimiter(tag, DefaultSubTagScopeDelimiter)
}

// SubTagsByDelimiter is SubTags with a custom quote delimiter.
func SubTagsByDelimiter(tag string, delim byte) ([]SubTag, error) {
	var result []SubTag

	i := 0
	for i < len(tag) {
		// Skip whitespace
		for i < len(tag) && (tag[i] == ' ' || tag[i] == '\t') {
			i++
		}
		if i >= len(tag) {
			break
		}

		colonIdx := strings.Index(tag[i:], DefaultKeyValueTagDelimiter)
		if colonIdx == -1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBindingTagFormat, tag[i:])
		}
		colonIdx += i

		key := strings.TrimSpace(tag[i:colonIdx])
		if key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBindingTagFormat, tag[i:colonIdx])
		}

		value, next, err := scanSubTagValue(tag, colonIdx+1, delim)
		if err != nil {
			return nil, fmt.Errorf("%w for %q", err, key)
		}

		result = append(result, SubTag{Key: key, Value: value})
		i = next
	}

	return result, nil
}

// scanSubTagValue reads the value starting at start and returns it along
// with the index just past it.
func scanSubTagValue(tag string, start int, delim byte) (string, int, error) {
	if start >= len(tag) || tag[start] != delim {
		// Simple value: runs to the next space or end of string
		end := start
		for end < len(tag) && tag[end] != ' ' && tag[end] != '\t' {
			end++
		}
		return tag[start:end], end, nil
	}

	var builder strings.Builder
	for i := start + 1; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c == '\\' && i+1 < len(tag) && tag[i+1] == delim:
			builder.WriteByte(delim)
			i++
		case c == delim:
			return builder.String(), i + 1, nil
		default:
			builder.WriteByte(c)
		}
	}
	return "", len(tag), ErrUnterminatedSubTag
}

// SubTagValue returns the value of the first subtag named key.
func SubTagValue(tag string, key string) (string, error) {
	subtags, err := SubTags(tag)
	if err != nil {
		return "", err
	}
	for _, st := range subtags {
		if st.Key == key {
			return st.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSubTagNotFound, key)
}
