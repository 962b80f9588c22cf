package strictreq

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNoStepBindings is returned when a parse tag has no bindings. The
	// field cannot be populated from any source.
	ErrNoStepBindings        = errors.New("no bindings found for field")
	ErrFailedToParseTag      = errors.New("failed to parse tag for field")
	ErrInvalidDefault        = errors.New("invalid default value for field")
	ErrInvalidBindDest       = errors.New("destination must be a non-nil pointer to a struct")
	ErrNilParseChainRequest  = errors.New("nil request")
	ErrFailedToBuildChain    = errors.New("failed to build parse chain for type")
	ErrRulesNotApplicable    = errors.New("rule does not apply to field type")
	ErrUnsupportedFieldInTag = errors.New("field with parse tag has an unsupported type")
)

// ParseChain represents a linked list of parse steps for a struct type.
// Only fields carrying a parse tag get a step.
type ParseChain struct {
	StructType reflect.Type // StructType is the type of the struct being bound
	Head       *ParseStep   // Head is the first step in the chain, nil if no field is tagged
}

// ParseStep represents a single field in the chain.
type ParseStep struct {
	Next       *ParseStep // Next is the next step in the current chain.
	Bindings   []Binding  // Ordered list of bindings to try
	FieldName  string     // Name of the field for error reporting
	FieldIndex int        // Index of the field in the struct
	Type       Type       // Declared type the field is extracted as
	Required   bool       // Some binding carries the required modifier
	Rules      Rules      // min/max/length/format from the tag
	Default    DefaultTag // Tag default, set into the field when no binding is found
}

// Execute runs the entire parse chain against req, populating dest.
func (chain *ParseChain) Execute(ex *Extractor, req *Request, dest reflect.Value) error {
	for current := chain.Head; current != nil; current = current.Next {
		if err := chain.doStep(ex, req, dest, current); err != nil {
			return err
		}
	}
	return nil
}

// doStep tries each binding of step in order. The first binding whose key
// is present is extracted and the rest are ignored.
func (chain *ParseChain) doStep(ex *Extractor, req *Request, dest reflect.Value, step *ParseStep) error {
	field := dest.Field(step.FieldIndex)
	if !field.CanSet() {
		return nil
	}

	missing := ""
	for _, binding := range step.Bindings {
		src, found, missingName, err := binding.lookup(req)
		if err != nil {
			ex.reject(err, step.Type)
			return err
		}
		if missing == "" {
			missing = missingName
		}
		if !found {
			continue
		}

		v, err := ex.Extract(src, binding.Identifier, step.Type, step.Required, step.Rules)
		if err != nil {
			return err
		}
		return assignValue(field, v, binding.Field())
	}

	if step.Required {
		err := newError(MissingParameter, missing)
		ex.reject(err, step.Type)
		return err
	}

	if step.Default.Set {
		if err := setFieldValue(field, step.Default.Value); err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidDefault, step.FieldName, err)
		}
	}
	return nil
}

// PCManager builds and caches parse chains per destination struct type.
// It is safe for concurrent use.
type PCManager struct {
	Chains map[reflect.Type]*ParseChain // Cache for chains. Keyed by destination struct type.
	CMutex sync.RWMutex                 // Mutex for thread-safe access to chains
}

// NewPCManager returns an empty chain cache.
func NewPCManager() *PCManager {
	return &PCManager{
		Chains: make(map[reflect.Type]*ParseChain),
	}
}

// GetParseChain retrieves a parse chain for the given destination struct
// type, building and caching it on first use.
func (cman *PCManager) GetParseChain(typ reflect.Type) (*ParseChain, error) {
	cman.CMutex.RLock()
	chain, exists := cman.Chains[typ]
	cman.CMutex.RUnlock()

	if exists {
		return chain, nil
	}

	chain, err := cman.NewParseChain(typ)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFailedToBuildChain, typ, err)
	}

	cman.CMutex.Lock()
	cman.Chains[typ] = chain
	cman.CMutex.Unlock()

	return chain, nil
}

// NewParseChain builds an uncached chain for typ.
func (cman *PCManager) NewParseChain(typ reflect.Type) (*ParseChain, error) {
	var head, current *ParseStep

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		if !field.IsExported() {
			continue
		}

		step, err := cman.NewParseStep(field, i)
		if err != nil {
			if errors.Is(err, ErrNoParseTagInField) {
				continue
			}
			return nil, err
		}

		if head == nil {
			head = step
		} else {
			current.Next = step
		}
		current = step
	}

	return &ParseChain{StructType: typ, Head: head}, nil
}

// NewParseStep builds the step for one struct field.
func (cman *PCManager) NewParseStep(field reflect.StructField, index int) (*ParseStep, error) {
	tag, ok := field.Tag.Lookup(ParseTagPrefix)
	if !ok {
		return nil, ErrNoParseTagInField
	}

	parseTag, err := DecodeParseTag(tag)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFailedToParseTag, field.Name, err)
	}

	bindings, err := makeBindings(parseTag)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFailedToParseTag, field.Name, err)
	}
	if len(bindings) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoStepBindings, field.Name)
	}

	typ, format, err := declaredType(field.Type)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrUnsupportedFieldInTag, field.Name, err)
	}

	rules := parseTag.Rules
	if format != FormatNone {
		rules.Format = format
	}
	if err := checkRules(typ, rules); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRulesNotApplicable, field.Name, err)
	}

	required := false
	for _, b := range bindings {
		required = required || b.Modifiers.Required
	}

	// Validate the default once so a bad tag fails at chain build time.
	if parseTag.DefaultTag.Set {
		probe := reflect.New(field.Type).Elem()
		if err := setFieldValue(probe, parseTag.DefaultTag.Value); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidDefault, field.Name, err)
		}
	}

	return &ParseStep{
		Bindings:   bindings,
		FieldName:  field.Name,
		FieldIndex: index,
		Type:       typ,
		Required:   required,
		Rules:      rules,
		Default:    parseTag.DefaultTag,
	}, nil
}

func checkRules(typ Type, rules Rules) error {
	numeric := typ == Integer || typ == Double
	if (rules.Min.IsSet() || rules.Max.IsSet()) && !numeric {
		return fmt.Errorf("min/max on %s", typ)
	}
	if rules.Length > 0 && typ != String {
		return fmt.Errorf("length on %s", typ)
	}
	if rules.Format != FormatNone && typ != String {
		return fmt.Errorf("format on %s", typ)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Binder
///////////////////////////////////////////////////////////////////////////////

// Binder populates structs from a Request using their `parse` tags. Every
// field goes through the same extraction and validation as FromQuery,
// FromForm and FromJSON.
type Binder struct {
	pcm *PCManager
	ex  *Extractor
}

// BinderOpts configures a Binder.
type BinderOpts struct {
	// Extractor overrides the request's own extractor when set.
	Extractor *Extractor
}

// NewBinder returns a Binder with an empty chain cache.
func NewBinder(opts BinderOpts) *Binder {
	return &Binder{pcm: NewPCManager(), ex: opts.Extractor}
}

// Bind populates dest, which must be a non-nil pointer to a struct.
//
// For each tagged field the bindings are tried in tag order and the first
// one whose key is present is extracted. If none is present the field is
// MissingParameter when any binding is required, otherwise the tag default
// (if any) is set. An empty request body binds like an empty JSON object.
//
// If dest implements Validatable its Validate method runs last. On error dest
// is zeroed and the error is returned: an *Error for a rejected parameter, a
// *ValidationError from Validate, a wrapped sentinel for a bad tag.
func (b *Binder) Bind(req *Request, dest any) error {
	if req == nil {
		return ErrNilParseChainRequest
	}

	value := reflect.ValueOf(dest)
	if dest == nil || value.Kind() != reflect.Ptr || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrInvalidBindDest, dest)
	}
	elem := value.Elem()

	chain, err := b.pcm.GetParseChain(elem.Type())
	if err != nil {
		return err
	}

	ex := b.ex
	if ex == nil {
		ex = req.ex
	}

	if err := chain.Execute(ex, req, elem); err != nil {
		zeroStructFields(elem)
		return err
	}

	if err := validate(dest); err != nil {
		zeroStructFields(elem)
		return err
	}
	return nil
}

var _gBinder = NewBinder(BinderOpts{})

// Bind populates dest from req with the package-level binder.
func Bind(req *Request, dest any) error {
	return _gBinder.Bind(req, dest)
}
