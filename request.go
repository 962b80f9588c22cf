package strictreq

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

var (
	ErrBodyTooLarge = errors.New("request body too large")
	ErrNilRequest   = errors.New("nil *http.Request")
)

// BodyFunc returns the raw request body. It may be called more than once.
type BodyFunc func() ([]byte, error)

// Request bundles the three parameter sources of one inbound request: query
// parameters, form body fields, and the raw body for JSON extraction.
//
// A Request is scoped to a single inbound request. Its maps are never
// modified by extraction.
type Request struct {
	query  Source
	form   Source
	header http.Header
	body   BodyFunc
	ex     *Extractor

	doc     *Document
	docErr  error
	docOnce sync.Once
}

// RequestOption customizes a Request built by NewRequest.
type RequestOption func(*Request)

// WithExtractor makes the request extract with ex instead of the default
// extractor.
func WithExtractor(ex *Extractor) RequestOption {
	return func(r *Request) {
		if ex != nil {
			r.ex = ex
		}
	}
}

// WithHeader attaches request headers, used by IsAJAX.
func WithHeader(h http.Header) RequestOption {
	return func(r *Request) {
		r.header = h
	}
}

// NewRequest composes a Request from explicit sources. Nil maps behave as
// empty ones and a nil body is an empty body.
func NewRequest(query, form Source, body BodyFunc, opts ...RequestOption) *Request {
	if query == nil {
		query = Source{}
	}
	if form == nil {
		form = Source{}
	}
	if body == nil {
		body = func() ([]byte, error) { return nil, nil }
	}
	r := &Request{
		query: query,
		form:  form,
		body:  body,
		ex:    _gExtractor,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StaticBody is a BodyFunc that always returns raw.
func StaticBody(raw []byte) BodyFunc {
	return func() ([]byte, error) { return raw, nil }
}

// NewHTTPRequest builds a Request from a net/http request. The query comes
// from the URL, the form from the parsed POST body, and the raw body is read
// once (up to the extractor's MaxBodyBytes) and cached for JSON extraction.
//
// Form-encoded bodies are consumed by ParseForm; for those requests the raw
// body accessor yields an empty body.
func NewHTTPRequest(r *http.Request, ex *Extractor) (*Request, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	if ex == nil {
		ex = _gExtractor
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	return NewRequest(
		ValuesSource(r.URL.Query()),
		ValuesSource(r.PostForm),
		cachedBody(r, ex.opts.MaxBodyBytes),
		WithExtractor(ex),
		WithHeader(r.Header),
	), nil
}

// cachedBody reads the request body once and replays the bytes on later
// calls.
func cachedBody(r *http.Request, limit int64) BodyFunc {
	var (
		once sync.Once
		body []byte
		err  error
	)
	return func() ([]byte, error) {
		once.Do(func() {
			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			body, err = io.ReadAll(io.LimitReader(r.Body, limit+1))
			if err != nil {
				err = fmt.Errorf("failed to read request body: %w", err)
				return
			}
			if int64(len(body)) > limit {
				body, err = nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, limit)
			}
		})
		return body, err
	}
}

// ValuesSource converts url.Values into a Source. A plain key maps to its
// first value; a key ending in "[]" maps all of its values, as []any, to the
// key without the suffix.
func ValuesSource(values url.Values) Source {
	src := make(Source, len(values))
	for key, vals := range values {
		if name, ok := strings.CutSuffix(key, ArrayKeySuffix); ok && name != "" {
			arr := make([]any, len(vals))
			for i, v := range vals {
				arr[i] = v
			}
			src[name] = arr
			continue
		}
		if len(vals) > 0 {
			src[key] = vals[0]
		}
	}
	return src
}

// Query returns the query parameter source.
func (r *Request) Query() Source { return r.query }

// Form returns the form field source.
func (r *Request) Form() Source { return r.form }

// Header returns the request headers, if any were attached.
func (r *Request) Header() http.Header { return r.header }

// Extractor returns the extractor the request uses.
func (r *Request) Extractor() *Extractor { return r.ex }

// FromQuery extracts a query parameter.
func (r *Request) FromQuery(name string, typ Type, required bool, rules Rules) (Value, error) {
	return r.ex.Extract(r.query, name, typ, required, rules)
}

// FromForm extracts a form body field.
func (r *Request) FromForm(name string, typ Type, required bool, rules Rules) (Value, error) {
	return r.ex.Extract(r.form, name, typ, required, rules)
}

// FromJSON extracts a top-level field of the JSON body. The body is decoded
// on every call; use JSON to decode once and reuse the document.
func (r *Request) FromJSON(name string, typ Type, required bool, rules Rules) (Value, error) {
	doc, err := r.decode(name)
	if err != nil {
		return AbsentValue, err
	}
	return doc.Get(name, typ, required, rules)
}

// FromJSONObject extracts field name of the object stored under object in
// the JSON body. Only one level of nesting is supported. The body is decoded
// on every call; a body that cannot be decoded is reported under object.
func (r *Request) FromJSONObject(object, name string, typ Type, required bool, rules Rules) (Value, error) {
	doc, err := r.decode(object)
	if err != nil {
		return AbsentValue, err
	}
	return doc.GetObject(object, name, typ, required, rules)
}

// JSON decodes the body once and returns the cached document on later
// calls.
func (r *Request) JSON() (*Document, error) {
	r.docOnce.Do(func() {
		r.doc, r.docErr = r.decode("")
	})
	return r.doc, r.docErr
}

// decode reads and decodes the raw body, reporting failures as
// MalformedBody for field.
func (r *Request) decode(field string) (*Document, error) {
	raw, err := r.body()
	if err != nil {
		return nil, r.malformed(field, err)
	}
	doc, err := r.ex.DecodeJSON(raw)
	if err != nil {
		return nil, r.malformed(field, err)
	}
	return doc, nil
}

func (r *Request) malformed(field string, cause error) error {
	err := wrapError(MalformedBody, field, cause)
	r.ex.reject(err, Invalid)
	return err
}

// IsAJAX reports whether the request was sent by an XMLHttpRequest.
func (r *Request) IsAJAX() bool {
	return IsAJAX(r.header)
}
