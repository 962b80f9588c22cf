// Package strictreq provides typed, rule-validated extraction of request
// parameters from query strings, form bodies and JSON bodies.
//
// Every parameter is read through the same pipeline: presence check,
// trimming, coercion to the declared Type, type verification and the
// Rules (min, max, length, format). The first violation is returned as an
// *Error naming the field and its ErrorKind, which maps to HTTP 400.
//
// Extract from a source map directly:
//
//	v, err := strictreq.Extract(src, "page", strictreq.Integer, false, strictreq.Rules{
//		Default: int64(1),
//		Min:     strictreq.IntLimit(1),
//	})
//
// Or wrap an inbound request and use its adapters:
//
//	req, err := strictreq.NewHTTPRequest(r, nil)
//	name, err := req.FromForm("name", strictreq.String, true, strictreq.Rules{Length: 64})
//	id, err := req.FromJSONObject("user", "id", strictreq.String, true, strictreq.Rules{Format: strictreq.FormatUUID})
//
// Structs can be populated in one call by tagging their fields:
//
//	type Paging struct {
//		Page    int64 `parse:"query:'page' json:'paging.page' default:'1' min:'1'"`
//		PerPage int64 `parse:"query:'per_page' default:'20' min:'1' max:'100'"`
//	}
//
//	var p Paging
//	err := strictreq.Bind(req, &p)
//
// The package also provides a bulk integer filter for maps (FilterIntegers),
// an X-Requested-With check (IsAJAX), and net/http glue (Middleware,
// FromContext, WriteError).
//
// The package-level functions use a default Extractor. Use NewExtractor with
// Options to enable strict double coercion, cap body size or attach a
// *slog.Logger.
package strictreq
