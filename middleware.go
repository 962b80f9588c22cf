package strictreq

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type contextKey struct{}

var requestContextKey = contextKey{}

// Middleware builds a Request for every inbound request and stores it in the
// request context, where handlers retrieve it with FromContext. A request
// whose form cannot be parsed is answered with 400 and never reaches next.
func Middleware(ex *Extractor) func(http.Handler) http.Handler {
	if ex == nil {
		ex = _gExtractor
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, err := NewHTTPRequest(r, ex)
			if err != nil {
				ex.logger.Warn("failed to build request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				WriteError(w, wrapError(MalformedBody, "", err))
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), req)))
		})
	}
}

// NewContext returns a copy of ctx carrying req.
func NewContext(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestContextKey, req)
}

// FromContext returns the Request stored by Middleware.
func FromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(requestContextKey).(*Request)
	return req, ok && req != nil
}

// ErrorResponse is the JSON body written by WriteError.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// WriteError answers a failed extraction. An *Error is a 400 naming the
// kind and field, a *ValidationError is a 400, anything else is a 500 that
// does not leak the error text.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{
		Error:   "internal_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}

	var (
		perr *Error
		verr *ValidationError
	)
	switch {
	case errors.As(err, &perr):
		status = perr.StatusCode()
		resp = ErrorResponse{Error: perr.Kind.String(), Field: perr.Field, Message: perr.Error()}
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp = ErrorResponse{Error: "validation_failed", Message: verr.Cause.Error()}
	}

	w.Header().Set("Content-Type", ContentTypeApplicationJSON+ContentTypeDelimiter+" charset="+ContentEncodingUTF8)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
