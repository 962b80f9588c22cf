package strictreq

import (
	"net/http"
	"strings"
)

// IsAJAX reports whether h carries X-Requested-With: XMLHttpRequest. Both
// the header name and its value are compared case-insensitively, so maps
// built without canonical keys work too.
func IsAJAX(h http.Header) bool {
	for name, values := range h {
		if !strings.EqualFold(name, HeaderXRequestedWith) || len(values) == 0 {
			continue
		}
		if strings.EqualFold(values[0], XMLHTTPRequestValue) {
			return true
		}
	}
	return false
}
