package dropinblog

import (
	"net/http"
	"strings"

	"github.com/lemmi/dropinblog/core"
)

// RequestPath returns the normalized path of r. It prefers the original
// request URI, so a handler mounted below http.StripPrefix still sees the
// full path, and keeps percent escapes intact for slug decoding.
func RequestPath(r *http.Request) string {
	raw := r.RequestURI
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if !strings.HasPrefix(raw, "/") {
		raw = r.URL.EscapedPath()
	}
	return core.NormalizePathname(raw)
}
