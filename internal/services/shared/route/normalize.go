// Package route holds URL canonicalization shared by the admin sites.
package route

import (
	"net/http"
	"path"
	"strings"
)

// RedirectTrailingSlash canonicalizes request paths so they end with a
// single "/" character. The query string is preserved.
//
// It returns true when a redirect was written. Route handlers should stop further
// processing when true.
func RedirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	if w == nil || r == nil || r.URL == nil {
		return false
	}

	originalPath := r.URL.Path
	canonical := path.Clean("/"+originalPath) + "/"
	if canonical == "//" {
		canonical = "/"
	}
	if canonical == originalPath {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	target := canonical
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

// Join builds a slash-terminated path from segments.
func Join(prefix string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, strings.Trim(prefix, "/"))
	for _, segment := range segments {
		if trimmed := strings.Trim(segment, "/"); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	joined := "/" + strings.Join(parts, "/")
	if joined == "/" {
		return joined
	}
	return strings.Replace(joined, "//", "/", 1) + "/"
}
