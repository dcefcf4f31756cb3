// Package htmx renders templ pages as full documents or as HTMX fragments.
package htmx

import (
	"bytes"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// RequestHeaderKey is the HTMX request header used to detect partial updates.
const RequestHeaderKey = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// RenderPage serves page through templ.Handler with status. HTMX requests
// receive only the contents of the page's <main> element, prefixed with a
// <title> tag so the browser title follows boosted navigation. A render
// failure writes a bare 500 and is returned.
func RenderPage(w http.ResponseWriter, r *http.Request, page templ.Component, status int, title string) error {
	if status == 0 {
		status = http.StatusOK
	}
	if page == nil {
		w.WriteHeader(status)
		return nil
	}
	var renderErr error
	handler := templ.Handler(page,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(_ *http.Request, err error) http.Handler {
			renderErr = err
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})
		}),
	)
	if !IsHTMXRequest(r) {
		handler.ServeHTTP(w, r)
		return renderErr
	}

	capture := newResponseBuffer()
	handler.ServeHTTP(capture, r)
	if renderErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return renderErr
	}
	body := capture.body.Bytes()
	if mainContent, ok := extractMainContent(body); ok {
		body = mainContent
	}
	body = addTitleIfMissing(body, TitleTag(title))
	for key, values := range capture.header {
		w.Header()[key] = values
	}
	w.Header().Set("Vary", RequestHeaderKey)
	w.WriteHeader(capture.status)
	_, err := w.Write(body)
	return err
}

// responseBuffer holds a handler's response so the HTMX fragment can be cut
// out of the full page before anything reaches the client.
type responseBuffer struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	b.WriteHeader(http.StatusOK)
	return b.body.Write(p)
}

func addTitleIfMissing(body []byte, title string) []byte {
	if title == "" || bytes.Contains(bytes.ToLower(body), []byte("<title")) {
		return body
	}
	return append([]byte(title), body...)
}

func extractMainContent(body []byte) ([]byte, bool) {
	start := bytes.Index(body, []byte("<main"))
	if start < 0 {
		return nil, false
	}
	openClose := bytes.Index(body[start:], []byte(">"))
	if openClose < 0 {
		return nil, false
	}
	contentStart := start + openClose + 1
	end := bytes.LastIndex(body[contentStart:], []byte("</main>"))
	if end < 0 {
		return nil, false
	}
	return body[contentStart : contentStart+end], true
}
