package route

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRedirectTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		target   string
		wantOK   bool
		wantCode int
		wantLoc  string
	}{
		{
			name:     "already canonical",
			target:   "/admin/entities/hero/",
			wantOK:   false,
			wantCode: 200,
		},
		{
			name:     "missing trailing slash",
			target:   "/admin/entities/hero",
			wantOK:   true,
			wantCode: http.StatusMovedPermanently,
			wantLoc:  "/admin/entities/hero/",
		},
		{
			name:     "query preserved",
			target:   "/admin/entities/hero?o=-name",
			wantOK:   true,
			wantCode: http.StatusMovedPermanently,
			wantLoc:  "/admin/entities/hero/?o=-name",
		},
		{
			name:     "duplicate slashes collapse",
			target:   "/admin//entities/",
			wantOK:   true,
			wantCode: http.StatusMovedPermanently,
			wantLoc:  "/admin/entities/",
		},
		{
			name:     "root path",
			target:   "/",
			wantOK:   false,
			wantCode: 200,
		},
		{
			name:     "post is never redirected",
			method:   http.MethodPost,
			target:   "/admin/entities/hero",
			wantOK:   false,
			wantCode: 200,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, tc.target, nil)
			rec := httptest.NewRecorder()

			got := RedirectTrailingSlash(rec, req)
			if got != tc.wantOK {
				t.Fatalf("RedirectTrailingSlash() = %v, want %v", got, tc.wantOK)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if loc := rec.Header().Get("Location"); loc != tc.wantLoc {
				t.Fatalf("Location = %q, want %q", loc, tc.wantLoc)
			}
		})
	}
}

func TestRedirectTrailingSlashNilInputs(t *testing.T) {
	t.Parallel()
	if RedirectTrailingSlash(nil, nil) {
		t.Fatal("nil inputs should not redirect")
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prefix   string
		segments []string
		want     string
	}{
		{prefix: "/admin/", segments: []string{"entities", "hero"}, want: "/admin/entities/hero/"},
		{prefix: "/admin/", segments: []string{"entities", "hero", "7", "change"}, want: "/admin/entities/hero/7/change/"},
		{prefix: "/event-admin/", want: "/event-admin/"},
		{prefix: "/", want: "/"},
		{prefix: "/admin", segments: []string{"", "/events/"}, want: "/admin/events/"},
	}
	for _, tc := range tests {
		if got := Join(tc.prefix, tc.segments...); got != tc.want {
			t.Fatalf("Join(%q, %v) = %q, want %q", tc.prefix, tc.segments, got, tc.want)
		}
	}
}
