package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestSPAHandler(t *testing.T) {
	t.Parallel()

	root := fstest.MapFS{
		"index.html": {Data: []byte("<html>dashboard</html>")},
		"app.js":     {Data: []byte("console.log('hi')")},
	}
	h := spaHandler(root)

	tests := []struct {
		path string
		want string
	}{
		{"/", "dashboard"},
		{"/app.js", "console.log"},
		{"/marketplace", "dashboard"},
		{"/../../etc/passwd", "dashboard"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", tt.path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), tt.want) {
			t.Errorf("GET %s body = %q, want %q", tt.path, rec.Body.String(), tt.want)
		}
	}
}

func TestEmbeddedIndex(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SPAHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Carbon") {
		t.Fatalf("status = %d body = %.80q", rec.Code, rec.Body.String())
	}
}
