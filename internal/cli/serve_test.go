package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/syntree/syntree/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, log.NewWithOptions(io.Discard, log.Options{}))
	t.Cleanup(func() { runner.Close() })

	s := newServer(runner, log.NewWithOptions(io.Discard, log.Options{}))
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestServeRenderSVG(t *testing.T) {
	srv := newTestServer(t)

	body := `{"document": "(S (NP we) (VP left))"}`
	resp, err := http.Post(srv.URL+"/render", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /render: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "<svg") {
		t.Error("response is not SVG")
	}
}

func TestServeRenderBadRequest(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed json", body: `{"document":`, want: http.StatusBadRequest},
		{name: "no input", body: `{}`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"documnt": "x"}`, want: http.StatusBadRequest},
		{name: "unknown arrow target", body: `{"document": "{\"tree\": {\"label\": \"S\", \"children\": [{\"label\": \"hi\"}]}, \"annotations\": {\"arrows\": [{\"source\": \"a\", \"target\": \"b\"}]}}"}`, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/render", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST /render: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestServeRenderIgnoresPath(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/render", "application/json",
		strings.NewReader(`{"path": "/etc/passwd"}`))
	if err != nil {
		t.Fatalf("POST /render: %v", err)
	}
	defer resp.Body.Close()

	// Path is stripped server-side, leaving no input at all.
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestContentType(t *testing.T) {
	if got := contentType(pipeline.FormatPNG); got != "image/png" {
		t.Errorf("contentType(png) = %q", got)
	}
	if got := contentType("weird"); got != "application/octet-stream" {
		t.Errorf("contentType(weird) = %q", got)
	}
}
