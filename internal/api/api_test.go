// internal/api/api_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/valpere/mediasniff/internal/config"
	"github.com/valpere/mediasniff/internal/errors"
	"github.com/valpere/mediasniff/internal/media"
	"github.com/valpere/mediasniff/internal/monitoring"
	"github.com/valpere/mediasniff/internal/utils"
)

type fakeParser struct {
	mu     sync.Mutex
	result *media.Result
	err    error
	urls   []string
}

func (f *fakeParser) Parse(ctx context.Context, pageURL string) (*media.Result, error) {
	f.mu.Lock()
	f.urls = append(f.urls, pageURL)
	f.mu.Unlock()
	return f.result, f.err
}

func noRateLimit() config.ServerConfig {
	return config.ServerConfig{RateLimit: -1}
}

func setupTestServer(t *testing.T, parser MediaParser, server config.ServerConfig) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewRouter(RouterOptions{
		Parser:  parser,
		Server:  server,
		Metrics: monitoring.NewMetricsManager(monitoring.MetricsConfig{}),
		Health:  monitoring.NewHealthManager(monitoring.HealthConfig{}),
		Logger:  utils.NewNopLogger(),
	}))
	t.Cleanup(ts.Close)
	return ts
}

func postParse(t *testing.T, serverURL, body string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(serverURL+"/parse", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("response is not JSON: %q", raw)
	}
	return resp.StatusCode, decoded
}

func TestParse_Success(t *testing.T) {
	parser := &fakeParser{result: &media.Result{Data: []media.MediaResource{
		{Filename: "clip.mp4", Type: "video/mp4", URL: "https://cdn.example.com/clip.mp4", Size: "5.00 MB"},
	}}}
	ts := setupTestServer(t, parser, noRateLimit())

	status, body := postParse(t, ts.URL, `{"url":"https://example.com/watch"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}

	data, ok := body["data"].([]interface{})
	if !ok || len(data) != 1 {
		t.Fatalf("unexpected data: %v", body)
	}
	first := data[0].(map[string]interface{})
	for key, want := range map[string]string{
		"filename": "clip.mp4",
		"type":     "video/mp4",
		"url":      "https://cdn.example.com/clip.mp4",
		"size":     "5.00 MB",
	} {
		if first[key] != want {
			t.Errorf("%s = %v, want %q", key, first[key], want)
		}
	}
	if len(parser.urls) != 1 || parser.urls[0] != "https://example.com/watch" {
		t.Errorf("parser called with %v", parser.urls)
	}
}

func TestParse_EmptyDataIsArray(t *testing.T) {
	ts := setupTestServer(t, &fakeParser{result: &media.Result{}}, noRateLimit())

	resp, err := http.Post(ts.URL+"/parse", "application/json", strings.NewReader(`{"url":"https://example.com"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(raw)) != `{"data":[]}` {
		t.Errorf("expected empty data array, got %s", raw)
	}
}

func TestParse_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty url", `{"url":""}`},
		{"malformed json", `{"url":`},
		{"wrong type", `{"url":42}`},
		{"no body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &fakeParser{result: &media.Result{Data: []media.MediaResource{}}}
			ts := setupTestServer(t, parser, noRateLimit())

			status, body := postParse(t, ts.URL, tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
			if body["error"] != "URL is required" {
				t.Errorf("unexpected error body: %v", body)
			}
			if len(parser.urls) != 0 {
				t.Error("parser must not be called for invalid requests")
			}
		})
	}
}

func TestParse_FailureHidesDetail(t *testing.T) {
	cause := fmt.Errorf("net::ERR_NAME_NOT_RESOLVED")
	parser := &fakeParser{err: errors.Wrap(cause, errors.CodeNavigation, "navigation to https://nonexistent.invalid failed")}
	ts := setupTestServer(t, parser, noRateLimit())

	status, body := postParse(t, ts.URL, `{"url":"https://nonexistent.invalid"}`)
	if status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", status)
	}
	if len(body) != 1 || body["error"] != "Failed to parse URL" {
		t.Errorf("unexpected error body: %v", body)
	}
}

func TestParse_MethodNotAllowed(t *testing.T) {
	ts := setupTestServer(t, &fakeParser{}, noRateLimit())

	resp, err := http.Get(ts.URL + "/parse")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestParse_RateLimit(t *testing.T) {
	parser := &fakeParser{result: &media.Result{Data: []media.MediaResource{}}}
	ts := setupTestServer(t, parser, config.ServerConfig{RateLimit: 0.001, RateBurst: 2})

	var limited int
	for i := 0; i < 5; i++ {
		status, body := postParse(t, ts.URL, `{"url":"https://example.com"}`)
		if status == http.StatusTooManyRequests {
			limited++
			if body["error"] != "Rate limit exceeded" {
				t.Errorf("unexpected 429 body: %v", body)
			}
		}
	}

	if limited != 3 {
		t.Errorf("expected 3 rate-limited requests, got %d", limited)
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	ts := setupTestServer(t, &fakeParser{}, noRateLimit())

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>mediasniff</h1>"), 0o644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}

	ts := setupTestServer(t, &fakeParser{}, config.ServerConfig{RateLimit: -1, StaticDir: dir})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !bytes.Contains(raw, []byte("mediasniff")) {
		t.Errorf("expected index page, got %d %q", resp.StatusCode, raw)
	}
}
