// internal/media/probe_test.go
package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type countingRecorder struct {
	mu       sync.Mutex
	probes   map[string]int
	blocked  map[string]int
	outcomes []string
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{probes: map[string]int{}, blocked: map[string]int{}}
}

func (r *countingRecorder) RecordStrategyResult(strategy, outcome string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, strategy+":"+outcome)
}

func (r *countingRecorder) RecordProbe(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[outcome]++
}

func (r *countingRecorder) RecordBlockedRequest(resourceType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked[resourceType]++
}

func (r *countingRecorder) blockedCount(resourceType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocked[resourceType]
}

// newHeadServer serves HEAD responses with declared lengths keyed by path
func newHeadServer(t *testing.T, lengths map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		length, ok := lengths[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if length != "" {
			w.Header().Set("Content-Length", length)
		}
		w.Header().Set("Content-Type", "video/mp4")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{5 * 1024 * 1024, "5.00 MB"},
		{2097152, "2.00 MB"},
		{1048576, "1.00 MB"},
		{1572864, "1.50 MB"},
		{0, "0.00 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestParseContentLength(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"2097152", 2097152, true},
		{" 42 ", 42, true},
		{"10\n20", 10, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-1", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseContentLength(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseContentLength(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestProber_IsValidAndSize(t *testing.T) {
	srv := newHeadServer(t, map[string]string{
		"/large.mp4":    "2097152",
		"/small.mp4":    "512000",
		"/exact.mp4":    "1048576",
		"/nolength.mp4": "",
	})
	rec := newCountingRecorder()
	prober := NewProber(5*time.Second, MinResourceSize, rec)
	ctx := context.Background()

	tests := []struct {
		path  string
		valid bool
		size  string
	}{
		{"/large.mp4", true, "2.00 MB"},
		{"/exact.mp4", true, "1.00 MB"},
		{"/small.mp4", false, "0.49 MB"},
		{"/nolength.mp4", false, UnknownSize},
		{"/missing.mp4", false, UnknownSize},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			u := srv.URL + tt.path
			if got := prober.IsValid(ctx, u); got != tt.valid {
				t.Errorf("IsValid(%s) = %v, want %v", tt.path, got, tt.valid)
			}
			if got := prober.Size(ctx, u); got != tt.size {
				t.Errorf("Size(%s) = %q, want %q", tt.path, got, tt.size)
			}
		})
	}

	if rec.probes[ProbeValid] != 2 {
		t.Errorf("expected 2 valid probes, got %d", rec.probes[ProbeValid])
	}
	if rec.probes[ProbeInvalid] != 1 {
		t.Errorf("expected 1 invalid probe, got %d", rec.probes[ProbeInvalid])
	}
	if rec.probes[ProbeError] != 2 {
		t.Errorf("expected 2 failed probes, got %d", rec.probes[ProbeError])
	}
}

func TestProber_UsesHEAD(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Header().Set("Content-Length", "4194304")
	}))
	defer srv.Close()

	prober := NewProber(time.Second, 0, nil)
	if _, err := prober.ContentLength(context.Background(), srv.URL+"/a.mp4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodHead {
		t.Errorf("expected HEAD request, got %s", method)
	}
}

func TestProber_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	prober := NewProber(100*time.Millisecond, 0, nil)
	if prober.IsValid(context.Background(), srv.URL+"/slow.mp4") {
		t.Error("expected timed-out probe to be invalid")
	}
}

func TestProber_UnsupportedScheme(t *testing.T) {
	prober := NewProber(time.Second, 0, nil)
	if prober.IsValid(context.Background(), "blob:https://example.com/1234") {
		t.Error("expected blob URL to be invalid")
	}
	if got := prober.Size(context.Background(), "data:video/mp4;base64,AAAA"); got != UnknownSize {
		t.Errorf("expected %q, got %q", UnknownSize, got)
	}
}
