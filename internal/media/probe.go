// internal/media/probe.go
package media

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/valpere/mediasniff/internal/errors"
)

const bytesPerMB = 1024 * 1024

// FormatSize renders a byte count as megabytes with two decimals, e.g. "5.00 MB"
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/bytesPerMB)
}

// parseContentLength parses a content-length header value. CDP joins repeated
// headers with newlines; the first value wins.
func parseContentLength(value string) (int64, bool) {
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[:i]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Prober issues metadata-only HEAD requests to learn a resource's declared length
type Prober struct {
	client   *http.Client
	minSize  int64
	recorder Recorder
}

// NewProber creates a prober with its own HTTP client bounded by timeout
func NewProber(timeout time.Duration, minSize int64, recorder Recorder) *Prober {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return NewProberWithClient(client, minSize, recorder)
}

// NewProberWithClient creates a prober around an existing client
func NewProberWithClient(client *http.Client, minSize int64, recorder Recorder) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	if minSize <= 0 {
		minSize = MinResourceSize
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Prober{client: client, minSize: minSize, recorder: recorder}
}

// ContentLength performs a HEAD request and returns the declared length.
// Non-2xx statuses and missing or malformed headers are errors.
func (p *Prober) ContentLength(ctx context.Context, rawURL string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeProbe, "failed to create probe request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeProbe, "probe request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, errors.New(errors.CodeProbe, fmt.Sprintf("probe returned status %d", resp.StatusCode)).
			WithContext("url", rawURL)
	}

	header := resp.Header.Get("Content-Length")
	if header == "" {
		return 0, errors.New(errors.CodeProbe, "no content-length header").WithContext("url", rawURL)
	}

	n, ok := parseContentLength(header)
	if !ok {
		return 0, errors.New(errors.CodeProbe, fmt.Sprintf("invalid content-length %q", header)).
			WithContext("url", rawURL)
	}
	return n, nil
}

// IsValid reports whether rawURL declares at least the minimum resource size.
// Any probe failure makes the resource invalid.
func (p *Prober) IsValid(ctx context.Context, rawURL string) bool {
	n, err := p.ContentLength(ctx, rawURL)
	if err != nil {
		p.recorder.RecordProbe(ProbeError)
		return false
	}
	if n < p.minSize {
		p.recorder.RecordProbe(ProbeInvalid)
		return false
	}
	p.recorder.RecordProbe(ProbeValid)
	return true
}

// Size returns the formatted declared size of rawURL, or UnknownSize
func (p *Prober) Size(ctx context.Context, rawURL string) string {
	n, err := p.ContentLength(ctx, rawURL)
	if err != nil {
		return UnknownSize
	}
	return FormatSize(n)
}
