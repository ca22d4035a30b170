// internal/media/types.go
package media

import "time"

// MediaResource describes one downloadable video or audio file found on a page
type MediaResource struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Size     string `json:"size"`
}

// Result is the payload returned for a parse request
type Result struct {
	Data []MediaResource `json:"data"`
}

const (
	// MinResourceSize is the smallest declared length treated as a real media
	// file; anything smaller is assumed to be a thumbnail or preview.
	MinResourceSize int64 = 1024 * 1024

	// UnknownFilename is used when no path segment can be derived from a URL
	UnknownFilename = "unknown"

	// UnknownSize is the size sentinel when no length could be determined
	UnknownSize = "Unknown"

	// UnknownType is used for <source> elements without a type attribute
	UnknownType = "unknown"

	DefaultVideoType = "video/mp4"
	DefaultAudioType = "audio/mpeg"

	// mediaSelector matches the elements the DOM strategy waits for
	mediaSelector = "video, audio"
)

// Options tunes timeouts and thresholds of the discovery strategies
type Options struct {
	NavigationTimeout time.Duration
	ElementWait       time.Duration
	GracePeriod       time.Duration
	MinResourceSize   int64
	ProbeTimeout      time.Duration
}

// DefaultOptions returns the standard timings: 30s navigation, 5s element
// wait, 5s grace period, 1 MiB threshold, 30s probes.
func DefaultOptions() Options {
	return Options{
		NavigationTimeout: 30 * time.Second,
		ElementWait:       5 * time.Second,
		GracePeriod:       5 * time.Second,
		MinResourceSize:   MinResourceSize,
		ProbeTimeout:      30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = d.NavigationTimeout
	}
	if o.ElementWait <= 0 {
		o.ElementWait = d.ElementWait
	}
	if o.GracePeriod <= 0 {
		o.GracePeriod = d.GracePeriod
	}
	if o.MinResourceSize <= 0 {
		o.MinResourceSize = d.MinResourceSize
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = d.ProbeTimeout
	}
	return o
}

// Recorder receives engine events for metrics. Implementations must be safe
// for concurrent use.
type Recorder interface {
	RecordStrategyResult(strategy, outcome string, found int)
	RecordProbe(outcome string)
	RecordBlockedRequest(resourceType string)
}

// Strategy outcomes reported to the Recorder
const (
	OutcomeHit   = "hit"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Probe outcomes reported to the Recorder
const (
	ProbeValid   = "valid"
	ProbeInvalid = "invalid"
	ProbeError   = "error"
)

type nopRecorder struct{}

func (nopRecorder) RecordStrategyResult(string, string, int) {}
func (nopRecorder) RecordProbe(string)                       {}
func (nopRecorder) RecordBlockedRequest(string)              {}
