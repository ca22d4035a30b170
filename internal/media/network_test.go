// internal/media/network_test.go
package media

import (
	"testing"

	"github.com/chromedp/cdproto/network"
)

func TestShouldBlock(t *testing.T) {
	tests := []struct {
		rt   network.ResourceType
		want bool
	}{
		{network.ResourceTypeImage, true},
		{network.ResourceTypeStylesheet, true},
		{network.ResourceTypeFont, true},
		{network.ResourceTypeMedia, false},
		{network.ResourceTypeScript, false},
		{network.ResourceTypeDocument, false},
		{network.ResourceTypeXHR, false},
	}
	for _, tt := range tests {
		if got := shouldBlock(tt.rt); got != tt.want {
			t.Errorf("shouldBlock(%s) = %v, want %v", tt.rt, got, tt.want)
		}
	}
}

func TestResourceFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		headers network.Headers
		ok      bool
		want    MediaResource
	}{
		{
			name:    "large video",
			url:     "https://cdn.example.com/v/clip.mp4",
			headers: network.Headers{"content-type": "video/mp4", "content-length": "5242880"},
			ok:      true,
			want:    MediaResource{Filename: "clip.mp4", Type: "video/mp4", URL: "https://cdn.example.com/v/clip.mp4", Size: "5.00 MB"},
		},
		{
			name:    "mixed case headers",
			url:     "https://cdn.example.com/a/song.mp3",
			headers: network.Headers{"Content-Type": "audio/mpeg; charset=binary", "Content-Length": "3145728"},
			ok:      true,
			want:    MediaResource{Filename: "song.mp3", Type: "audio/mpeg; charset=binary", URL: "https://cdn.example.com/a/song.mp3", Size: "3.00 MB"},
		},
		{
			name:    "below threshold",
			url:     "https://cdn.example.com/v/preview.mp4",
			headers: network.Headers{"content-type": "video/mp4", "content-length": "1048575"},
		},
		{
			name:    "no length",
			url:     "https://cdn.example.com/v/stream.mp4",
			headers: network.Headers{"content-type": "video/mp4"},
		},
		{
			name:    "not media",
			url:     "https://cdn.example.com/bundle.js",
			headers: network.Headers{"content-type": "application/javascript", "content-length": "9999999"},
		},
		{
			name:    "query-only path",
			url:     "https://cdn.example.com/?id=1",
			headers: network.Headers{"content-type": "video/webm", "content-length": "2097152"},
			ok:      true,
			want:    MediaResource{Filename: UnknownFilename, Type: "video/webm", URL: "https://cdn.example.com/?id=1", Size: "2.00 MB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resourceFromResponse(tt.url, tt.headers, MinResourceSize)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCollector_Snapshot(t *testing.T) {
	c := &collector{}
	if got := c.snapshot(); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil snapshot, got %#v", got)
	}

	c.add(MediaResource{URL: "a"})
	snap := c.snapshot()
	c.add(MediaResource{URL: "b"})

	if len(snap) != 1 {
		t.Errorf("snapshot changed after later add: %+v", snap)
	}
}
