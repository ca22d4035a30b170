// internal/media/network.go
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"

	"github.com/valpere/mediasniff/internal/browser"
	"github.com/valpere/mediasniff/internal/errors"
	"github.com/valpere/mediasniff/internal/utils"
)

// PageOpener opens isolated browser pages. *browser.Session implements it.
type PageOpener interface {
	NewPage(ctx context.Context) (*browser.Page, error)
}

// NetworkStrategy watches response traffic during page load and keeps large
// video/audio responses.
type NetworkStrategy struct {
	pages    PageOpener
	opts     Options
	recorder Recorder
	logger   utils.Logger
}

// NewNetworkStrategy creates the interception strategy
func NewNetworkStrategy(pages PageOpener, opts Options, recorder Recorder, logger utils.Logger) *NetworkStrategy {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &NetworkStrategy{
		pages:    pages,
		opts:     opts.withDefaults(),
		recorder: recorder,
		logger:   logger.WithField("strategy", "network"),
	}
}

func (s *NetworkStrategy) Name() string { return "network" }

// Discover loads pageURL with images, stylesheets and fonts blocked and
// returns media responses seen until the grace period ends.
func (s *NetworkStrategy) Discover(ctx context.Context, pageURL string) ([]MediaResource, error) {
	page, err := s.pages.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	found := &collector{}
	page.Listen(func(ev interface{}) {
		switch e := ev.(type) {
		case *fetch.EventRequestPaused:
			go s.handlePaused(page, e)
		case *network.EventResponseReceived:
			if e.Response == nil {
				return
			}
			if res, ok := resourceFromResponse(e.Response.URL, e.Response.Headers, s.opts.MinResourceSize); ok {
				s.logger.Debugf("media response %s (%s, %s)", res.URL, res.Type, res.Size)
				found.add(res)
			}
		}
	})

	if err := page.Run(network.Enable(), fetch.Enable()); err != nil {
		return nil, errors.Wrap(err, errors.CodeEvaluation, "failed to enable request interception")
	}

	if err := page.Navigate(pageURL, s.opts.NavigationTimeout); err != nil {
		return nil, err
	}

	// late-starting players fetch media after DOMContentLoaded; the delay is
	// fixed and not shortened by ctx
	time.Sleep(s.opts.GracePeriod)

	return found.snapshot(), nil
}

func (s *NetworkStrategy) handlePaused(page *browser.Page, e *fetch.EventRequestPaused) {
	var err error
	if shouldBlock(e.ResourceType) {
		s.recorder.RecordBlockedRequest(string(e.ResourceType))
		err = page.Run(fetch.FailRequest(e.RequestID, network.ErrorReasonAborted))
	} else {
		err = page.Run(fetch.ContinueRequest(e.RequestID))
	}
	if err != nil {
		s.logger.Debugf("request %s not resumed: %v", e.RequestID, err)
	}
}

// shouldBlock reports whether a request type is aborted during interception
func shouldBlock(t network.ResourceType) bool {
	switch t {
	case network.ResourceTypeImage, network.ResourceTypeStylesheet, network.ResourceTypeFont:
		return true
	}
	return false
}

// headerValue looks up a response header case-insensitively
func headerValue(headers network.Headers, name string) string {
	for k, v := range headers {
		if !strings.EqualFold(k, name) {
			continue
		}
		switch val := v.(type) {
		case string:
			return val
		case nil:
			return ""
		default:
			return fmt.Sprint(val)
		}
	}
	return ""
}

// resourceFromResponse builds a MediaResource when a response declares a
// video or audio content type and a length of at least minSize bytes.
func resourceFromResponse(rawURL string, headers network.Headers, minSize int64) (MediaResource, bool) {
	contentType := headerValue(headers, "content-type")
	if !strings.Contains(contentType, "video/") && !strings.Contains(contentType, "audio/") {
		return MediaResource{}, false
	}

	length, ok := parseContentLength(headerValue(headers, "content-length"))
	if !ok || length < minSize {
		return MediaResource{}, false
	}

	return MediaResource{
		Filename: FilenameFromURL(rawURL),
		Type:     contentType,
		URL:      rawURL,
		Size:     FormatSize(length),
	}, true
}
