// internal/media/dom.go
package media

import (
	"context"

	"github.com/valpere/mediasniff/internal/utils"
)

// DOMStrategy reads media elements and inline script literals from the
// rendered page and keeps candidates that pass a HEAD probe.
type DOMStrategy struct {
	pages  PageOpener
	prober *Prober
	opts   Options
	logger utils.Logger
}

// NewDOMStrategy creates the DOM fallback strategy
func NewDOMStrategy(pages PageOpener, prober *Prober, opts Options, logger utils.Logger) *DOMStrategy {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &DOMStrategy{
		pages:  pages,
		prober: prober,
		opts:   opts.withDefaults(),
		logger: logger.WithField("strategy", "dom"),
	}
}

func (s *DOMStrategy) Name() string { return "dom" }

func (s *DOMStrategy) Discover(ctx context.Context, pageURL string) ([]MediaResource, error) {
	page, err := s.pages.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Navigate(pageURL, s.opts.NavigationTimeout); err != nil {
		return nil, err
	}

	if err := page.WaitForAny(mediaSelector, s.opts.ElementWait); err != nil {
		s.logger.Debugf("no media elements after %s: %v", s.opts.ElementWait, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	location, err := page.Location()
	if err != nil || location == "" {
		location = pageURL
	}

	candidates, err := ExtractCandidates(html, location)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("%d candidates on %s", len(candidates), location)

	return validateCandidates(ctx, s.prober, candidates), nil
}

// validateCandidates keeps candidates at or above the size threshold and
// fills in their sizes, preserving order.
func validateCandidates(ctx context.Context, prober *Prober, candidates []MediaResource) []MediaResource {
	valid := []MediaResource{}
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		if !prober.IsValid(ctx, c.URL) {
			continue
		}
		c.Size = prober.Size(ctx, c.URL)
		valid = append(valid, c)
	}
	return valid
}
