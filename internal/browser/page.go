// internal/browser/page.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/valpere/mediasniff/internal/errors"
)

// Page is one isolated tab. It is used by a single parse invocation.
type Page struct {
	ctx       context.Context
	cancel    context.CancelFunc
	session   *Session
	closeOnce sync.Once
}

// Listen registers fn for every CDP event of this tab. Events arrive
// sequentially; fn must not block.
func (p *Page) Listen(fn func(ev interface{})) {
	chromedp.ListenTarget(p.ctx, fn)
}

// Run executes actions against this tab
func (p *Page) Run(actions ...chromedp.Action) error {
	return chromedp.Run(p.ctx, actions...)
}

// Navigate loads url and returns once DOMContentLoaded fires. Exceeding
// timeout is reported as NAVIGATION_TIMEOUT; the load event is not awaited.
func (p *Page) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	domReady := make(chan struct{}, 1)
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if _, ok := ev.(*page.EventDomContentEventFired); ok {
			select {
			case domReady <- struct{}{}:
			default:
			}
		}
	})

	var res page.NavigateReturns
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return cdp.Execute(ctx, page.CommandNavigate, page.Navigate(url), &res)
	}))
	if err == nil && res.ErrorText != "" {
		err = fmt.Errorf("%s", res.ErrorText)
	}
	if err != nil {
		return p.navigationError(ctx, url, err)
	}

	select {
	case <-domReady:
		return nil
	case <-ctx.Done():
		return p.navigationError(ctx, url, ctx.Err())
	}
}

func (p *Page) navigationError(ctx context.Context, url string, cause error) error {
	p.session.navigationErrors.Add(1)

	// Only our own deadline counts as a timeout; a closed page is a plain failure.
	if ctx.Err() == context.DeadlineExceeded && p.ctx.Err() == nil {
		p.session.timeouts.Add(1)
		return errors.Wrap(cause, errors.CodeNavigationTimeout,
			fmt.Sprintf("navigation to %s timed out", url))
	}
	return errors.Wrap(cause, errors.CodeNavigation, fmt.Sprintf("navigation to %s failed", url))
}

// WaitForAny waits until an element matching selector exists. Callers treat
// the returned error as advisory.
func (p *Page) WaitForAny(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("element wait timeout: %w", err)
	}
	return nil
}

// evaluateTimeout bounds in-page reads that follow navigation
const evaluateTimeout = 10 * time.Second

// documentHTML serialises whatever root the document has; XML and SVG
// documents have no <html> element.
const documentHTML = `document.documentElement ? document.documentElement.outerHTML : ""`

// HTML returns the rendered document's outer HTML
func (p *Page) HTML() (string, error) {
	ctx, cancel := context.WithTimeout(p.ctx, evaluateTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(ctx, chromedp.Evaluate(documentHTML, &html)); err != nil {
		return "", errors.Wrap(err, errors.CodeEvaluation, "failed to read rendered HTML")
	}
	return html, nil
}

// Location returns the current document URL after redirects
func (p *Page) Location() (string, error) {
	ctx, cancel := context.WithTimeout(p.ctx, evaluateTimeout)
	defer cancel()

	var loc string
	if err := chromedp.Run(ctx, chromedp.Location(&loc)); err != nil {
		return "", errors.Wrap(err, errors.CodeEvaluation, "failed to read page location")
	}
	return loc, nil
}

// Close releases the tab and its browser context. Safe to call repeatedly.
func (p *Page) Close() {
	p.closeOnce.Do(p.cancel)
}
