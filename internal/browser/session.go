// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/valpere/mediasniff/internal/errors"
	"github.com/valpere/mediasniff/internal/utils"
)

// Session owns the single Chrome process shared by every parse request.
// Pages opened from it live in their own browser contexts, so they share no
// cookies, interception state or listeners.
type Session struct {
	config *BrowserConfig
	logger utils.Logger

	mu            sync.RWMutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	startedAt     time.Time

	pagesOpened      atomic.Int64
	pagesOpen        atomic.Int64
	navigationErrors atomic.Int64
	timeouts         atomic.Int64
}

// NewSession creates an uninitialised session. Call Init before opening pages.
func NewSession(config *BrowserConfig, logger utils.Logger) *Session {
	if config == nil {
		config = DefaultBrowserConfig()
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Session{
		config: config,
		logger: logger.WithField("component", "browser"),
	}
}

// allocatorOptions builds the Chrome command line
func (s *Session) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.Flag("no-zygote", true),
		chromedp.Flag("disable-extensions", true),
	}

	if s.config.NoSandbox {
		opts = append(opts,
			chromedp.NoSandbox,
			chromedp.Flag("disable-setuid-sandbox", true),
		)
	}

	if s.config.Headless {
		opts = append(opts, chromedp.Headless)
	}

	if s.config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.config.UserAgent))
	}

	if s.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(s.config.ExecPath))
	}

	return opts
}

// Init launches Chrome. Calling it again while a browser is running is a no-op.
// A launch failure leaves the session uninitialised and is not retried.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx != nil {
		return nil
	}

	// The browser must outlive the caller's context; keep its values only.
	parent := context.WithoutCancel(ctx)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, s.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(s.logger.Debugf),
		chromedp.WithErrorf(s.logger.Warnf),
	)

	// Run with no actions starts the process and the first target
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return errors.Wrap(err, errors.CodeBrowserLaunch, "failed to launch browser")
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	s.startedAt = time.Now()

	s.logger.WithFields(map[string]interface{}{
		"exec_path":  s.config.ExecPath,
		"headless":   s.config.Headless,
		"no_sandbox": s.config.NoSandbox,
	}).Info("browser launched")

	return nil
}

// Close terminates Chrome and clears the session. Closing twice is a no-op.
// Pages still open are abandoned.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx == nil {
		return nil
	}

	err := chromedp.Cancel(s.browserCtx)
	s.browserCancel()
	s.allocCancel()

	s.browserCtx = nil
	s.browserCancel = nil
	s.allocCancel = nil

	s.logger.Info("browser closed")

	if err != nil && err != context.Canceled {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// IsInitialized reports whether a browser process is running
func (s *Session) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.browserCtx != nil
}

// NewPage opens a tab inside a fresh browser context. Cancelling ctx closes
// the page; callers must still Close it on every path.
func (s *Session) NewPage(ctx context.Context) (*Page, error) {
	s.mu.RLock()
	browserCtx := s.browserCtx
	s.mu.RUnlock()

	if browserCtx == nil {
		return nil, ErrNotInitialized
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx, chromedp.WithNewBrowserContext())
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, errors.Wrap(err, errors.CodeBrowserLaunch, "failed to open page")
	}

	stop := context.AfterFunc(ctx, tabCancel)

	s.pagesOpened.Add(1)
	s.pagesOpen.Add(1)

	p := &Page{
		ctx:     tabCtx,
		session: s,
	}
	p.cancel = func() {
		stop()
		tabCancel()
		s.pagesOpen.Add(-1)
	}
	return p, nil
}

// Stats returns a snapshot of session counters
func (s *Session) Stats() BrowserStats {
	s.mu.RLock()
	initialized := s.browserCtx != nil
	startedAt := s.startedAt
	s.mu.RUnlock()

	stats := BrowserStats{
		Initialized:      initialized,
		PagesOpened:      s.pagesOpened.Load(),
		PagesOpen:        s.pagesOpen.Load(),
		NavigationErrors: s.navigationErrors.Load(),
		TimeoutsOccurred: s.timeouts.Load(),
	}
	if initialized {
		stats.Uptime = time.Since(startedAt)
	}
	return stats
}
