// internal/browser/types.go
package browser

import (
	"time"

	"github.com/valpere/mediasniff/internal/errors"
)

// BrowserConfig defines how the shared Chrome process is launched
type BrowserConfig struct {
	ExecPath  string `yaml:"exec_path,omitempty" json:"exec_path,omitempty"`
	Headless  bool   `yaml:"headless" json:"headless"`
	NoSandbox bool   `yaml:"no_sandbox" json:"no_sandbox"`
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// DefaultBrowserConfig returns default browser configuration
func DefaultBrowserConfig() *BrowserConfig {
	return &BrowserConfig{
		Headless:  true,
		NoSandbox: true, // Required for containers and other restricted environments
	}
}

// BrowserStats contains browser automation statistics
type BrowserStats struct {
	Initialized      bool          `json:"initialized"`
	PagesOpened      int64         `json:"pages_opened"`
	PagesOpen        int64         `json:"pages_open"`
	NavigationErrors int64         `json:"navigation_errors"`
	TimeoutsOccurred int64         `json:"timeouts_occurred"`
	Uptime           time.Duration `json:"uptime"`
}

// ErrNotInitialized is returned by NewPage before Init succeeded or after Close.
// Match with errors.HasCode(err, errors.CodeBrowserNotInitialized).
var ErrNotInitialized = errors.New(errors.CodeBrowserNotInitialized, "browser not initialized")
