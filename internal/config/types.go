// internal/config/types.go
package config

import "time"

// Config is the root service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Browser BrowserConfig `yaml:"browser" json:"browser"`
	Parser  ParserConfig  `yaml:"parser" json:"parser"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig defines the HTTP surface
type ServerConfig struct {
	Port            int           `yaml:"port" json:"port"`
	StaticDir       string        `yaml:"static_dir,omitempty" json:"static_dir,omitempty"`
	RateLimit       float64       `yaml:"rate_limit" json:"rate_limit"` // requests per second, negative disables
	RateBurst       int           `yaml:"rate_burst" json:"rate_burst"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// BrowserConfig defines how the shared Chrome process is launched
type BrowserConfig struct {
	ExecPath  string `yaml:"exec_path,omitempty" json:"exec_path,omitempty"`
	NoSandbox *bool  `yaml:"no_sandbox,omitempty" json:"no_sandbox,omitempty"`
	Headless  *bool  `yaml:"headless,omitempty" json:"headless,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// ParserConfig tunes the discovery strategies
type ParserConfig struct {
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	ElementWait       time.Duration `yaml:"element_wait" json:"element_wait"`
	GracePeriod       time.Duration `yaml:"grace_period" json:"grace_period"`
	MinResourceSize   int64         `yaml:"min_resource_size" json:"min_resource_size"`
	ProbeTimeout      time.Duration `yaml:"probe_timeout" json:"probe_timeout"`
}

// LoggingConfig selects level and output format
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // text or json
}

// Defaults
const (
	DefaultPort              = 3000
	DefaultStaticDir         = "public"
	DefaultRateLimit         = 5.0
	DefaultRateBurst         = 10
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultElementWait       = 5 * time.Second
	DefaultGracePeriod       = 5 * time.Second
	DefaultMinResourceSize   = 1024 * 1024
	DefaultProbeTimeout      = 30 * time.Second
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

// Environment variables that override file values
const (
	EnvPort       = "PORT"
	EnvChromePath = "CHROME_PATH"
	EnvLogLevel   = "LOG_LEVEL"
)

// SandboxDisabled reports whether Chrome runs with --no-sandbox (default true)
func (b BrowserConfig) SandboxDisabled() bool {
	return b.NoSandbox == nil || *b.NoSandbox
}

// RateLimitEnabled reports whether /parse is rate limited
func (s ServerConfig) RateLimitEnabled() bool {
	return s.RateLimit > 0
}

// IsHeadless reports whether Chrome runs headless (default true)
func (b BrowserConfig) IsHeadless() bool {
	return b.Headless == nil || *b.Headless
}
