// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load builds the effective configuration: the YAML file when filename is
// non-empty, then environment overrides, then defaults and validation.
func Load(filename string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if filename == "" {
		cfg = &Config{}
	} else {
		cfg, err = parseFile(filename)
		if err != nil {
			return nil, err
		}
	}

	if err := applyEnvironment(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromBytes loads configuration from YAML bytes without consulting the environment
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := parseBytes(data)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromReader loads configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

func parseFile(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return parseBytes(data)
}

func parseBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	// Substitute environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}
	return &cfg, nil
}

// applyEnvironment overlays PORT, CHROME_PATH and LOG_LEVEL
func applyEnvironment(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %v", EnvPort, v, err)
		}
		cfg.Server.Port = port
	}

	if v, ok := lookup(EnvChromePath); ok && v != "" {
		cfg.Browser.ExecPath = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}

	return nil
}

// applyDefaults applies default values to the configuration
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = DefaultStaticDir
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = DefaultRateLimit
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = DefaultRateBurst
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Parser.NavigationTimeout == 0 {
		cfg.Parser.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.Parser.ElementWait == 0 {
		cfg.Parser.ElementWait = DefaultElementWait
	}
	if cfg.Parser.GracePeriod == 0 {
		cfg.Parser.GracePeriod = DefaultGracePeriod
	}
	if cfg.Parser.MinResourceSize == 0 {
		cfg.Parser.MinResourceSize = DefaultMinResourceSize
	}
	if cfg.Parser.ProbeTimeout == 0 {
		cfg.Parser.ProbeTimeout = DefaultProbeTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// ListenAddr returns the address the HTTP server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
