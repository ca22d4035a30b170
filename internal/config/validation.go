// internal/config/validation.go - validation with detailed error messages
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/valpere/mediasniff/internal/errors"
)

// ValidationError represents a detailed validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ValidationResult holds validation results
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// Validate checks the configuration after defaults have been applied
func (c *Config) Validate() error {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]ValidationError, 0),
	}

	c.validateServer(result)
	c.validateParser(result)
	c.validateLogging(result)

	if len(result.Errors) > 0 {
		result.Valid = false
		return formatValidationError(result)
	}

	return nil
}

func (c *Config) validateServer(result *ValidationResult) {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.port",
			Value:   fmt.Sprintf("%d", c.Server.Port),
			Message: "port must be between 1 and 65535",
		})
	}

	if c.Server.RateLimitEnabled() && c.Server.RateBurst < 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.rate_burst",
			Value:   fmt.Sprintf("%d", c.Server.RateBurst),
			Message: "rate burst must be at least 1 when rate limiting is enabled",
		})
	}

	if c.Server.ShutdownTimeout < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.shutdown_timeout",
			Value:   c.Server.ShutdownTimeout.String(),
			Message: "shutdown timeout cannot be negative",
		})
	}
}

func (c *Config) validateParser(result *ValidationResult) {
	durations := []struct {
		field string
		value time.Duration
	}{
		{"parser.navigation_timeout", c.Parser.NavigationTimeout},
		{"parser.element_wait", c.Parser.ElementWait},
		{"parser.grace_period", c.Parser.GracePeriod},
		{"parser.probe_timeout", c.Parser.ProbeTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   d.field,
				Value:   d.value.String(),
				Message: "duration must be positive",
			})
		}
	}

	if c.Parser.MinResourceSize < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "parser.min_resource_size",
			Value:   fmt.Sprintf("%d", c.Parser.MinResourceSize),
			Message: "minimum resource size cannot be negative",
		})
	}
}

func (c *Config) validateLogging(result *ValidationResult) {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "level must be one of debug, info, warn, error",
		})
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: "format must be text or json",
		})
	}
}

// formatValidationError creates a comprehensive error message
func formatValidationError(result *ValidationResult) error {
	var errorMsg strings.Builder

	errorMsg.WriteString("Configuration validation failed:\n")

	for i, err := range result.Errors {
		errorMsg.WriteString(fmt.Sprintf("  %d. %s", i+1, err.Message))
		if err.Field != "" {
			errorMsg.WriteString(fmt.Sprintf(" (field: %s)", err.Field))
		}
		if err.Value != "" {
			errorMsg.WriteString(fmt.Sprintf(" (value: %s)", err.Value))
		}
		errorMsg.WriteString("\n")
	}

	return errors.New(errors.CodeInvalidConfig, strings.TrimRight(errorMsg.String(), "\n"))
}
