package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	minPort = 1
	maxPort = 65535

	anthropicModelPrefix = "claude-"
	maxTemperature       = 2
)

// ValidatePort checks if a port number is valid.
func ValidatePort(field string, port int) error {
	if port < minPort || port > maxPort {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// ValidateLogLevel checks if a log level is valid.
func ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return nil
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.ValidateCore(); err != nil {
		return err
	}
	return c.LLM.validate()
}

// ValidateCore checks everything except the llm section. Commands that never
// open a completion stream use it so they run without an API key.
func (c *Config) ValidateCore() error {
	if err := ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Profiling.Enabled {
		if err := ValidatePort("profiling.port", c.Profiling.Port); err != nil {
			return err
		}
	}
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if strings.Count(c.Feed.URLTemplate, "%s") != 1 {
		return &ValidationError{Field: "feed.url_template", Message: "must contain exactly one %s"}
	}
	return nil
}

func (c *LLMConfig) validate() error {
	switch c.Provider {
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return &ValidationError{Field: "llm.groq_api_key", Message: "is required (GROQ_API_KEY)"}
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return &ValidationError{Field: "llm.anthropic_api_key", Message: "is required (ANTHROPIC_API_KEY)"}
		}
	default:
		return &ValidationError{Field: "llm.provider", Message: "must be one of: groq, anthropic"}
	}
	if c.Provider == ProviderAnthropic && !strings.HasPrefix(c.Model, anthropicModelPrefix) {
		return &ValidationError{
			Field:   "llm.model",
			Message: fmt.Sprintf("%q is not an Anthropic model (expected %s*)", c.Model, anthropicModelPrefix),
		}
	}
	if err := validateUnit("llm.temperature", c.Temperature, maxTemperature); err != nil {
		return err
	}
	if err := validateUnit("llm.top_p", c.TopP, 1); err != nil {
		return err
	}
	if c.MaxTokens <= 0 {
		return &ValidationError{Field: "llm.max_tokens", Message: "must be positive"}
	}
	return nil
}

// validateUnit accepts nil (the provider default) or a value in [0, upper].
func validateUnit(field string, v *float64, upper float64) error {
	if v == nil || (*v >= 0 && *v <= upper) {
		return nil
	}
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be between 0 and %g", upper)}
}
