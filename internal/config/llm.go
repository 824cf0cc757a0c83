package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/docket/internal/classifier"
)

const (
	EnvLLMBaseURL     = "DOCKET_LLM_BASE_URL"
	EnvLLMModel       = "DOCKET_LLM_MODEL"
	EnvLLMTemperature = "DOCKET_LLM_TEMPERATURE"
	EnvLLMTimeout     = "DOCKET_LLM_TIMEOUT"

	// EnvLLMToken is the only source for the inference credential; it is
	// never read from config files.
	EnvLLMToken = "DOCKET_LLM_TOKEN"
)

// LLMConfig holds inference service settings.
type LLMConfig struct {
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
}

// Merge overwrites non-zero fields from overlay.
func (c *LLMConfig) Merge(overlay *LLMConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

// Finalize applies environment variable overrides and validation. Unset
// fields are left for the client's transport defaults.
func (c *LLMConfig) Finalize() error {
	if v := os.Getenv(EnvLLMBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvLLMModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvLLMTemperature); v != "" {
		if temp, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = temp
		}
	}
	if v := os.Getenv(EnvLLMTimeout); v != "" {
		c.Timeout = v
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}
	return nil
}

// ClientConfig builds a classifier.ClientConfig, reading the credential
// from the process environment.
func (c *LLMConfig) ClientConfig() classifier.ClientConfig {
	var timeout time.Duration
	if c.Timeout != "" {
		timeout, _ = time.ParseDuration(c.Timeout)
	}

	return classifier.ClientConfig{
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		APIKey:      os.Getenv(EnvLLMToken),
		Temperature: c.Temperature,
		Timeout:     timeout,
	}
}
