package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/docket/pkg/formatting"
	"github.com/JaimeStill/docket/pkg/middleware"
)

var corsEnv = &middleware.CORSEnv{
	Enabled: "DOCKET_CORS_ENABLED",
	Origins: "DOCKET_CORS_ORIGINS",
}

// APIConfig holds API routing, upload, and CORS settings. PreviewPages is
// the interactive page window: API-driven classification reads fewer
// pages than the batch CLI to keep request latency manageable.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	PreviewPages  int                   `toml:"preview_pages"`
	CORS          middleware.CORSConfig `toml:"cors"`
}

// MaxUploadSizeBytes returns MaxUploadSize as a byte count.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.PreviewPages != 0 {
		c.PreviewPages = overlay.PreviewPages
	}
	c.CORS.Merge(&overlay.CORS)
}

// Finalize applies defaults, environment variable overrides, and
// validation for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
	if c.PreviewPages == 0 {
		c.PreviewPages = 5
	}

	if v := os.Getenv("DOCKET_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("DOCKET_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv("DOCKET_API_PREVIEW_PAGES"); v != "" {
		if pages, err := strconv.Atoi(v); err == nil {
			c.PreviewPages = pages
		}
	}

	if c.PreviewPages < 1 {
		return fmt.Errorf("invalid preview_pages: %d", c.PreviewPages)
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}

	return c.CORS.Finalize(corsEnv)
}
