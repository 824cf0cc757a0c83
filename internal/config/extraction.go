package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/docket/internal/extraction"
)

const (
	EnvExtractionMaxPages = "DOCKET_EXTRACTION_MAX_PAGES"
	EnvTaxonomyPath       = "DOCKET_TAXONOMY_PATH"
)

// ExtractionConfig holds the batch page window. Interactive deployments
// use APIConfig.PreviewPages instead.
type ExtractionConfig struct {
	MaxPages int `toml:"max_pages"`
}

// Merge overwrites non-zero fields from overlay.
func (c *ExtractionConfig) Merge(overlay *ExtractionConfig) {
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ExtractionConfig) Finalize() error {
	if c.MaxPages == 0 {
		c.MaxPages = extraction.DefaultMaxPages
	}
	if v := os.Getenv(EnvExtractionMaxPages); v != "" {
		if pages, err := strconv.Atoi(v); err == nil {
			c.MaxPages = pages
		}
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("invalid max_pages: %d", c.MaxPages)
	}
	return nil
}

// TaxonomyConfig points at an external taxonomy definition file. An empty
// path selects the embedded definitions.
type TaxonomyConfig struct {
	Path string `toml:"path"`
}

// Merge overwrites non-zero fields from overlay.
func (c *TaxonomyConfig) Merge(overlay *TaxonomyConfig) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

// Finalize applies environment variable overrides.
func (c *TaxonomyConfig) Finalize() error {
	if v := os.Getenv(EnvTaxonomyPath); v != "" {
		c.Path = v
	}
	return nil
}
