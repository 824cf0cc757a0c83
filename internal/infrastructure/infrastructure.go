// Package infrastructure provides core service initialization for
// application startup: lifecycle coordination, logging, and the taxonomy
// loaded once per process.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/taxonomy"
	"github.com/JaimeStill/docket/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all modules. The
// taxonomy is immutable after load and safe for concurrent reads.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Taxonomy  *taxonomy.Taxonomy
}

// New creates an Infrastructure from the application configuration.
// A missing or malformed taxonomy is fatal; the pipeline cannot run
// without it.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tax, err := loadTaxonomy(cfg)
	if err != nil {
		return nil, fmt.Errorf("taxonomy init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Taxonomy:  tax,
	}, nil
}

func loadTaxonomy(cfg *config.Config) (*taxonomy.Taxonomy, error) {
	if cfg.Taxonomy.Path != "" {
		return taxonomy.LoadFile(cfg.Taxonomy.Path)
	}
	return taxonomy.Load()
}
