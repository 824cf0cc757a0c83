// Package api assembles the classification API module: pipeline runtime
// construction, HTTP handlers, and route registration.
package api

import (
	"fmt"

	"github.com/JaimeStill/docket/internal/classifier"
	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/extraction"
	"github.com/JaimeStill/docket/internal/infrastructure"
	"github.com/JaimeStill/docket/internal/pipeline"
	"github.com/JaimeStill/docket/pkg/middleware"
	"github.com/JaimeStill/docket/pkg/module"
)

// NewModule creates the API module with its pipeline runtime and
// middleware. The extractor uses the interactive preview page window.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	logger := infra.Logger.With("module", "api")

	client, err := classifier.NewOpenAIClient(cfg.LLM.ClientConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("inference client init failed: %w", err)
	}

	rt := &pipeline.Runtime{
		Extractor:  extraction.New(cfg.API.PreviewPages, logger),
		Classifier: classifier.New(client, infra.Taxonomy, logger),
		Logger:     logger,
	}

	handler := NewHandler(rt, infra.Taxonomy, logger, cfg.API.MaxUploadSizeBytes())

	m := module.New(cfg.API.BasePath)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(logger))
	registerRoutes(m, handler)

	return m, nil
}

func registerRoutes(m *module.Module, h *Handler) {
	m.Handle("POST /documents/classify", h.Classify)
	m.Handle("POST /documents/classify/batch", h.ClassifyBatch)
	m.Handle("GET /taxonomy", h.Taxonomy)
}
