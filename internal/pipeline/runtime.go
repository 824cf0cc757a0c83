package pipeline

import (
	"log/slog"

	"github.com/JaimeStill/docket/internal/classifier"
	"github.com/JaimeStill/docket/internal/extraction"
)

// Runtime bundles the dependencies a pipeline run requires. It is
// constructed by higher-level composition code (server modules, CLI) and
// is safe to share across concurrent runs: the extractor and classifier
// hold no per-document state.
type Runtime struct {
	Extractor  *extraction.Extractor
	Classifier *classifier.Classifier
	Logger     *slog.Logger
}
