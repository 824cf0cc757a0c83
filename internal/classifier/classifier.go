// Package classifier sends document text to an inference service and
// enforces taxonomy consistency on the structured result with a bounded
// retry-then-fallback policy.
package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/docket/internal/prompts"
	"github.com/JaimeStill/docket/internal/taxonomy"
)

// maxAttempts bounds the model invocations per classification: one
// attempt plus one retry when the returned pair fails taxonomy
// validation. The bound is expressed as a loop so it stays auditable.
const maxAttempts = 2

// Classifier validates model answers against a taxonomy. The rendered
// prompt is computed once from the taxonomy and reused across calls; the
// Classifier itself holds no per-call state and is safe for concurrent
// use.
type Classifier struct {
	client Client
	tax    *taxonomy.Taxonomy
	prompt string
	logger *slog.Logger
}

// New creates a Classifier bound to a taxonomy and an inference client.
func New(client Client, tax *taxonomy.Taxonomy, logger *slog.Logger) *Classifier {
	return &Classifier{
		client: client,
		tax:    tax,
		prompt: prompts.Build(tax),
		logger: logger.With("system", "classifier"),
	}
}

// Classify sends text to the model and returns a taxonomy-consistent
// Result. A taxonomy-invalid answer is retried once with the identical
// request; if still invalid, the model's labels are replaced by the
// catch-all pair while its summary and key themes are preserved verbatim.
// Only model-call failures and unrecoverable parse failures surface as
// errors, wrapping ErrClassification.
func (c *Classifier) Classify(ctx context.Context, text string) (*Result, error) {
	var last *Result

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := c.client.Complete(ctx, c.prompt, text)
		if err != nil {
			return nil, fmt.Errorf("%w: model call: %w", ErrClassification, err)
		}

		result, err := parseResult(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrClassification, err)
		}

		if c.tax.IsValid(result.Category, result.Subcategory) {
			return result, nil
		}

		c.logger.Warn(
			"model returned taxonomy-inconsistent pair",
			"attempt", attempt,
			"category", result.Category,
			"subcategory", result.Subcategory,
		)
		last = result
	}

	category, subcategory := c.tax.Catchall()
	c.logger.Warn(
		"falling back to catch-all after retry",
		"category", last.Category,
		"subcategory", last.Subcategory,
	)

	return &Result{
		Category:    category,
		Subcategory: subcategory,
		Summary:     last.Summary,
		KeyThemes:   last.KeyThemes,
		Fallback:    true,
	}, nil
}
