// Package extraction produces plain text from document bytes using a
// tiered strategy: direct text extraction over a bounded page window,
// with one optical-recovery pass when direct extraction yields too little
// text to be trusted.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// MaxTextWords bounds plain-text input to keep prompt size and
	// inference cost predictable. Hard truncation, not summarization.
	MaxTextWords = 3000

	// OpticalThreshold is the direct-extraction word count below which a
	// PDF is treated as scanned/image-only and routed through optical
	// recovery.
	OpticalThreshold = 100

	// DefaultMaxPages is the batch page window; interactive deployments
	// typically configure a smaller one.
	DefaultMaxPages = 15
)

type pageWindower func(data []byte, maxPages int) ([]byte, int, error)

type directReader func(data []byte) (string, error)

type opticalReader func(ctx context.Context, data []byte) (string, error)

// Extractor turns document bytes into an ExtractedDocument. A zero
// Extractor is not usable; construct with New.
type Extractor struct {
	maxPages int
	logger   *slog.Logger
	window   pageWindower
	direct   directReader
	optical  opticalReader
}

// New creates an Extractor with the given page window. Values below 1
// fall back to DefaultMaxPages.
func New(maxPages int, logger *slog.Logger) *Extractor {
	if maxPages < 1 {
		maxPages = DefaultMaxPages
	}
	return &Extractor{
		maxPages: maxPages,
		logger:   logger.With("system", "extraction"),
		window:   trimToWindow,
		direct:   readPDFText,
		optical:  recognizePDFText,
	}
}

// MaxPages returns the extractor's bounded page window.
func (e *Extractor) MaxPages() int {
	return e.maxPages
}

// Extract produces plain text for the given document bytes. Failures wrap
// ErrExtraction; callers decide whether to abort or report per-document.
func (e *Extractor) Extract(ctx context.Context, data []byte, kind Kind) (*ExtractedDocument, error) {
	switch kind {
	case KindPlainText:
		return e.extractPlainText(data), nil
	case KindPDF:
		return e.extractPDF(ctx, data)
	default:
		return nil, fmt.Errorf("%w: unknown document kind %q", ErrExtraction, kind)
	}
}

// extractPlainText tokenizes on whitespace and truncates to MaxTextWords,
// re-joining with single spaces.
func (e *Extractor) extractPlainText(data []byte) *ExtractedDocument {
	words := strings.Fields(string(data))
	if len(words) > MaxTextWords {
		words = words[:MaxTextWords]
	}
	return &ExtractedDocument{
		Text:      strings.Join(words, " "),
		WordCount: len(words),
		Source:    SourceDirect,
	}
}

// extractPDF materializes a document restricted to the first maxPages
// pages, extracts text from every page in the window, and falls back to
// optical recovery at most once when the direct yield is below
// OpticalThreshold.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (*ExtractedDocument, error) {
	window, pages, err := e.window(data, e.maxPages)
	if err != nil {
		return nil, err
	}

	text, err := e.direct(window)
	if err != nil {
		return nil, err
	}

	doc := &ExtractedDocument{
		Text:      text,
		WordCount: countWords(text),
		Source:    SourceDirect,
		Pages:     pages,
	}

	if doc.WordCount >= OpticalThreshold {
		return doc, nil
	}

	e.logger.Info(
		"direct extraction yield below threshold, running optical recovery",
		"word_count", doc.WordCount,
		"threshold", OpticalThreshold,
		"pages", pages,
	)

	recovered, err := e.optical(ctx, window)
	if err != nil {
		return nil, err
	}

	doc.Text = recovered
	doc.WordCount = countWords(recovered)
	doc.Source = SourceOptical
	return doc, nil
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
