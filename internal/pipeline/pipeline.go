// Package pipeline runs the extract-then-classify decision pipeline for
// single documents and bounded-concurrency batches.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/classifier"
	"github.com/JaimeStill/docket/internal/extraction"
)

// Stage names the pipeline stage a per-document failure occurred in.
type Stage string

// Pipeline stages.
const (
	StageExtraction     Stage = "extraction"
	StageClassification Stage = "classification"
)

// StageError labels a per-document failure with the failing stage and the
// document identifier, so batch reporting can name both.
type StageError struct {
	Stage    Stage
	Document string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Document, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Document is a single classification input: raw bytes plus a name used
// for kind detection and failure reporting.
type Document struct {
	Name string
	Data []byte
	Kind extraction.Kind
}

// Duration is a time.Duration that serializes in its human-readable
// string form (e.g. "1.5s") instead of raw nanoseconds.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// RunResult is the final output of one pipeline run.
type RunResult struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Kind      extraction.Kind    `json:"kind"`
	WordCount int                `json:"word_count"`
	Source    extraction.Source  `json:"source"`
	Pages     int                `json:"pages,omitempty"`
	Result    *classifier.Result `json:"result"`
	Duration  Duration           `json:"duration"`
}

// Run executes the pipeline for a single document: detect kind, extract
// text, classify. Failures carry a StageError naming the failing stage
// and the document.
func Run(ctx context.Context, rt *Runtime, doc Document) (*RunResult, error) {
	start := time.Now()
	id := uuid.New()

	kind := doc.Kind
	if kind == "" {
		detected, err := extraction.KindFromName(doc.Name)
		if err != nil {
			return nil, &StageError{Stage: StageExtraction, Document: doc.Name, Err: err}
		}
		kind = detected
	}

	extracted, err := rt.Extractor.Extract(ctx, doc.Data, kind)
	if err != nil {
		return nil, &StageError{Stage: StageExtraction, Document: doc.Name, Err: err}
	}

	rt.Logger.Info(
		"document extracted",
		"id", id,
		"name", doc.Name,
		"kind", kind,
		"word_count", extracted.WordCount,
		"source", extracted.Source,
	)

	result, err := rt.Classifier.Classify(ctx, extracted.Text)
	if err != nil {
		return nil, &StageError{Stage: StageClassification, Document: doc.Name, Err: err}
	}

	run := &RunResult{
		ID:        id,
		Name:      doc.Name,
		Kind:      kind,
		WordCount: extracted.WordCount,
		Source:    extracted.Source,
		Pages:     extracted.Pages,
		Result:    result,
		Duration:  Duration(time.Since(start)),
	}

	rt.Logger.Info(
		"document classified",
		"id", id,
		"name", doc.Name,
		"category", result.Category,
		"subcategory", result.Subcategory,
		"fallback", result.Fallback,
		"duration", run.Duration,
	)

	return run, nil
}
