package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchItem reports the outcome of a single document within a batch. On
// success Result is populated and Error is empty; on failure Error names
// the failing stage and Result is nil.
type BatchItem struct {
	Name   string     `json:"name"`
	Result *RunResult `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// RunBatch classifies documents concurrently with bounded parallelism.
// Each document runs its own extraction and classification; one failing
// document never aborts the rest. Results are returned in input order.
func RunBatch(ctx context.Context, rt *Runtime, docs []Document) []BatchItem {
	items := make([]BatchItem, len(docs))

	var g errgroup.Group
	g.SetLimit(workerCount(len(docs)))

	for i, doc := range docs {
		g.Go(func() error {
			items[i].Name = doc.Name

			run, err := Run(ctx, rt, doc)
			if err != nil {
				items[i].Error = err.Error()
				rt.Logger.Error("batch document failed", "name", doc.Name, "error", err)
				return nil
			}

			items[i].Result = run
			return nil
		})
	}

	_ = g.Wait() // workers report per-document failures via items
	return items
}

func workerCount(docCount int) int {
	return max(min(runtime.NumCPU(), docCount), 1)
}
