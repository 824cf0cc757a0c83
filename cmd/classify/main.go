package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/docket/internal/classifier"
	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/extraction"
	"github.com/JaimeStill/docket/internal/pipeline"
	"github.com/JaimeStill/docket/internal/taxonomy"
)

func main() {
	var (
		pages    = flag.Int("pages", 0, "Maximum PDF pages to extract (0 = configured default)")
		model    = flag.String("model", "", "Model name override")
		asJSON   = flag.Bool("json", false, "Emit results as JSON")
		parallel = flag.Bool("parallel", false, "Classify documents concurrently")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: classify [flags] <document> [document...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *pages > 0 {
		cfg.Extraction.MaxPages = *pages
	}
	if *model != "" {
		cfg.LLM.Model = *model
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		log.Fatalf("runtime init failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, docs, slots := loadDocuments(flag.Args())

	if *parallel {
		for j, item := range pipeline.RunBatch(ctx, rt, docs) {
			items[slots[j]] = item
		}
	} else {
		for j, doc := range docs {
			run, err := pipeline.Run(ctx, rt, doc)
			item := pipeline.BatchItem{Name: doc.Name, Result: run}
			if err != nil {
				item.Error = err.Error()
			}
			items[slots[j]] = item
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			log.Fatalf("encode results: %v", err)
		}
	} else {
		printItems(items)
	}

	for _, item := range items {
		if item.Error != "" {
			os.Exit(1)
		}
	}
}

func buildRuntime(cfg *config.Config, logger *slog.Logger) (*pipeline.Runtime, error) {
	var tax *taxonomy.Taxonomy
	var err error
	if cfg.Taxonomy.Path != "" {
		tax, err = taxonomy.LoadFile(cfg.Taxonomy.Path)
	} else {
		tax, err = taxonomy.Load()
	}
	if err != nil {
		return nil, err
	}

	client, err := classifier.NewOpenAIClient(cfg.LLM.ClientConfig(), logger)
	if err != nil {
		return nil, err
	}

	return &pipeline.Runtime{
		Extractor:  extraction.New(cfg.Extraction.MaxPages, logger),
		Classifier: classifier.New(client, tax, logger),
		Logger:     logger,
	}, nil
}

// loadDocuments reads each path, recording unreadable or unsupported
// files as failed items in their argument position rather than aborting
// the run. The returned slot indices map each loaded document back to its
// item position so results keep argument order.
func loadDocuments(paths []string) ([]pipeline.BatchItem, []pipeline.Document, []int) {
	items := make([]pipeline.BatchItem, len(paths))

	var docs []pipeline.Document
	var slots []int
	for i, path := range paths {
		kind, err := extraction.KindFromName(path)
		if err != nil {
			items[i] = pipeline.BatchItem{Name: path, Error: err.Error()}
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			items[i] = pipeline.BatchItem{Name: path, Error: err.Error()}
			continue
		}

		docs = append(docs, pipeline.Document{Name: path, Data: data, Kind: kind})
		slots = append(slots, i)
	}

	return items, docs, slots
}

func printItems(items []pipeline.BatchItem) {
	for _, item := range items {
		fmt.Printf("\n=== %s ===\n", item.Name)

		if item.Error != "" {
			fmt.Printf("Error      : %s\n", item.Error)
			continue
		}

		r := item.Result.Result
		fmt.Printf("Category   : %s\n", r.Category)
		fmt.Printf("Subcategory: %s\n", r.Subcategory)
		fmt.Printf("Summary    : %s\n", r.Summary)
		fmt.Println("Key Themes :")
		for i, theme := range r.KeyThemes {
			fmt.Printf("  %d. %s\n", i+1, theme)
		}
		if r.Fallback {
			fmt.Println("Note       : classified via fallback category")
		}
	}
}
