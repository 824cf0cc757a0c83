package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// recognizePDFText runs the optical-recovery path over an already trimmed
// page window: page images are extracted into a temp directory, each
// image is recognized, and recognized texts are collated in page order.
// All intermediate artifacts are removed on every exit path.
func recognizePDFText(ctx context.Context, data []byte) (string, error) {
	tempDir, err := os.MkdirTemp("", "docket-ocr-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp directory: %w", ErrExtraction, err)
	}
	defer os.RemoveAll(tempDir)

	images, err := extractPageImages(tempDir, data)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	var pages []string
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrExtraction, err)
		}

		if err := client.SetImage(img); err != nil {
			return "", fmt.Errorf("%w: set image %s: %w", ErrExtraction, filepath.Base(img), err)
		}

		text, err := client.Text()
		if err != nil {
			return "", fmt.Errorf("%w: recognize %s: %w", ErrExtraction, filepath.Base(img), err)
		}

		if trimmed := strings.TrimSpace(text); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

// extractPageImages writes the window to disk and extracts its embedded
// page images, returning their paths in page order.
func extractPageImages(tempDir string, data []byte) ([]string, error) {
	inFile := filepath.Join(tempDir, "window.pdf")
	if err := os.WriteFile(inFile, data, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write window: %w", ErrExtraction, err)
	}

	imageDir := filepath.Join(tempDir, "pages")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create image directory: %w", ErrExtraction, err)
	}

	if err := api.ExtractImagesFile(inFile, imageDir, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: extract page images: %w", ErrExtraction, err)
	}

	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return nil, fmt.Errorf("%w: list page images: %w", ErrExtraction, err)
	}

	var images []string
	for _, entry := range entries {
		if !entry.IsDir() {
			images = append(images, filepath.Join(imageDir, entry.Name()))
		}
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("%w: optical recovery found no page images", ErrExtraction)
	}

	sort.Strings(images)
	return images, nil
}
