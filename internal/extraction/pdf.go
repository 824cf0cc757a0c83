package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// trimToWindow materializes a new PDF containing only the first maxPages
// pages. Content beyond the window is never read.
func trimToWindow(data []byte, maxPages int) ([]byte, int, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: page count: %w", ErrExtraction, err)
	}
	if count < 1 {
		return nil, 0, fmt.Errorf("%w: %w", ErrExtraction, ErrNoPages)
	}

	pages := min(count, maxPages)

	var buf bytes.Buffer
	selection := []string{fmt.Sprintf("1-%d", pages)}
	if err := api.Trim(bytes.NewReader(data), &buf, selection, nil); err != nil {
		return nil, 0, fmt.Errorf("%w: trim to %d pages: %w", ErrExtraction, pages, err)
	}

	return buf.Bytes(), pages, nil
}

// readPDFText extracts text from every page of the (already trimmed)
// document, concatenating page texts with a blank-line separator. The
// underlying reader panics on some malformed files; panics are converted
// to extraction errors.
func readPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: read pdf text: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %w", ErrExtraction, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %w", ErrExtraction, i, err)
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n\n"), nil
}
