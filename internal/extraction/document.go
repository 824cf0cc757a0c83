package extraction

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind discriminates the supported input document formats.
type Kind string

// Supported input kinds.
const (
	KindPDF       Kind = "pdf"
	KindPlainText Kind = "plain-text"
)

// Source records how a document's text was obtained.
type Source string

// Extraction provenance values.
const (
	SourceDirect  Source = "direct"
	SourceOptical Source = "optical"
)

// ExtractedDocument is the plain-text product of an extraction run,
// discarded after classification.
type ExtractedDocument struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	Source    Source `json:"source"`
	Pages     int    `json:"pages"`
}

// KindFromName maps a filename extension to an input Kind.
func KindFromName(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, nil
	case ".txt":
		return KindPlainText, nil
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", ErrExtraction, name)
	}
}
