package extraction

import "errors"

// Sentinel errors for extraction operations.
var (
	ErrExtraction = errors.New("extraction failed")
	ErrNoPages    = errors.New("document has no readable pages")
)
