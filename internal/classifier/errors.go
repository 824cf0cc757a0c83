package classifier

import "errors"

// ErrClassification indicates that no usable result could be produced:
// the model call failed, or its output could not be parsed even after
// repair. Taxonomy-invalid answers are never surfaced through this error;
// they are recovered by the retry-then-fallback policy.
var ErrClassification = errors.New("classification failed")
