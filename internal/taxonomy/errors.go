package taxonomy

import "errors"

// ErrConfig indicates the taxonomy definition data is missing or malformed.
// The pipeline cannot run without a valid taxonomy.
var ErrConfig = errors.New("invalid taxonomy configuration")
