package classifier

// Result is the validated classification output. Category and Subcategory
// always form a valid taxonomy pair; Fallback marks results where the
// model's labels were discarded for the catch-all pair. Immutable once
// returned; owned by the caller.
type Result struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Summary     string   `json:"summary"`
	KeyThemes   []string `json:"key_themes"`
	Fallback    bool     `json:"fallback,omitempty"`
}
