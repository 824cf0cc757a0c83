// Package prompts renders the classification taxonomy into the system
// prompt sent to the model: task instructions, the enumerated controlled
// vocabulary, and the required output shape. The prompt is recomputed from
// taxonomy data, never hand-maintained prose.
package prompts

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/docket/internal/taxonomy"
)

// Build composes the full system prompt for the given taxonomy. Output is
// deterministic: the same taxonomy always renders the same prompt.
func Build(t *taxonomy.Taxonomy) string {
	var sb strings.Builder

	sb.WriteString(classifyInstructions)
	sb.WriteString("\n\nAvailable Categories (must match exactly):\n")
	t.Walk(func(cat taxonomy.Category) {
		fmt.Fprintf(&sb, " * %s: %s\n", cat.Name, cat.Description)
	})

	sb.WriteString("\nAvailable Subcategories (must match exactly):\n")
	t.Walk(func(cat taxonomy.Category) {
		fmt.Fprintf(&sb, "   - %s:\n", cat.Name)
		for _, sub := range cat.Subcategories {
			if sub.Definition != "" {
				fmt.Fprintf(&sb, "       * %s: %s\n", sub.Name, sub.Definition)
			} else {
				fmt.Fprintf(&sb, "       * %s\n", sub.Name)
			}
		}
	})

	sb.WriteString("\n")
	sb.WriteString(classifySpec)

	return sb.String()
}
