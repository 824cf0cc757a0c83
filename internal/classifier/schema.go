package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/JaimeStill/docket/pkg/formatting"
)

// resultSchema constrains the shape of a parsed model response: all four
// fields present, non-empty labels, and exactly three key themes. It does
// not constrain label values; taxonomy membership is checked separately.
var resultSchema = map[string]any{
	"type":     "object",
	"required": []string{"category", "subcategory", "summary", "key_themes"},
	"properties": map[string]any{
		"category":    map[string]any{"type": "string", "minLength": 1},
		"subcategory": map[string]any{"type": "string", "minLength": 1},
		"summary":     map[string]any{"type": "string", "minLength": 1},
		"key_themes": map[string]any{
			"type":     "array",
			"minItems": 3,
			"maxItems": 3,
			"items":    map[string]any{"type": "string", "minLength": 1},
		},
	},
}

var compiledSchema = mustCompile(resultSchema)

func mustCompile(schemaMap map[string]any) *jsonschema.Schema {
	raw, err := json.Marshal(schemaMap)
	if err != nil {
		panic(err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.json", bytes.NewReader(raw)); err != nil {
		panic(err)
	}

	schema, err := compiler.Compile("result.json")
	if err != nil {
		panic(err)
	}
	return schema
}

// parseResult parses raw model output into a Result, applying fence and
// separator repair before giving up, then validating the shape against
// resultSchema.
func parseResult(content string) (*Result, error) {
	parsed, err := formatting.Parse[Result](content)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(parsed)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, err
	}
	if err := compiledSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("response shape invalid: %w", err)
	}

	return &parsed, nil
}
