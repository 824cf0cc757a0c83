// Package taxonomy loads and exposes the controlled vocabulary of legal
// document categories and subcategories used to instruct and validate the
// classification model.
package taxonomy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// Catch-all entries used when no taxonomy entry fits a document or when
// validation of the model's answer fails.
const (
	CatchallCategory    = "other"
	CatchallSubcategory = "other"
)

//go:embed definitions.json
var defaultDefinitions []byte

// Subcategory is a named taxonomy entry with an optional definition.
type Subcategory struct {
	Name       string `json:"name"`
	Definition string `json:"definition,omitempty"`
}

// Category groups an ordered list of subcategories under a described name.
type Category struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Taxonomy is the validated, immutable category/subcategory lookup built
// once at load. Safe for concurrent reads.
type Taxonomy struct {
	categories []Category
	members    map[string]map[string]bool
}

type definitionsFile struct {
	Categories []Category `json:"categories"`
}

// Load builds a Taxonomy from the embedded definition data.
func Load() (*Taxonomy, error) {
	return parse(defaultDefinitions)
}

// LoadFile builds a Taxonomy from an external JSON definition file.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Taxonomy, error) {
	var file definitionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories defined", ErrConfig)
	}

	t := &Taxonomy{
		categories: file.Categories,
		members:    make(map[string]map[string]bool, len(file.Categories)),
	}

	owner := make(map[string]string)
	for _, cat := range file.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("%w: category with empty name", ErrConfig)
		}
		if _, ok := t.members[cat.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrConfig, cat.Name)
		}
		if len(cat.Subcategories) == 0 {
			return nil, fmt.Errorf("%w: category %q has no subcategories", ErrConfig, cat.Name)
		}

		subs := make(map[string]bool, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			if sub.Name == "" {
				return nil, fmt.Errorf("%w: category %q has a subcategory with empty name", ErrConfig, cat.Name)
			}
			if prev, ok := owner[sub.Name]; ok && prev != cat.Name {
				return nil, fmt.Errorf(
					"%w: subcategory %q attached to both %q and %q",
					ErrConfig, sub.Name, prev, cat.Name,
				)
			}
			if subs[sub.Name] {
				return nil, fmt.Errorf("%w: duplicate subcategory %q in %q", ErrConfig, sub.Name, cat.Name)
			}
			owner[sub.Name] = cat.Name
			subs[sub.Name] = true
		}
		t.members[cat.Name] = subs
	}

	if !t.IsValid(CatchallCategory, CatchallSubcategory) {
		return nil, fmt.Errorf(
			"%w: missing catch-all entry %s/%s",
			ErrConfig, CatchallCategory, CatchallSubcategory,
		)
	}

	return t, nil
}

// Categories returns category names in definition order.
func (t *Taxonomy) Categories() []string {
	names := make([]string, len(t.categories))
	for i, cat := range t.categories {
		names[i] = cat.Name
	}
	return names
}

// Description returns the description of a category, or "" when unknown.
func (t *Taxonomy) Description(category string) string {
	for _, cat := range t.categories {
		if cat.Name == category {
			return cat.Description
		}
	}
	return ""
}

// Subcategories returns the subcategory names of a category in definition
// order. Unknown categories yield nil, not an error.
func (t *Taxonomy) Subcategories(category string) []string {
	for _, cat := range t.categories {
		if cat.Name != category {
			continue
		}
		names := make([]string, len(cat.Subcategories))
		for i, sub := range cat.Subcategories {
			names[i] = sub.Name
		}
		return names
	}
	return nil
}

// Definition returns the definition text of a subcategory, or "" when the
// pair is unknown or no definition was configured.
func (t *Taxonomy) Definition(category, subcategory string) string {
	for _, cat := range t.categories {
		if cat.Name != category {
			continue
		}
		for _, sub := range cat.Subcategories {
			if sub.Name == subcategory {
				return sub.Definition
			}
		}
	}
	return ""
}

// IsValid reports whether subcategory belongs to category in this taxonomy.
func (t *Taxonomy) IsValid(category, subcategory string) bool {
	return t.members[category][subcategory]
}

// Catchall returns the catch-all category/subcategory pair.
func (t *Taxonomy) Catchall() (string, string) {
	return CatchallCategory, CatchallSubcategory
}

// Walk visits every category in definition order.
func (t *Taxonomy) Walk(fn func(Category)) {
	for _, cat := range t.categories {
		fn(cat)
	}
}
