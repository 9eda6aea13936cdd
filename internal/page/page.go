// Package page defines the domain types for Jera.
package page

import "time"

// Category identifies one of the synchronized collections.
type Category string

// Known categories.
const (
	Demos       Category = "demos"
	Experiments Category = "experiments"
	Snippets    Category = "snippets"
)

// Categories lists all known categories in sync order.
var Categories = []Category{Demos, Experiments, Snippets}

// Collection returns the Jekyll collection directory for the category
// (e.g. "demos" → "_demos").
func (c Category) Collection() string {
	return "_" + string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case Demos, Experiments, Snippets:
		return true
	}
	return false
}

// SourceInfo is a lightweight representation of a discovered source file,
// returned by listing operations.
type SourceInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta holds the fields extracted from a source document. Empty slice and
// string fields are omitted from the generated front matter.
type Meta struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Difficulty   string   `json:"difficulty"`
	Language     string   `json:"language,omitempty"`
}
