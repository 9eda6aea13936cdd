// Package render assembles generated collection documents: a YAML front
// matter block, the markdown body, and an appended source link.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/jera/internal/page"
)

// FrontMatter is the schema of the generated front matter block. Struct
// field order is the key order in the output, so rendering is deterministic.
type FrontMatter struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Tags         []string `yaml:"tags,omitempty"`
	Technologies []string `yaml:"technologies,omitempty"`
	Difficulty   string   `yaml:"difficulty"`
	Language     string   `yaml:"language,omitempty"`
}

// FromMeta converts extracted page metadata into a front matter block.
func FromMeta(m page.Meta) FrontMatter {
	return FrontMatter{
		Title:        m.Title,
		Description:  m.Description,
		Tags:         m.Tags,
		Technologies: m.Technologies,
		Difficulty:   m.Difficulty,
		Language:     m.Language,
	}
}

// Document renders a complete output page: front matter, body, and a
// trailing "View on GitHub" block when sourceURL is non-empty. The output
// depends only on the inputs, so re-rendering unchanged sources is
// byte-identical.
func Document(fm FrontMatter, body, sourceURL string) ([]byte, error) {
	var buf bytes.Buffer

	block, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("render: marshal front matter: %w", err)
	}
	buf.WriteString("---\n")
	buf.Write(block)
	buf.WriteString("---\n\n")

	body = strings.TrimRight(body, "\n")
	if body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	if sourceURL != "" {
		buf.WriteString("\n---\n\n")
		buf.WriteString(fmt.Sprintf("<p class=\"source-link\">\n  <a href=%q target=\"_blank\" rel=\"noopener\">View on GitHub</a>\n</p>\n", sourceURL))
	}

	return buf.Bytes(), nil
}

// CodeBody wraps raw snippet source in a fenced code block for embedding in
// a markdown page.
func CodeBody(language string, src []byte) string {
	var buf strings.Builder
	buf.WriteString("```")
	buf.WriteString(language)
	buf.WriteString("\n")
	buf.Write(bytes.TrimRight(src, "\n"))
	buf.WriteString("\n```\n")
	return buf.String()
}
