// Package extract pulls titles, descriptions, and metadata sections out of
// markdown documents. It walks the goldmark AST rather than splitting on
// heading markers, so "##" lines inside fenced code blocks are never
// mistaken for section headings.
package extract

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Section headings recognized in source documents (matched case-insensitively).
const (
	sectionTags         = "tags"
	sectionTechnologies = "technologies"
	sectionDifficulty   = "difficulty"
	sectionOverview     = "overview"
)

// Result holds the output of extracting a markdown document. String and
// slice fields are empty when the source carries no corresponding data;
// fallback values are the caller's concern.
type Result struct {
	Title        string
	Description  string // first paragraph after the title
	Overview     string // first paragraph under "## Overview", if present
	Tags         []string
	Technologies []string
	Difficulty   string
	Body         string // source with any leading front matter stripped
}

// sourceMatter is the set of front matter keys honored as overrides when a
// source document already carries a YAML front matter block.
type sourceMatter struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Tags         []string `yaml:"tags"`
	Technologies []string `yaml:"technologies"`
	Difficulty   string   `yaml:"difficulty"`
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse extracts metadata from raw markdown bytes. It never fails on
// malformed input: unparseable front matter is treated as body, and missing
// sections leave their fields empty.
func Parse(data []byte) *Result {
	var matter sourceMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &matter)
	if err != nil {
		// Invalid front matter: treat the entire content as body.
		matter = sourceMatter{}
		body = data
	}

	res := &Result{Body: string(body)}

	doc := md.Parser().Parse(text.NewReader(body))
	scanDocument(doc, body, res)

	applyOverrides(res, matter)
	return res
}

// scanDocument walks the top-level blocks of the document, filling in the
// title, first paragraph, and recognized "##" sections.
func scanDocument(doc ast.Node, src []byte, res *Result) {
	var section string // current level-2 section name, lowercased
	var sawTitle bool  // a level-1 heading has been seen
	var sawDesc bool   // the description paragraph has been captured
	var sectionTexts []string

	flush := func() {
		switch section {
		case sectionTags:
			for _, t := range sectionTexts {
				res.Tags = append(res.Tags, splitValues(t)...)
			}
		case sectionTechnologies:
			for _, t := range sectionTexts {
				res.Technologies = append(res.Technologies, splitValues(t)...)
			}
		case sectionDifficulty:
			if res.Difficulty == "" {
				for _, t := range sectionTexts {
					if f := strings.Fields(t); len(f) > 0 {
						res.Difficulty = strings.ToLower(f[0])
						break
					}
				}
			}
		case sectionOverview:
			if res.Overview == "" && len(sectionTexts) > 0 {
				res.Overview = sectionTexts[0]
			}
		}
		sectionTexts = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch b := n.(type) {
		case *ast.Heading:
			if b.Level == 1 {
				flush()
				section = ""
				if !sawTitle {
					res.Title = collapse(nodeText(b, src))
					sawTitle = true
				}
				continue
			}
			if b.Level == 2 {
				flush()
				section = strings.ToLower(strings.TrimSpace(nodeText(b, src)))
				continue
			}
			// Deeper headings end any metadata section but are otherwise ignored.
			flush()
			section = ""

		case *ast.Paragraph:
			txt := collapse(nodeText(b, src))
			if section != "" {
				if txt != "" {
					sectionTexts = append(sectionTexts, txt)
				}
				continue
			}
			// Only paragraphs after the title qualify as the description;
			// badge and notice paragraphs often precede the heading.
			if sawTitle && !sawDesc && txt != "" {
				res.Description = txt
				sawDesc = true
			}

		case *ast.List:
			if section == "" {
				continue
			}
			for item := b.FirstChild(); item != nil; item = item.NextSibling() {
				txt := collapse(nodeText(item, src))
				if txt != "" {
					sectionTexts = append(sectionTexts, txt)
				}
			}
		}
	}
	flush()

	res.Tags = dedupe(res.Tags)
	res.Technologies = dedupe(res.Technologies)
}

// applyOverrides lets explicit front matter fields win over heuristics.
func applyOverrides(res *Result, m sourceMatter) {
	if m.Title != "" {
		res.Title = m.Title
	}
	if m.Description != "" {
		res.Description = m.Description
	}
	if len(m.Tags) > 0 {
		res.Tags = dedupe(m.Tags)
	}
	if len(m.Technologies) > 0 {
		res.Technologies = dedupe(m.Technologies)
	}
	if m.Difficulty != "" {
		res.Difficulty = strings.ToLower(strings.TrimSpace(m.Difficulty))
	}
}

// nodeText renders the plain text of a block node and its children.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// splitValues breaks a section line into individual values on commas.
func splitValues(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// collapse trims s and folds internal newlines into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, v := range in {
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
