package render

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/starford/jera/internal/page"
)

func TestDocument_FrontMatterIsValidYAML(t *testing.T) {
	fm := FromMeta(page.Meta{
		Title:       "Recipe Chatbot",
		Description: "A chatbot, with commas: and colons.",
		Tags:        []string{"bedrock", "nova"},
		Difficulty:  "medium",
	})
	doc, err := Document(fm, "# Recipe Chatbot\n\nBody.\n", "")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	parts := strings.SplitN(string(doc), "---\n", 3)
	if len(parts) != 3 || parts[0] != "" {
		t.Fatalf("missing front matter fences: %q", doc)
	}
	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(parts[1]), &parsed); err != nil {
		t.Fatalf("front matter is not valid YAML: %v", err)
	}
	if parsed["title"] != "Recipe Chatbot" {
		t.Errorf("title = %v", parsed["title"])
	}
	if parsed["difficulty"] != "medium" {
		t.Errorf("difficulty = %v", parsed["difficulty"])
	}
}

func TestDocument_NoTagsKeyWhenEmpty(t *testing.T) {
	fm := FromMeta(page.Meta{Title: "T", Description: "d", Difficulty: "medium"})
	doc, err := Document(fm, "body", "")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if bytes.Contains(doc, []byte("tags:")) {
		t.Errorf("unexpected tags key in output:\n%s", doc)
	}
	if bytes.Contains(doc, []byte("language:")) {
		t.Errorf("unexpected language key in output:\n%s", doc)
	}
}

func TestDocument_Deterministic(t *testing.T) {
	fm := FromMeta(page.Meta{
		Title:        "T",
		Description:  "d",
		Tags:         []string{"a", "b"},
		Technologies: []string{"x"},
		Difficulty:   "advanced",
		Language:     "python",
	})
	first, err := Document(fm, "body\n", "https://example.com/repo/blob/main/s.py")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	second, err := Document(fm, "body\n", "https://example.com/repo/blob/main/s.py")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("output is not byte-identical across renders")
	}
}

func TestDocument_SourceLinkAppended(t *testing.T) {
	fm := FromMeta(page.Meta{Title: "T", Description: "d", Difficulty: "medium"})
	doc, err := Document(fm, "body", "https://github.com/acme/samples/tree/main/demos/foo")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !bytes.Contains(doc, []byte("View on GitHub")) {
		t.Error("missing source link block")
	}
	if !bytes.Contains(doc, []byte(`href="https://github.com/acme/samples/tree/main/demos/foo"`)) {
		t.Errorf("missing source URL:\n%s", doc)
	}
}

func TestDocument_NoLinkBlockWithoutURL(t *testing.T) {
	fm := FromMeta(page.Meta{Title: "T", Description: "d", Difficulty: "medium"})
	doc, err := Document(fm, "body", "")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if bytes.Contains(doc, []byte("View on GitHub")) {
		t.Error("unexpected source link block")
	}
}

func TestCodeBody(t *testing.T) {
	got := CodeBody("python", []byte("print('hi')\n\n"))
	want := "```python\nprint('hi')\n```\n"
	if got != want {
		t.Errorf("CodeBody = %q, want %q", got, want)
	}
}
