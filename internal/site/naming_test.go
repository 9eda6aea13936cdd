package site

import "testing"

func TestFolderPageName(t *testing.T) {
	if got := folderPageName("virtual-wardrobe"); got != "virtual-wardrobe.md" {
		t.Errorf("folderPageName = %q", got)
	}
}

func TestLoosePageName(t *testing.T) {
	cases := []struct {
		rel  string
		want string
	}{
		{"bar.py", "bar.md"},
		{"notes.md", "notes.md"},
		{"aws/bar.py", "aws-bar.md"},
		{"aws/deep/util.py", "aws-deep-util.md"},
	}
	for _, c := range cases {
		if got := loosePageName(c.rel); got != c.want {
			t.Errorf("loosePageName(%q) = %q, want %q", c.rel, got, c.want)
		}
	}
}

func TestLanguageFor(t *testing.T) {
	cases := map[string]string{
		".py": "python",
		".md": "markdown",
		".sh": "sh",
	}
	for ext, want := range cases {
		if got := languageFor(ext); got != want {
			t.Errorf("languageFor(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"virtual-wardrobe":  "Virtual Wardrobe",
		"voice_health_bot":  "Voice Health Bot",
		"single":            "Single",
		"mixed-case_words":  "Mixed Case Words",
	}
	for in, want := range cases {
		if got := humanize(in); got != want {
			t.Errorf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
