package site

import (
	"path"
	"strings"
	"unicode"
)

// folderPageName maps a source folder name to its collection file name
// (demos/foo/README.md → foo.md).
func folderPageName(folder string) string {
	return folder + ".md"
}

// loosePageName maps a loose source file (relative to its category root) to
// its collection file name. Nested files have their directory path joined
// with "-" (aws/bar.py → aws-bar.md).
func loosePageName(rel string) string {
	stem := strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(stem, "/", "-") + ".md"
}

// languageFor maps a file extension to the front matter language value.
func languageFor(ext string) string {
	switch ext {
	case ".py":
		return "python"
	case ".md":
		return "markdown"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

// humanize turns a folder or file name into a readable fallback title:
// "virtual-wardrobe_try-on" → "Virtual Wardrobe Try On".
func humanize(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}
