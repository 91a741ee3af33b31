package scan

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/canonbase/canon"
)

const (
	// previewLimit is the preview assembly target in characters.
	previewLimit = 200

	previewMarker = "..."
)

// headingTitle returns the text of the first Markdown heading line, or ""
// when the body has none.
func headingTitle(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		if title := strings.TrimSpace(strings.TrimLeft(trimmed, "#")); title != "" {
			return title
		}
	}
	return ""
}

// titleFromFilename derives a display title from the file name, replacing
// separators with spaces and capitalizing each word.
func titleFromFilename(path string) string {
	words := strings.FieldsFunc(fileStem(path), func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

// buildPreview assembles roughly previewLimit characters of leading prose,
// skipping headings and blank lines. Overlong previews are trimmed to the
// last whitespace boundary and marked as truncated.
func buildPreview(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(trimmed)
		if b.Len() >= previewLimit {
			break
		}
	}

	preview := b.String()
	if len(preview) <= previewLimit {
		return preview
	}
	cut := strings.LastIndexFunc(preview[:previewLimit], unicode.IsSpace)
	if cut <= 0 {
		cut = previewLimit
	}
	return strings.TrimRightFunc(preview[:cut], unicode.IsSpace) + previewMarker
}

// deriveCategoryType classifies a document from its path segments. Documents
// under categories/<name>/ belong to <name>; core/ and tenets/ form their
// own categories; tenets/ and bindings/ fix the document type.
func deriveCategoryType(path string) (string, canon.DocType) {
	category := "unknown"
	docType := canon.TypeUnknown

	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, segment := range segments {
		switch segment {
		case "categories":
			if i+1 < len(segments)-1 {
				category = segments[i+1]
			}
		case "core":
			category = "core"
		case "tenets":
			category = "tenets"
			docType = canon.TypeTenet
		case "bindings":
			docType = canon.TypeBinding
		}
	}
	return category, docType
}
