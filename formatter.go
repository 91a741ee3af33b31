package canon

import "strings"

// FormatDocuments formats documents for display, separated by blank lines.
// Uses the title if available, falls back to the document id. Content is
// rendered as stored; callers hydrate it first when the documents came from
// the metadata cache.
func FormatDocuments(docs []*Document) string {
	if len(docs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		header := doc.Title
		if header == "" {
			header = doc.ID
		}
		parts = append(parts, "## Document: "+header+"\n"+string(doc.Content))
	}

	return strings.Join(parts, "\n\n")
}
