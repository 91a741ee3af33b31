package scan_test

import (
	"testing"

	"github.com/canonbase/canon"
	"github.com/canonbase/canon/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_CategoryDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		relPath  string
		category string
		docType  canon.DocType
	}{
		{
			name:     "category binding",
			relPath:  "bindings/categories/typescript/no-any.md",
			category: "typescript",
			docType:  canon.TypeBinding,
		},
		{
			name:     "core binding",
			relPath:  "bindings/core/pure-functions.md",
			category: "core",
			docType:  canon.TypeBinding,
		},
		{
			name:     "tenet",
			relPath:  "tenets/simplicity.md",
			category: "tenets",
			docType:  canon.TypeTenet,
		},
		{
			name:     "unclassified path",
			relPath:  "notes/scratch.md",
			category: "unknown",
			docType:  canon.TypeUnknown,
		},
		{
			name:     "categories directory without name",
			relPath:  "bindings/categories/orphan.md",
			category: "unknown",
			docType:  canon.TypeBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeDoc(t, t.TempDir(), tt.relPath, "# Doc\n\nBody.\n")

			s := scan.NewScanner(nil)
			doc, ok := s.ScanDocument(path)

			require.True(t, ok)
			assert.Equal(t, tt.category, doc.Category)
			assert.Equal(t, tt.docType, doc.Type)
		})
	}
}

func TestScanner_TitleDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		relPath string
		content string
		title   string
	}{
		{
			name:    "first heading wins",
			relPath: "tenets/a.md",
			content: "# First\n\n## Second\n",
			title:   "First",
		},
		{
			name:    "subheading counts",
			relPath: "tenets/b.md",
			content: "intro text\n\n## Details\n",
			title:   "Details",
		},
		{
			name:    "bare hash skipped",
			relPath: "tenets/c.md",
			content: "#\n# Real Title\n",
			title:   "Real Title",
		},
		{
			name:    "hyphenated filename fallback",
			relPath: "bindings/core/automated-testing.md",
			content: "no headings here\n",
			title:   "Automated Testing",
		},
		{
			name:    "underscored filename fallback",
			relPath: "tenets/error_handling_guide.md",
			content: "no headings here\n",
			title:   "Error Handling Guide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeDoc(t, t.TempDir(), tt.relPath, tt.content)

			s := scan.NewScanner(nil)
			doc, ok := s.ScanDocument(path)

			require.True(t, ok)
			assert.Equal(t, tt.title, doc.Title)
		})
	}
}

func TestScanner_PreviewSkipsHeadingsAndBlanks(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "tenets/mixed.md",
		"---\nid: mixed\n---\n# Title\n\nFirst sentence.\n\n## Section\nSecond sentence.\n")

	s := scan.NewScanner(nil)
	doc, ok := s.ScanDocument(path)

	require.True(t, ok)
	assert.Equal(t, "First sentence. Second sentence.", doc.Preview)
}

func TestScanner_FrontMatterVariants(t *testing.T) {
	t.Parallel()

	t.Run("crlf line endings", func(t *testing.T) {
		t.Parallel()

		path := writeDoc(t, t.TempDir(), "tenets/crlf.md",
			"---\r\nid: crlf-doc\r\n---\r\n# CRLF\r\n\r\nWindows checkout.\r\n")

		s := scan.NewScanner(nil)
		doc, ok := s.ScanDocument(path)

		require.True(t, ok)
		assert.Equal(t, "crlf-doc", doc.ID)
		assert.Equal(t, "CRLF", doc.Title)
		assert.Equal(t, "Windows checkout.", doc.Preview)
	})

	t.Run("empty block", func(t *testing.T) {
		t.Parallel()

		path := writeDoc(t, t.TempDir(), "tenets/empty-header.md", "---\n---\n# Empty Header\n")

		s := scan.NewScanner(nil)
		doc, ok := s.ScanDocument(path)

		require.True(t, ok)
		assert.Equal(t, "empty-header", doc.ID)
		assert.Equal(t, "Empty Header", doc.Title)
	})

	t.Run("closing delimiter at end of file", func(t *testing.T) {
		t.Parallel()

		path := writeDoc(t, t.TempDir(), "tenets/header-only.md", "---\nid: header-only\n---")

		s := scan.NewScanner(nil)
		doc, ok := s.ScanDocument(path)

		require.True(t, ok)
		assert.Equal(t, "header-only", doc.ID)
		assert.Equal(t, "Header Only", doc.Title)
		assert.Empty(t, doc.Preview)
	})
}
