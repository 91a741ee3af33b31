package main

import (
	"fmt"
	"os"

	"github.com/canonbase/canon"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	docs := deps.Cache.DocumentsForCategory(deps.Ctx, c.Category)

	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: category %q not found. Use 'canon categories' to see available categories.\n", c.Category)
		return canon.Errorf(canon.ENOTFOUND, "category %q not found", c.Category)
	}

	if c.Full {
		for _, doc := range docs {
			doc.Content = c.hydrate(deps, doc)
		}
		fmt.Fprintln(deps.Stdout, canon.FormatDocuments(docs))
		return nil
	}

	// Print summary listing
	fmt.Fprintf(deps.Stdout, "Documents for %s (%d total):\n\n", c.Category, len(docs))
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.ID
		}
		version := doc.FrontMatter.Version
		if version == "" {
			version = "unversioned"
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s (%s)\n     %s\n", i+1, title, version, doc.Path)
	}

	return nil
}

// hydrate recovers a cached document's full content, preferring the blob
// store and falling back to the file on disk. Failures degrade to the
// preview.
func (c *DocsCmd) hydrate(deps *Dependencies, doc *canon.Document) []byte {
	if content, ok := deps.Store.Get(doc.ContentHash); ok {
		return content
	}
	if content, err := os.ReadFile(doc.Path); err == nil {
		return content
	}
	fmt.Fprintf(deps.Stderr, "warning: content for %s unavailable, showing preview\n", doc.Path)
	return []byte(doc.Preview)
}
