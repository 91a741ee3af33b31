package main

import (
	"fmt"
	"strings"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results := deps.Cache.Search(deps.Ctx, c.Query)

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", c.Query)
		if suggestions := deps.Cache.SuggestCorrections(deps.Ctx, c.Query, 0); len(suggestions) > 0 {
			fmt.Fprintf(deps.Stdout, "Did you mean: %s?\n", strings.Join(suggestions, ", "))
		}
		return nil
	}

	for _, result := range results {
		title := result.Document.Title
		if title == "" {
			title = result.Document.ID
		}
		fmt.Fprintf(deps.Stdout, "%6.1f  %s (%s)\n        %s\n", result.Score, title, result.Category, result.Document.Path)
	}

	return nil
}
