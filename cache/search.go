package cache

import (
	"cmp"
	"slices"
	"strings"

	"github.com/canonbase/canon"
)

// Field weights for exact substring matches. The first matching field wins.
const (
	weightTitle    = 100
	weightID       = 50
	weightPreview  = 25
	weightCategory = 10
)

func exactScore(doc *canon.Document, preview, query string) float64 {
	switch {
	case strings.Contains(strings.ToLower(doc.Title), query):
		return weightTitle
	case strings.Contains(strings.ToLower(doc.ID), query):
		return weightID
	case strings.Contains(strings.ToLower(preview), query):
		return weightPreview
	case strings.Contains(strings.ToLower(doc.Category), query):
		return weightCategory
	}
	return 0
}

// fuzzyDocScore scores doc by its closest word to the query, title first.
// Preview matches score half of title matches.
func fuzzyDocScore(doc *canon.Document, preview string, queryWords []string) float64 {
	if score := bestFuzzy(queryWords, tokenize(doc.Title)); score > 0 {
		return score
	}
	if score := bestFuzzy(queryWords, tokenize(preview)); score > 0 {
		return score / 2
	}
	return 0
}

func (c *Cache) searchLocked(query string) []canon.SearchResult {
	qLower := strings.ToLower(query)

	// Fuzzy matching only engages for queries long enough to bound the
	// number of candidate word pairs.
	var queryWords []string
	if runeLen(qLower) >= fuzzyMinQueryLen {
		queryWords = tokenize(qLower)
	}

	var results []canon.SearchResult
	for _, e := range c.entries {
		preview, ok := c.comp.unpack(e.preview)
		if !ok {
			c.logger.Debug("preview decompression failed", "path", e.doc.Path)
			preview = ""
		}

		score := exactScore(&e.doc, preview, qLower)
		if score == 0 && len(queryWords) > 0 {
			score = fuzzyDocScore(&e.doc, preview, queryWords)
		}
		if score == 0 {
			continue
		}

		results = append(results, canon.SearchResult{
			Document: c.restoreDoc(e),
			Score:    score,
			Category: e.doc.Category,
		})
	}

	slices.SortFunc(results, func(a, b canon.SearchResult) int {
		if d := cmp.Compare(b.Score, a.Score); d != 0 {
			return d
		}
		return strings.Compare(a.Document.Title, b.Document.Title)
	})
	return results
}
