package cache

import (
	"cmp"
	"slices"
	"strings"
)

const (
	defaultMaxSuggestions = 3

	// maxSuggestDistance is the absolute edit distance ceiling for a
	// suggestion candidate. Candidates must also be closer than the
	// query's own length.
	maxSuggestDistance = 3
)

type candidate struct {
	display string
	dist    int
}

// suggestLocked collects document titles and title words within small edit
// distance of query, nearest first.
func (c *Cache) suggestLocked(query string, max int) []string {
	qLower := strings.ToLower(query)
	qLen := runeLen(qLower)

	seen := make(map[string]candidate)
	consider := func(display string) {
		lower := strings.ToLower(display)
		dist := levenshtein(qLower, lower)
		if dist > maxSuggestDistance || dist >= qLen {
			return
		}
		if cur, ok := seen[lower]; !ok || dist < cur.dist {
			seen[lower] = candidate{display: display, dist: dist}
		}
	}

	for _, e := range c.entries {
		consider(e.doc.Title)
		for _, word := range wordsOf(e.doc.Title) {
			consider(word)
		}
	}

	candidates := make([]candidate, 0, len(seen))
	for _, cand := range seen {
		candidates = append(candidates, cand)
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		if d := cmp.Compare(a.dist, b.dist); d != 0 {
			return d
		}
		return strings.Compare(a.display, b.display)
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	suggestions := make([]string, len(candidates))
	for i, cand := range candidates {
		suggestions[i] = cand.display
	}
	return suggestions
}
