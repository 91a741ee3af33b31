package cache

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

const (
	// fuzzyMinQueryLen is the shortest query eligible for fuzzy matching.
	fuzzyMinQueryLen = 3

	// fuzzyLengthWindow restricts fuzzy comparison to word pairs whose
	// lengths differ by at most this many runes, bounding comparison
	// cost.
	fuzzyLengthWindow = 3

	// maxFuzzyDistance is the largest edit distance that still scores.
	maxFuzzyDistance = 3
)

// levenshtein returns the edit distance between a and b, computed over
// runes with a single rolling row.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cur := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, prev+cost)
			prev = cur
		}
	}
	return row[len(rb)]
}

// fuzzyScore maps an edit distance to a relevance score.
func fuzzyScore(dist int) float64 {
	switch dist {
	case 0:
		return 90
	case 1:
		return 75
	case 2:
		return 60
	case 3:
		return 40
	default:
		return 0
	}
}

// bestFuzzy returns the score for the closest query-word/field-word pair,
// or 0 when no pair is close enough.
func bestFuzzy(queryWords, fieldWords []string) float64 {
	best := -1
	for _, q := range queryWords {
		qLen := utf8.RuneCountInString(q)
		for _, w := range fieldWords {
			diff := qLen - utf8.RuneCountInString(w)
			if diff > fuzzyLengthWindow || diff < -fuzzyLengthWindow {
				continue
			}
			d := levenshtein(q, w)
			if d > maxFuzzyDistance {
				continue
			}
			if best < 0 || d < best {
				best = d
			}
		}
	}
	if best < 0 {
		return 0
	}
	return fuzzyScore(best)
}

// wordsOf splits s into word tokens using Unicode word segmentation,
// preserving case and dropping whitespace and punctuation tokens.
func wordsOf(s string) []string {
	var tokens []string
	iter := words.FromString(s)
	for iter.Next() {
		tok := iter.Value()
		if !strings.ContainsFunc(tok, isWordRune) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// tokenize is wordsOf lowercased, for case-insensitive comparison.
func tokenize(s string) []string {
	tokens := wordsOf(s)
	for i, tok := range tokens {
		tokens[i] = strings.ToLower(tok)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
