package canon_test

import (
	"testing"

	"github.com/canonbase/canon"
	"github.com/stretchr/testify/assert"
)

func TestFormatDocuments(t *testing.T) {
	t.Parallel()

	t.Run("formats single document with title", func(t *testing.T) {
		t.Parallel()

		docs := []*canon.Document{
			{Title: "Testing Guide", Content: []byte("Every change ships with a test.")},
		}

		result := canon.FormatDocuments(docs)

		expected := "## Document: Testing Guide\nEvery change ships with a test."
		assert.Equal(t, expected, result)
	})

	t.Run("uses document id when title is empty", func(t *testing.T) {
		t.Parallel()

		docs := []*canon.Document{
			{ID: "go/errors", Content: []byte("Wrap errors with context.")},
		}

		result := canon.FormatDocuments(docs)

		expected := "## Document: go/errors\nWrap errors with context."
		assert.Equal(t, expected, result)
	})

	t.Run("formats multiple documents with blank line separator", func(t *testing.T) {
		t.Parallel()

		docs := []*canon.Document{
			{Title: "Doc One", Content: []byte("First content.")},
			{Title: "Doc Two", Content: []byte("Second content.")},
		}

		result := canon.FormatDocuments(docs)

		expected := "## Document: Doc One\nFirst content.\n\n## Document: Doc Two\nSecond content."
		assert.Equal(t, expected, result)
	})

	t.Run("returns empty string for empty slice", func(t *testing.T) {
		t.Parallel()

		result := canon.FormatDocuments([]*canon.Document{})

		assert.Empty(t, result)
	})
}
