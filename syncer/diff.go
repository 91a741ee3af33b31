package syncer

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/canonbase/canon"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff between the synced baseline of relPath and the
// current target file. The baseline comes from the blob store by content
// hash; a missing baseline is EUNAVAILABLE. A deleted target file diffs as
// a whole-file removal, and an unmodified file yields an empty string.
func (e *Engine) Diff(ctx context.Context, relPath string) (string, error) {
	row, err := e.Ledger.FindSyncedDocumentByPath(ctx, relPath)
	if err != nil {
		return "", err
	}

	if e.Blobs == nil {
		return "", canon.Errorf(canon.EUNAVAILABLE, "sync baseline not available")
	}
	baseline, ok := e.Blobs.Get(row.ContentHash)
	if !ok {
		return "", canon.Errorf(canon.EUNAVAILABLE, "sync baseline not available")
	}

	current, err := os.ReadFile(e.targetPath(relPath))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	return renderDiff(string(baseline), string(current)), nil
}

// renderDiff computes a line-oriented diff and renders it with "-", "+",
// and space prefixes. Identical inputs yield an empty string.
func renderDiff(oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	dmp := diffmatchpatch.New()
	oldRunes, newRunes, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	var b strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range decodeLines(d.Text, lineArray) {
			b.WriteString(prefix)
			b.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// decodeLines maps a rune-encoded diff segment back to the original lines.
func decodeLines(s string, lineArray []string) []string {
	var lines []string
	for _, r := range s {
		if idx := int(r); idx >= 0 && idx < len(lineArray) {
			lines = append(lines, lineArray[idx])
		}
	}
	return lines
}
