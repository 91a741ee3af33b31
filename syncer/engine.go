// Package syncer distributes standards documents from a source repository
// into a consumer directory and reconciles the distributed copies against
// the sync ledger.
package syncer

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/canonbase/canon"
	"github.com/cespare/xxhash/v2"
)

// Engine orchestrates sync, status, diff, and update between a standards
// source tree and a consumer target directory.
type Engine struct {
	Source  string
	Target  string
	Scanner canon.DocumentScanner
	Ledger  canon.SyncLedger

	// Blobs receives pristine copies keyed by content hash so Diff can
	// recover the synced baseline later. Optional.
	Blobs canon.ContentStore

	// Categories restricts Sync to the named categories. Empty means all.
	// Pruning is disabled for filtered syncs.
	Categories []string

	Logger *slog.Logger
}

// Result holds the outcome of a sync operation.
type Result struct {
	Synced  int
	Skipped int
	Pruned  int
	Failed  int
	Bytes   int
}

// UpdateResult holds the outcome of an update operation.
type UpdateResult struct {
	Updated int
	Skipped int
	Failed  int
}

// ProgressEvent reports progress during a sync or update operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting sync progress.
type ProgressFunc func(event ProgressEvent)

// Sync copies every discovered source document into the target directory,
// records each copy in the ledger, and prunes records for documents the
// source no longer provides. Target files whose content deviates from the
// ledger baseline are skipped with a warning unless force is set.
// Per-document failures are counted and do not abort the batch.
func (e *Engine) Sync(ctx context.Context, force bool, progress ProgressFunc) (*Result, error) {
	paths := e.Scanner.DiscoverPaths(e.Source)
	docs := e.filterByCategory(e.Scanner.ScanDocuments(ctx, paths))
	if len(docs) == 0 {
		return nil, canon.Errorf(canon.EINVALID, "no standards documents found under %s", e.Source)
	}

	total := len(docs)
	emit(progress, ProgressEvent{Type: ProgressStarted, Total: total})

	result := &Result{}
	current := make(map[string]bool, len(docs))
	completed := 0
	for _, doc := range docs {
		completed++
		rel, err := filepath.Rel(e.Source, doc.Path)
		if err != nil {
			result.Failed++
			emit(progress, ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, Path: doc.Path, Error: err})
			continue
		}
		relPath := filepath.ToSlash(rel)
		current[relPath] = true

		if !force && e.foreignTarget(ctx, doc, relPath) {
			e.logger().Warn("locally modified, skipped", "path", relPath)
			result.Skipped++
			emit(progress, ProgressEvent{Type: ProgressSkipped, Completed: completed, Total: total, Path: relPath})
			continue
		}

		if err := e.writeDocument(ctx, doc, relPath); err != nil {
			e.logger().Warn("sync failed", "path", relPath, "error", err)
			result.Failed++
			emit(progress, ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, Path: relPath, Error: err})
			continue
		}

		result.Synced++
		result.Bytes += len(doc.Content)
		emit(progress, ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, Path: relPath})
	}

	// An interrupted scan yields a partial document set; pruning against it
	// would delete records for documents that were never considered.
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if len(e.Categories) == 0 {
		if err := e.prune(ctx, current, result); err != nil {
			return result, err
		}
	}

	emit(progress, ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// Status compares every ledger record against the target directory and
// reports per-file drift, sorted by relative path.
func (e *Engine) Status(ctx context.Context) (*canon.DriftReport, error) {
	rows, err := e.Ledger.FindSyncedDocuments(ctx, canon.SyncedDocumentFilter{})
	if err != nil {
		return nil, err
	}

	report := &canon.DriftReport{Target: e.Target}
	tracked := make(map[string]bool, len(rows))
	for _, row := range rows {
		tracked[row.RelPath] = true
		drift := canon.Drift{RelPath: row.RelPath, Doc: row}

		content, err := os.ReadFile(e.targetPath(row.RelPath))
		switch {
		case errors.Is(err, os.ErrNotExist):
			drift.State = canon.DriftMissing
			report.Missing++
		case err != nil:
			e.logger().Warn("synced file unreadable", "path", row.RelPath, "error", err)
			drift.State = canon.DriftMissing
			report.Missing++
		case fingerprint(content) == row.Fingerprint:
			drift.State = canon.DriftUnchanged
			report.Unchanged++
		default:
			drift.State = canon.DriftModified
			report.Modified++
		}
		report.Drifts = append(report.Drifts, drift)
	}

	for _, relPath := range e.targetFiles() {
		if tracked[relPath] {
			continue
		}
		report.Drifts = append(report.Drifts, canon.Drift{RelPath: relPath, State: canon.DriftUntracked})
		report.Untracked++
	}

	slices.SortFunc(report.Drifts, func(a, b canon.Drift) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return report, nil
}

// Update re-copies tracked documents whose source content changed and
// restores missing copies. Locally modified copies are skipped with a
// warning unless force is set; no merging is attempted.
func (e *Engine) Update(ctx context.Context, force bool, progress ProgressFunc) (*UpdateResult, error) {
	rows, err := e.Ledger.FindSyncedDocuments(ctx, canon.SyncedDocumentFilter{})
	if err != nil {
		return nil, err
	}

	paths := e.Scanner.DiscoverPaths(e.Source)
	byRel := make(map[string]*canon.Document)
	for _, doc := range e.Scanner.ScanDocuments(ctx, paths) {
		if rel, err := filepath.Rel(e.Source, doc.Path); err == nil {
			byRel[filepath.ToSlash(rel)] = doc
		}
	}

	total := len(rows)
	emit(progress, ProgressEvent{Type: ProgressStarted, Total: total})

	result := &UpdateResult{}
	completed := 0
	for _, row := range rows {
		completed++

		doc, ok := byRel[row.RelPath]
		if !ok {
			// The source no longer provides this document; leave the
			// copy alone until the next full sync prunes it.
			e.logger().Debug("source document gone", "path", row.RelPath)
			result.Skipped++
			emit(progress, ProgressEvent{Type: ProgressSkipped, Completed: completed, Total: total, Path: row.RelPath})
			continue
		}

		current, err := os.ReadFile(e.targetPath(row.RelPath))
		missing := errors.Is(err, os.ErrNotExist)
		if err != nil && !missing {
			result.Failed++
			emit(progress, ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, Path: row.RelPath, Error: err})
			continue
		}

		locallyModified := !missing && fingerprint(current) != row.Fingerprint
		upToDate := !missing && !locallyModified && doc.ContentHash == row.ContentHash

		switch {
		case upToDate:
			result.Skipped++
			emit(progress, ProgressEvent{Type: ProgressSkipped, Completed: completed, Total: total, Path: row.RelPath})

		case locallyModified && !force:
			e.logger().Warn("locally modified, skipped", "path", row.RelPath)
			result.Skipped++
			emit(progress, ProgressEvent{Type: ProgressSkipped, Completed: completed, Total: total, Path: row.RelPath})

		default:
			if err := e.writeDocument(ctx, doc, row.RelPath); err != nil {
				e.logger().Warn("update failed", "path", row.RelPath, "error", err)
				result.Failed++
				emit(progress, ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, Path: row.RelPath, Error: err})
				continue
			}
			result.Updated++
			emit(progress, ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, Path: row.RelPath})
		}
	}

	emit(progress, ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// foreignTarget reports whether the target file at relPath holds content
// the engine did not put there: a local edit relative to the ledger
// baseline, or an untracked file from some other origin. Such files are
// preserved unless the caller forces the write.
func (e *Engine) foreignTarget(ctx context.Context, doc *canon.Document, relPath string) bool {
	current, err := os.ReadFile(e.targetPath(relPath))
	if err != nil {
		return false
	}
	if bytes.Equal(current, doc.Content) {
		return false
	}
	row, err := e.Ledger.FindSyncedDocumentByPath(ctx, relPath)
	if err != nil {
		// No baseline to compare against, so keep the file.
		return true
	}
	return fingerprint(current) != row.Fingerprint
}

// writeDocument copies doc's content under the target tree and records the
// copy in the ledger. The pristine bytes also go to the blob store so Diff
// can recover the baseline later.
func (e *Engine) writeDocument(ctx context.Context, doc *canon.Document, relPath string) error {
	if e.Blobs != nil && len(doc.Content) > 0 {
		if _, err := e.Blobs.Put(doc.Content); err != nil {
			e.logger().Warn("baseline blob store failed", "path", relPath, "error", err)
		}
	}

	targetPath := e.targetPath(relPath)
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	if err := os.WriteFile(targetPath, doc.Content, 0644); err != nil {
		return fmt.Errorf("write target file: %w", err)
	}

	return e.Ledger.UpsertSyncedDocument(ctx, &canon.SyncedDocument{
		RelPath:     relPath,
		DocID:       doc.ID,
		Category:    doc.Category,
		Type:        doc.Type,
		Version:     doc.FrontMatter.Version,
		ContentHash: doc.ContentHash,
		Fingerprint: fingerprint(doc.Content),
		Size:        int64(len(doc.Content)),
	})
}

// prune deletes ledger records, and unmodified target copies, for documents
// absent from the current source set. Locally modified copies stay on disk
// and simply become untracked.
func (e *Engine) prune(ctx context.Context, current map[string]bool, result *Result) error {
	rows, err := e.Ledger.FindSyncedDocuments(ctx, canon.SyncedDocumentFilter{})
	if err != nil {
		return err
	}

	for _, row := range rows {
		if current[row.RelPath] {
			continue
		}

		targetPath := e.targetPath(row.RelPath)
		if content, err := os.ReadFile(targetPath); err == nil {
			if fingerprint(content) != row.Fingerprint {
				e.logger().Warn("locally modified, left untracked", "path", row.RelPath)
			} else if err := os.Remove(targetPath); err != nil {
				// Keep the record so the next sync retries the removal.
				e.logger().Warn("prune failed", "path", row.RelPath, "error", err)
				continue
			}
		}

		if err := e.Ledger.DeleteSyncedDocument(ctx, row.RelPath); err != nil {
			e.logger().Warn("ledger delete failed", "path", row.RelPath, "error", err)
			continue
		}
		result.Pruned++
	}
	return nil
}

func (e *Engine) filterByCategory(docs []*canon.Document) []*canon.Document {
	if len(e.Categories) == 0 {
		return docs
	}
	var filtered []*canon.Document
	for _, doc := range docs {
		if slices.Contains(e.Categories, doc.Category) {
			filtered = append(filtered, doc)
		}
	}
	return filtered
}

// targetFiles lists markdown files under the target directory as slash-form
// relative paths. A missing target directory contributes nothing.
func (e *Engine) targetFiles() []string {
	var files []string
	err := filepath.WalkDir(e.Target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		if rel, err := filepath.Rel(e.Target, path); err == nil {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger().Warn("target walk failed", "target", e.Target, "error", err)
	}
	return files
}

func (e *Engine) targetPath(relPath string) string {
	return filepath.Join(e.Target, filepath.FromSlash(relPath))
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func emit(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

// fingerprint returns the xxHash of content as a hex string. Cheaper than a
// cryptographic hash and sufficient for drift detection.
func fingerprint(content []byte) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64(content))
	return hex.EncodeToString(b[:])
}
