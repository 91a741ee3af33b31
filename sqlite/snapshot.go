package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canonbase/canon"
)

// Compile-time interface verification.
var _ canon.SnapshotStore = (*SnapshotService)(nil)

// SnapshotService implements canon.SnapshotStore using SQLite. The snapshot
// is a full copy of the scanned metadata index; each save replaces the
// previous snapshot wholesale.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// SaveSnapshot atomically replaces the stored snapshot with docs, preserving
// their order.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, docs []*canon.Document) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_snapshots"); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	for i, doc := range docs {
		frontMatter := ""
		if doc.FrontMatter != (canon.FrontMatter{}) {
			encoded, err := json.Marshal(doc.FrontMatter)
			if err != nil {
				return fmt.Errorf("failed to encode front matter for %s: %w", doc.Path, err)
			}
			frontMatter = string(encoded)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document_snapshots (position, path, doc_id, title, category, doc_type, front_matter, preview, content_hash, size, modified_at, scanned_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, i, doc.Path, doc.ID, doc.Title, doc.Category, string(doc.Type), frontMatter, doc.Preview,
			doc.ContentHash, doc.Size, formatTimestamp(doc.ModifiedAt), formatTimestamp(doc.ScannedAt)); err != nil {
			return fmt.Errorf("failed to insert snapshot row for %s: %w", doc.Path, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored snapshot in saved order, empty when no
// snapshot exists.
func (s *SnapshotService) LoadSnapshot(ctx context.Context) ([]*canon.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, doc_id, title, category, doc_type, front_matter, preview, content_hash, size, modified_at, scanned_at
		FROM document_snapshots
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*canon.Document
	for rows.Next() {
		var doc canon.Document
		var docType, frontMatter, modifiedAt, scannedAt string

		if err := rows.Scan(&doc.Path, &doc.ID, &doc.Title, &doc.Category, &docType,
			&frontMatter, &doc.Preview, &doc.ContentHash, &doc.Size, &modifiedAt, &scannedAt); err != nil {
			return nil, err
		}

		doc.Type = canon.DocType(docType)
		if frontMatter != "" {
			if err := json.Unmarshal([]byte(frontMatter), &doc.FrontMatter); err != nil {
				return nil, fmt.Errorf("failed to decode front matter for %s: %w", doc.Path, err)
			}
		}
		doc.ModifiedAt, err = parseTimestamp(modifiedAt, "modified_at")
		if err != nil {
			return nil, err
		}
		doc.ScannedAt, err = parseTimestamp(scannedAt, "scanned_at")
		if err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}
