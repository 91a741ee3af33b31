package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/canonbase/canon"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ canon.SyncLedger = (*LedgerService)(nil)

// LedgerService implements canon.SyncLedger using SQLite.
type LedgerService struct {
	db *DB
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(db *DB) *LedgerService {
	return &LedgerService{db: db}
}

// UpsertSyncedDocument inserts or replaces the ledger record keyed by
// relative path. The record ID is stable across upserts; the sync timestamp
// is refreshed on every call.
func (s *LedgerService) UpsertSyncedDocument(ctx context.Context, doc *canon.SyncedDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	existing, err := s.FindSyncedDocumentByPath(ctx, doc.RelPath)
	switch {
	case err == nil:
		doc.ID = existing.ID
		doc.SyncedAt = time.Now().UTC()

		_, err = s.db.ExecContext(ctx, `
			UPDATE synced_documents
			SET doc_id = ?, category = ?, doc_type = ?, version = ?, content_hash = ?, fingerprint = ?, size = ?, synced_at = ?
			WHERE rel_path = ?
		`, doc.DocID, doc.Category, string(doc.Type), doc.Version, doc.ContentHash, doc.Fingerprint,
			doc.Size, formatTimestamp(doc.SyncedAt), doc.RelPath)
		return err

	case canon.ErrorCode(err) == canon.ENOTFOUND:
		doc.ID = uuid.New().String()
		doc.SyncedAt = time.Now().UTC()

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO synced_documents (id, rel_path, doc_id, category, doc_type, version, content_hash, fingerprint, size, synced_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, doc.ID, doc.RelPath, doc.DocID, doc.Category, string(doc.Type), doc.Version,
			doc.ContentHash, doc.Fingerprint, doc.Size, formatTimestamp(doc.SyncedAt))
		return err

	default:
		return err
	}
}

// FindSyncedDocumentByPath retrieves the record for a relative path.
func (s *LedgerService) FindSyncedDocumentByPath(ctx context.Context, relPath string) (*canon.SyncedDocument, error) {
	var doc canon.SyncedDocument
	var docType, syncedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, rel_path, doc_id, category, doc_type, version, content_hash, fingerprint, size, synced_at
		FROM synced_documents
		WHERE rel_path = ?
	`, relPath).Scan(&doc.ID, &doc.RelPath, &doc.DocID, &doc.Category, &docType,
		&doc.Version, &doc.ContentHash, &doc.Fingerprint, &doc.Size, &syncedAt)

	if err == sql.ErrNoRows {
		return nil, canon.Errorf(canon.ENOTFOUND, "synced document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.Type = canon.DocType(docType)
	doc.SyncedAt, err = parseTimestamp(syncedAt, "synced_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// FindSyncedDocuments retrieves records matching the filter, sorted by
// relative path.
func (s *LedgerService) FindSyncedDocuments(ctx context.Context, filter canon.SyncedDocumentFilter) ([]*canon.SyncedDocument, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, rel_path, doc_id, category, doc_type, version, content_hash, fingerprint, size, synced_at FROM synced_documents WHERE 1=1")

	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Type != nil {
		query.WriteString(" AND doc_type = ?")
		args = append(args, string(*filter.Type))
	}

	query.WriteString(" ORDER BY rel_path ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*canon.SyncedDocument
	for rows.Next() {
		var doc canon.SyncedDocument
		var docType, syncedAt string

		if err := rows.Scan(&doc.ID, &doc.RelPath, &doc.DocID, &doc.Category, &docType,
			&doc.Version, &doc.ContentHash, &doc.Fingerprint, &doc.Size, &syncedAt); err != nil {
			return nil, err
		}

		doc.Type = canon.DocType(docType)
		doc.SyncedAt, err = parseTimestamp(syncedAt, "synced_at")
		if err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// DeleteSyncedDocument permanently removes the record for a relative path.
func (s *LedgerService) DeleteSyncedDocument(ctx context.Context, relPath string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM synced_documents WHERE rel_path = ?", relPath)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return canon.Errorf(canon.ENOTFOUND, "synced document not found")
	}

	return nil
}
