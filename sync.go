package canon

import (
	"context"
	"time"
)

// Drift states describe how a synced document on disk relates to the ledger.
const (
	DriftUnchanged DriftState = "unchanged"
	DriftModified  DriftState = "modified"
	DriftMissing   DriftState = "missing"
	DriftUntracked DriftState = "untracked"
)

// DriftState classifies one synced file during a status check.
type DriftState string

// SyncedDocument is the ledger record for one standards file distributed
// into a target directory.
type SyncedDocument struct {
	ID          string    `json:"id"`
	RelPath     string    `json:"relPath"`
	DocID       string    `json:"docId"`
	Category    string    `json:"category"`
	Type        DocType   `json:"type"`
	Version     string    `json:"version"`
	ContentHash string    `json:"contentHash"`
	Fingerprint string    `json:"fingerprint"`
	Size        int64     `json:"size"`
	SyncedAt    time.Time `json:"syncedAt"`
}

// Validate returns an error if the synced document has missing fields.
func (d *SyncedDocument) Validate() error {
	if d.RelPath == "" {
		return Errorf(EINVALID, "relative path required")
	}
	if d.ContentHash == "" {
		return Errorf(EINVALID, "content hash required")
	}
	return nil
}

// Drift reports the state of one path relative to the ledger. Doc is nil
// for untracked paths.
type Drift struct {
	RelPath string          `json:"relPath"`
	State   DriftState      `json:"state"`
	Doc     *SyncedDocument `json:"doc,omitempty"`
}

// DriftReport is the outcome of checking a target directory against the
// ledger.
type DriftReport struct {
	Target    string  `json:"target"`
	Drifts    []Drift `json:"drifts"`
	Unchanged int     `json:"unchanged"`
	Modified  int     `json:"modified"`
	Missing   int     `json:"missing"`
	Untracked int     `json:"untracked"`
}

// SyncedDocumentFilter narrows ledger queries. Nil fields match everything.
type SyncedDocumentFilter struct {
	Category *string
	Type     *DocType

	// Limit and Offset page through results. Zero values disable paging.
	Limit  int
	Offset int
}

// SyncLedger persists the record of which documents were distributed where.
type SyncLedger interface {
	// UpsertSyncedDocument inserts or replaces the record keyed by
	// relative path, assigning an ID on insert.
	UpsertSyncedDocument(ctx context.Context, doc *SyncedDocument) error

	// FindSyncedDocumentByPath returns the record for relPath or
	// ENOTFOUND.
	FindSyncedDocumentByPath(ctx context.Context, relPath string) (*SyncedDocument, error)

	// FindSyncedDocuments returns matching records sorted by relative
	// path.
	FindSyncedDocuments(ctx context.Context, filter SyncedDocumentFilter) ([]*SyncedDocument, error)

	// DeleteSyncedDocument removes the record for relPath or returns
	// ENOTFOUND.
	DeleteSyncedDocument(ctx context.Context, relPath string) error
}

// SnapshotStore persists scanned document metadata between runs so a cold
// cache can serve queries without rescanning.
type SnapshotStore interface {
	// SaveSnapshot atomically replaces the stored snapshot.
	SaveSnapshot(ctx context.Context, docs []*Document) error

	// LoadSnapshot returns the stored snapshot, empty when none exists.
	LoadSnapshot(ctx context.Context) ([]*Document, error)
}
