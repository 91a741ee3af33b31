package mock

import (
	"context"

	"github.com/canonbase/canon"
)

var _ canon.SyncLedger = (*SyncLedger)(nil)

// SyncLedger is a mock implementation of canon.SyncLedger.
type SyncLedger struct {
	UpsertSyncedDocumentFn     func(ctx context.Context, doc *canon.SyncedDocument) error
	FindSyncedDocumentByPathFn func(ctx context.Context, relPath string) (*canon.SyncedDocument, error)
	FindSyncedDocumentsFn      func(ctx context.Context, filter canon.SyncedDocumentFilter) ([]*canon.SyncedDocument, error)
	DeleteSyncedDocumentFn     func(ctx context.Context, relPath string) error
}

func (l *SyncLedger) UpsertSyncedDocument(ctx context.Context, doc *canon.SyncedDocument) error {
	return l.UpsertSyncedDocumentFn(ctx, doc)
}

func (l *SyncLedger) FindSyncedDocumentByPath(ctx context.Context, relPath string) (*canon.SyncedDocument, error) {
	return l.FindSyncedDocumentByPathFn(ctx, relPath)
}

func (l *SyncLedger) FindSyncedDocuments(ctx context.Context, filter canon.SyncedDocumentFilter) ([]*canon.SyncedDocument, error) {
	return l.FindSyncedDocumentsFn(ctx, filter)
}

func (l *SyncLedger) DeleteSyncedDocument(ctx context.Context, relPath string) error {
	return l.DeleteSyncedDocumentFn(ctx, relPath)
}
