package mock

import (
	"context"

	"github.com/canonbase/canon"
)

var _ canon.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of canon.SnapshotStore.
type SnapshotStore struct {
	SaveSnapshotFn func(ctx context.Context, docs []*canon.Document) error
	LoadSnapshotFn func(ctx context.Context) ([]*canon.Document, error)
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, docs []*canon.Document) error {
	return s.SaveSnapshotFn(ctx, docs)
}

func (s *SnapshotStore) LoadSnapshot(ctx context.Context) ([]*canon.Document, error) {
	return s.LoadSnapshotFn(ctx)
}
