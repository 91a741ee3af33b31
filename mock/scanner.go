package mock

import (
	"context"

	"github.com/canonbase/canon"
)

var _ canon.DocumentScanner = (*DocumentScanner)(nil)

// DocumentScanner is a mock implementation of canon.DocumentScanner.
type DocumentScanner struct {
	DiscoverPathsFn func(root string) []string
	ScanDocumentFn  func(path string) (*canon.Document, bool)
	ScanDocumentsFn func(ctx context.Context, paths []string) []*canon.Document
	StatsFn         func() canon.ScanStats
}

func (s *DocumentScanner) DiscoverPaths(root string) []string {
	return s.DiscoverPathsFn(root)
}

func (s *DocumentScanner) ScanDocument(path string) (*canon.Document, bool) {
	return s.ScanDocumentFn(path)
}

func (s *DocumentScanner) ScanDocuments(ctx context.Context, paths []string) []*canon.Document {
	return s.ScanDocumentsFn(ctx, paths)
}

func (s *DocumentScanner) Stats() canon.ScanStats {
	return s.StatsFn()
}
