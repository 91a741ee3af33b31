package mock

import (
	"context"

	"github.com/canonbase/canon"
)

var _ canon.DocumentCache = (*DocumentCache)(nil)

// DocumentCache is a mock implementation of canon.DocumentCache.
type DocumentCache struct {
	CategoriesFn           func(ctx context.Context) []string
	DocumentsForCategoryFn func(ctx context.Context, name string) []*canon.Document
	SearchFn               func(ctx context.Context, query string) []canon.SearchResult
	SuggestCorrectionsFn   func(ctx context.Context, query string, max int) []string
	PerformanceReportFn    func() canon.PerfReport
	StatsFn                func() canon.CacheStats
	InvalidateFn           func()
	RefreshFn              func(ctx context.Context)
	WarmFn                 func(ctx context.Context)
	WarmedFn               func() bool
}

func (c *DocumentCache) Categories(ctx context.Context) []string {
	return c.CategoriesFn(ctx)
}

func (c *DocumentCache) DocumentsForCategory(ctx context.Context, name string) []*canon.Document {
	return c.DocumentsForCategoryFn(ctx, name)
}

func (c *DocumentCache) Search(ctx context.Context, query string) []canon.SearchResult {
	return c.SearchFn(ctx, query)
}

func (c *DocumentCache) SuggestCorrections(ctx context.Context, query string, max int) []string {
	return c.SuggestCorrectionsFn(ctx, query, max)
}

func (c *DocumentCache) PerformanceReport() canon.PerfReport {
	return c.PerformanceReportFn()
}

func (c *DocumentCache) Stats() canon.CacheStats {
	return c.StatsFn()
}

func (c *DocumentCache) Invalidate() {
	c.InvalidateFn()
}

func (c *DocumentCache) Refresh(ctx context.Context) {
	c.RefreshFn(ctx)
}

func (c *DocumentCache) Warm(ctx context.Context) {
	c.WarmFn(ctx)
}

func (c *DocumentCache) Warmed() bool {
	return c.WarmedFn()
}
