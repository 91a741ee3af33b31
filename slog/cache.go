// Package slog provides logging decorators for canon services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/canonbase/canon"
)

// Ensure LoggingCache implements canon.DocumentCache.
var _ canon.DocumentCache = (*LoggingCache)(nil)

// LoggingCache wraps a DocumentCache with debug logging for queries.
type LoggingCache struct {
	next   canon.DocumentCache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next canon.DocumentCache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Categories delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) Categories(ctx context.Context) (names []string) {
	defer func(begin time.Time) {
		c.logger.Debug("category listing",
			"count", len(names),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.Categories(ctx)
}

// DocumentsForCategory delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) DocumentsForCategory(ctx context.Context, name string) (docs []*canon.Document) {
	defer func(begin time.Time) {
		c.logger.Debug("category lookup",
			"category", name,
			"count", len(docs),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.DocumentsForCategory(ctx, name)
}

// Search delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) Search(ctx context.Context, query string) (results []canon.SearchResult) {
	defer func(begin time.Time) {
		c.logger.Debug("document search",
			"query", query,
			"results", len(results),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.Search(ctx, query)
}

// SuggestCorrections delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) SuggestCorrections(ctx context.Context, query string, max int) (suggestions []string) {
	defer func(begin time.Time) {
		c.logger.Debug("correction suggestions",
			"query", query,
			"count", len(suggestions),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.SuggestCorrections(ctx, query, max)
}

// PerformanceReport delegates to the wrapped cache.
func (c *LoggingCache) PerformanceReport() canon.PerfReport {
	return c.next.PerformanceReport()
}

// Stats delegates to the wrapped cache.
func (c *LoggingCache) Stats() canon.CacheStats {
	return c.next.Stats()
}

// Invalidate delegates to the wrapped cache.
func (c *LoggingCache) Invalidate() {
	c.next.Invalidate()
}

// Refresh delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) Refresh(ctx context.Context) {
	defer func(begin time.Time) {
		c.logger.Debug("cache refresh",
			"duration", time.Since(begin),
		)
	}(time.Now())
	c.next.Refresh(ctx)
}

// Warm delegates to the wrapped cache.
func (c *LoggingCache) Warm(ctx context.Context) {
	c.next.Warm(ctx)
}

// Warmed delegates to the wrapped cache.
func (c *LoggingCache) Warmed() bool {
	return c.next.Warmed()
}
