package canon

import (
	"context"
	"time"
)

// SearchResult pairs a matched document with its relevance score.
type SearchResult struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
	Category string    `json:"category"`
}

// OpStats aggregates latencies for one cache operation kind. Recent holds
// at most the last 100 samples, newest last.
type OpStats struct {
	Count  int             `json:"count"`
	Min    time.Duration   `json:"min"`
	Max    time.Duration   `json:"max"`
	Total  time.Duration   `json:"total"`
	Recent []time.Duration `json:"recent"`
}

// Avg returns the mean latency over all recorded samples.
func (s OpStats) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// PerfReport summarizes recorded cache operation latencies against the
// performance target.
type PerfReport struct {
	Ops            map[string]OpStats `json:"ops"`
	Target         time.Duration      `json:"target"`
	AllUnderTarget bool               `json:"allUnderTarget"`
}

// CacheStats reports cache occupancy and effectiveness counters.
type CacheStats struct {
	Documents   int   `json:"documents"`
	Categories  int   `json:"categories"`
	MemoryBytes int64 `json:"memoryBytes"`
	MaxMemory   int64 `json:"maxMemory"`
	ScanHits    int64 `json:"scanHits"`
	ScanMisses  int64 `json:"scanMisses"`
	Evictions   int64 `json:"evictions"`
	Compressed  int   `json:"compressed"`
}

// DocumentCache answers category and search queries over scanned standards
// documents.
//
// Discovery or cache failures never propagate to callers: the worst outcome
// of any query is a smaller or stale result set plus a logged diagnostic.
type DocumentCache interface {
	// Categories returns all known category names, sorted. The index is
	// built on first access.
	Categories(ctx context.Context) []string

	// DocumentsForCategory returns the category's documents sorted by
	// title. Unknown categories yield an empty slice.
	DocumentsForCategory(ctx context.Context, name string) []*Document

	// Search returns matches ordered by descending relevance score.
	// A blank query yields an empty result.
	Search(ctx context.Context, query string) []SearchResult

	// SuggestCorrections returns up to max (3 when max <= 0) candidate
	// strings close to query by edit distance, nearest first.
	SuggestCorrections(ctx context.Context, query string, max int) []string

	// PerformanceReport returns recorded per-operation latencies.
	PerformanceReport() PerfReport

	// Stats returns occupancy and hit/miss counters.
	Stats() CacheStats

	// Invalidate discards the index; the next query rescans.
	Invalidate()

	// Refresh re-discovers paths and rescans only documents whose
	// modification time advanced; records for vanished files are dropped.
	Refresh(ctx context.Context)

	// Warm asynchronously pre-populates the index off the critical path.
	// Failures are swallowed; completion is observable via Warmed.
	Warm(ctx context.Context)

	// Warmed reports whether a warm-up pass has completed.
	Warmed() bool
}
