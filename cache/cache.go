// Package cache provides the in-memory metadata cache over scanned
// standards documents. It orchestrates discovery and scanning, maintains
// the category index, answers search and suggestion queries, and records
// per-operation latency telemetry.
//
// Query failures never propagate: the worst outcome of any call is a
// smaller or stale result set plus a logged diagnostic.
package cache

import (
	"cmp"
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/canonbase/canon"
)

const (
	// DefaultMaxMemory is the in-memory footprint ceiling.
	DefaultMaxMemory = 10 * 1024 * 1024

	// evictTargetPct is the occupancy, as a percentage of the ceiling,
	// that eviction drains down to.
	evictTargetPct = 80

	// entryOverhead approximates the fixed per-entry cost in the memory
	// accounting.
	entryOverhead = 256
)

type state int

const (
	stateUnscanned state = iota
	stateScanning
	stateWarm
)

// Ensure Cache implements canon.DocumentCache at compile time.
var _ canon.DocumentCache = (*Cache)(nil)

// Options configures optional cache collaborators and limits.
type Options struct {
	// Store receives scanned file contents for blob persistence.
	Store canon.ContentStore

	// Snapshot persists the metadata index between runs so a cold cache
	// can classify unchanged files as hits without re-reading them.
	Snapshot canon.SnapshotStore

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	// MaxMemory is the eviction ceiling; <= 0 selects DefaultMaxMemory.
	MaxMemory int64

	// Compression enables zstd compression of large cached fields.
	Compression bool
}

// entry is one cached document record. Preview and front matter are held
// as packed fields; doc carries the remaining metadata.
type entry struct {
	doc        canon.Document
	preview    field
	meta       field
	size       int64
	seq        uint64
	compressed bool
}

// Cache holds scanned document metadata and answers category, search, and
// suggestion queries. A single mutex serializes all access, including the
// lazy scan triggered by the first query.
type Cache struct {
	scanner     canon.DocumentScanner
	root        string
	store       canon.ContentStore
	snapshot    canon.SnapshotStore
	logger      *slog.Logger
	comp        *compressor
	compression bool
	maxMemory   int64

	mu              sync.Mutex
	state           state
	entries         map[string]*entry
	byCategory      map[string][]*entry
	memory          int64
	seq             uint64
	snapshotTried   bool
	scanHits        int64
	scanMisses      int64
	evictions       int64
	compressedCount int
	telemetry       *telemetry
}

// NewCache creates a cache that discovers and scans documents under root
// using scanner.
func NewCache(scanner canon.DocumentScanner, root string, opts Options) (*Cache, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxMemory := opts.MaxMemory
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}
	comp, err := newCompressor()
	if err != nil {
		return nil, err
	}
	return &Cache{
		scanner:     scanner,
		root:        root,
		store:       opts.Store,
		snapshot:    opts.Snapshot,
		logger:      logger,
		comp:        comp,
		compression: opts.Compression,
		maxMemory:   maxMemory,
		entries:     make(map[string]*entry),
		telemetry:   newTelemetry(),
	}, nil
}

// Categories returns all known category names, sorted. The index is built
// on first access.
func (c *Cache) Categories(ctx context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.record(opListCategories, time.Now())

	c.ensureScanned(ctx)
	return slices.Sorted(maps.Keys(c.byCategory))
}

// DocumentsForCategory returns the category's documents sorted by title.
// Unknown categories yield an empty slice.
func (c *Cache) DocumentsForCategory(ctx context.Context, name string) []*canon.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.record(opShowCategory, time.Now())

	c.ensureScanned(ctx)
	entries := c.byCategory[name]
	docs := make([]*canon.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, c.restoreDoc(e))
	}
	return docs
}

// Search returns matches ordered by descending relevance score. A blank
// query yields an empty result.
func (c *Cache) Search(ctx context.Context, query string) []canon.SearchResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.record(opSearch, time.Now())

	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	c.ensureScanned(ctx)
	return c.searchLocked(query)
}

// SuggestCorrections returns up to max candidate strings close to query by
// edit distance, nearest first. max <= 0 selects the default of 3.
func (c *Cache) SuggestCorrections(ctx context.Context, query string, max int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.record(opSuggest, time.Now())

	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if max <= 0 {
		max = defaultMaxSuggestions
	}
	c.ensureScanned(ctx)
	return c.suggestLocked(query, max)
}

// PerformanceReport returns recorded per-operation latencies.
func (c *Cache) PerformanceReport() canon.PerfReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.telemetry.report()
}

// Stats returns occupancy and hit/miss counters.
func (c *Cache) Stats() canon.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return canon.CacheStats{
		Documents:   len(c.entries),
		Categories:  len(c.byCategory),
		MemoryBytes: c.memory,
		MaxMemory:   c.maxMemory,
		ScanHits:    c.scanHits,
		ScanMisses:  c.scanMisses,
		Evictions:   c.evictions,
		Compressed:  c.compressedCount,
	}
}

// Invalidate discards the derived index and forces the next query to
// rescan. Cached records are kept as the staleness baseline, so unchanged
// files are classified as hits without being re-read.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = stateUnscanned
	c.byCategory = nil
}

// Refresh re-discovers paths and rescans only documents whose modification
// time advanced; records for vanished files are dropped.
func (c *Cache) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rescanLocked(ctx)
}

// Warm asynchronously pre-populates the index off the critical path.
// Failures are swallowed; completion is observable via Warmed.
func (c *Cache) Warm(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Debug("warm-up failed", "panic", r)
			}
		}()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state == stateWarm {
			return
		}
		c.rescanLocked(ctx)
	}()
}

// Warmed reports whether the index is populated and current.
func (c *Cache) Warmed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateWarm
}

func (c *Cache) record(kind string, start time.Time) {
	c.telemetry.record(kind, time.Since(start))
}

func (c *Cache) ensureScanned(ctx context.Context) {
	if c.state == stateWarm {
		return
	}
	c.rescanLocked(ctx)
}

func (c *Cache) rescanLocked(ctx context.Context) {
	c.state = stateScanning
	if c.snapshot != nil && !c.snapshotTried {
		c.snapshotTried = true
		c.loadSnapshotLocked(ctx)
	}
	c.refreshLocked(ctx)

	// An interrupted scan leaves a partial index; stay cold so the next
	// query finishes the job.
	if ctx.Err() != nil {
		c.state = stateUnscanned
		return
	}
	c.state = stateWarm
}

// refreshLocked reconciles the record set with the filesystem: unchanged
// files are hits, new or modified files are scanned, vanished files are
// dropped.
func (c *Cache) refreshLocked(ctx context.Context) {
	paths := c.scanner.DiscoverPaths(c.root)

	discovered := make(map[string]bool, len(paths))
	var toScan []string
	for _, path := range paths {
		discovered[path] = true
		if e, ok := c.entries[path]; ok {
			if info, err := os.Stat(path); err == nil && info.ModTime().Equal(e.doc.ModifiedAt) {
				c.scanHits++
				continue
			}
		}
		c.scanMisses++
		toScan = append(toScan, path)
	}

	changed := false
	for path, e := range c.entries {
		if !discovered[path] {
			c.removeEntryLocked(e)
			changed = true
		}
	}

	if len(toScan) > 0 {
		for _, doc := range c.scanner.ScanDocuments(ctx, toScan) {
			c.insertLocked(doc)
			changed = true
		}
	}

	if changed || c.byCategory == nil {
		c.evictLocked()
		c.rebuildIndexLocked()
		if changed {
			c.saveSnapshotLocked(ctx)
		}
	}
}

func (c *Cache) loadSnapshotLocked(ctx context.Context) {
	docs, err := c.snapshot.LoadSnapshot(ctx)
	if err != nil {
		c.logger.Warn("snapshot load failed", "error", err)
		return
	}
	for _, doc := range docs {
		c.insertLocked(doc)
	}
	if len(docs) > 0 {
		c.logger.Debug("snapshot loaded", "documents", len(docs))
	}
}

func (c *Cache) saveSnapshotLocked(ctx context.Context) {
	if c.snapshot == nil {
		return
	}
	ordered := slices.SortedFunc(maps.Values(c.entries), func(a, b *entry) int {
		return cmp.Compare(a.seq, b.seq)
	})
	docs := make([]*canon.Document, 0, len(ordered))
	for _, e := range ordered {
		docs = append(docs, c.restoreDoc(e))
	}
	if err := c.snapshot.SaveSnapshot(ctx, docs); err != nil {
		c.logger.Warn("snapshot save failed", "error", err)
	}
}

// insertLocked replaces the record for doc.Path wholesale and persists the
// document's content blob when a store is configured.
func (c *Cache) insertLocked(doc *canon.Document) {
	if c.store != nil && len(doc.Content) > 0 {
		if _, err := c.store.Put(doc.Content); err != nil {
			c.logger.Warn("blob persistence failed", "path", doc.Path, "error", err)
		}
	}
	doc.Content = nil

	if old, ok := c.entries[doc.Path]; ok {
		c.removeEntryLocked(old)
	}

	e := &entry{doc: *doc, seq: c.seq}
	c.seq++

	e.preview = c.pack(doc.Preview)
	e.doc.Preview = ""
	if doc.FrontMatter != (canon.FrontMatter{}) {
		if meta, err := json.Marshal(doc.FrontMatter); err == nil {
			e.meta = c.pack(string(meta))
		}
	}
	e.doc.FrontMatter = canon.FrontMatter{}

	e.compressed = e.preview.compressed || e.meta.compressed
	e.size = entrySize(e)

	c.entries[e.doc.Path] = e
	c.memory += e.size
	if e.compressed {
		c.compressedCount++
	}
}

func (c *Cache) removeEntryLocked(e *entry) {
	delete(c.entries, e.doc.Path)
	c.memory -= e.size
	if e.compressed {
		c.compressedCount--
	}
}

// evictLocked removes entries in insertion order until occupancy falls to
// the eviction target. Not an access-recency policy.
func (c *Cache) evictLocked() {
	if c.memory <= c.maxMemory {
		return
	}
	target := c.maxMemory * evictTargetPct / 100

	ordered := slices.SortedFunc(maps.Values(c.entries), func(a, b *entry) int {
		return cmp.Compare(a.seq, b.seq)
	})
	for _, e := range ordered {
		if c.memory <= target {
			break
		}
		c.removeEntryLocked(e)
		c.evictions++
	}
	c.logger.Debug("evicted to target", "memory", c.memory, "target", target)
}

func (c *Cache) rebuildIndexLocked() {
	index := make(map[string][]*entry)
	for _, e := range c.entries {
		index[e.doc.Category] = append(index[e.doc.Category], e)
	}
	for _, list := range index {
		slices.SortFunc(list, func(a, b *entry) int {
			return strings.Compare(strings.ToLower(a.doc.Title), strings.ToLower(b.doc.Title))
		})
	}
	c.byCategory = index
}

// restoreDoc materializes a full document from an entry, transparently
// decompressing packed fields. A field that fails to decompress is dropped
// rather than failing the record.
func (c *Cache) restoreDoc(e *entry) *canon.Document {
	doc := e.doc
	if text, ok := c.comp.unpack(e.preview); ok {
		doc.Preview = text
	} else {
		c.logger.Debug("preview decompression failed", "path", doc.Path)
	}
	if len(e.meta.data) > 0 {
		if text, ok := c.comp.unpack(e.meta); ok {
			var fm canon.FrontMatter
			if err := json.Unmarshal([]byte(text), &fm); err == nil {
				doc.FrontMatter = fm
			}
		} else {
			c.logger.Debug("metadata decompression failed", "path", doc.Path)
		}
	}
	return &doc
}

func (c *Cache) pack(text string) field {
	if !c.compression {
		return field{data: []byte(text)}
	}
	return c.comp.pack(text)
}

func entrySize(e *entry) int64 {
	doc := &e.doc
	return int64(entryOverhead +
		len(doc.ID) + len(doc.Title) + len(doc.Path) + len(doc.Category) +
		len(doc.Type) + len(doc.ContentHash) +
		len(e.preview.data) + len(e.meta.data))
}
