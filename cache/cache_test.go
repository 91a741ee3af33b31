package cache_test

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/canonbase/canon"
	"github.com/canonbase/canon/cache"
	"github.com/canonbase/canon/mock"
	"github.com/canonbase/canon/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDoc creates a markdown file under root and returns its full path.
func writeDoc(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// newDoc builds a minimal scanned document for mock scanners.
func newDoc(path, id, title, category string, docType canon.DocType, preview string) *canon.Document {
	return &canon.Document{
		ID:          id,
		Title:       title,
		Path:        path,
		Category:    category,
		Type:        docType,
		Preview:     preview,
		ContentHash: fmt.Sprintf("%064d", len(path)),
		Size:        int64(len(preview)),
		ModifiedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ScannedAt:   time.Now(),
	}
}

// scannerFor serves a fixed document set keyed by path.
func scannerFor(docs map[string]*canon.Document) *mock.DocumentScanner {
	return &mock.DocumentScanner{
		DiscoverPathsFn: func(root string) []string {
			return slices.Sorted(maps.Keys(docs))
		},
		ScanDocumentsFn: func(ctx context.Context, paths []string) []*canon.Document {
			var out []*canon.Document
			for _, path := range paths {
				if doc, ok := docs[path]; ok {
					clone := *doc
					out = append(out, &clone)
				}
			}
			return out
		},
		StatsFn: func() canon.ScanStats { return canon.ScanStats{} },
	}
}

func standardDocs() map[string]*canon.Document {
	return map[string]*canon.Document{
		"tenets/simplicity.md": newDoc("tenets/simplicity.md", "simplicity",
			"Simplicity", "tenets", canon.TypeTenet,
			"Prefer the simplest approach that works."),
		"bindings/core/testing.md": newDoc("bindings/core/testing.md", "core/testing",
			"Testing Guide", "core", canon.TypeBinding,
			"Every behavior change ships with a test."),
		"bindings/categories/go/errors.md": newDoc("bindings/categories/go/errors.md", "go/errors",
			"Error Wrapping", "go", canon.TypeBinding,
			"Wrap errors with context at package boundaries."),
		"bindings/categories/typescript/no-any.md": newDoc("bindings/categories/typescript/no-any.md", "typescript/no-any",
			"No Any", "typescript", canon.TypeBinding,
			"Avoid the any type outside of migration shims."),
	}
}

func TestCache_Categories(t *testing.T) {
	t.Parallel()

	// Given a cache over four documents in four categories
	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{})
	require.NoError(t, err)

	// When I list categories
	names := c.Categories(context.Background())

	// Then all categories are returned, sorted
	assert.Equal(t, []string{"core", "go", "tenets", "typescript"}, names)
}

func TestCache_DocumentsForCategory(t *testing.T) {
	t.Parallel()

	docs := standardDocs()
	docs["bindings/categories/go/aaa.md"] = newDoc("bindings/categories/go/aaa.md", "go/concurrency",
		"Bounded Concurrency", "go", canon.TypeBinding, "Cap worker pools explicitly.")
	c, err := cache.NewCache(scannerFor(docs), "root", cache.Options{})
	require.NoError(t, err)

	got := c.DocumentsForCategory(context.Background(), "go")

	// Title-sorted within the category
	require.Len(t, got, 2)
	assert.Equal(t, "Bounded Concurrency", got[0].Title)
	assert.Equal(t, "Error Wrapping", got[1].Title)
}

func TestCache_DocumentsForCategory_Unknown(t *testing.T) {
	t.Parallel()

	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{})
	require.NoError(t, err)

	assert.Empty(t, c.DocumentsForCategory(context.Background(), "rust"))
}

func TestCache_FirstQueryScans(t *testing.T) {
	t.Parallel()

	// Given a cache that has never been queried
	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{})
	require.NoError(t, err)
	assert.False(t, c.Warmed())

	// When the first query runs
	c.Categories(context.Background())

	// Then the cache is warm and counted every file as a miss
	assert.True(t, c.Warmed())
	stats := c.Stats()
	assert.Equal(t, 4, stats.Documents)
	assert.Equal(t, int64(4), stats.ScanMisses)
}

func TestCache_InvalidateForcesRescan(t *testing.T) {
	t.Parallel()

	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{})
	require.NoError(t, err)
	c.Categories(context.Background())
	require.True(t, c.Warmed())

	c.Invalidate()

	assert.False(t, c.Warmed())
	c.Categories(context.Background())
	assert.True(t, c.Warmed())
}

func TestCache_CanceledScanStaysCold(t *testing.T) {
	t.Parallel()

	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Categories(ctx)

	// The interrupted pass must not be mistaken for a completed one
	assert.False(t, c.Warmed())
}

func TestCache_WarmPopulatesInBackground(t *testing.T) {
	t.Parallel()

	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{})
	require.NoError(t, err)

	c.Warm(context.Background())

	assert.Eventually(t, c.Warmed, time.Second, 5*time.Millisecond)
	assert.Equal(t, 4, c.Stats().Documents)
}

func TestCache_EvictionKeepsNewestEntries(t *testing.T) {
	t.Parallel()

	// Given more documents than the memory ceiling can hold
	docs := make(map[string]*canon.Document)
	for i := range 30 {
		path := fmt.Sprintf("bindings/categories/go/doc-%03d.md", i)
		docs[path] = newDoc(path, fmt.Sprintf("go/doc-%03d", i),
			fmt.Sprintf("Document %03d", i), "go", canon.TypeBinding,
			strings.Repeat("binding body text ", 8))
	}
	c, err := cache.NewCache(scannerFor(docs), "root", cache.Options{MaxMemory: 10000})
	require.NoError(t, err)

	// When the first query builds the index
	titles := make(map[string]bool)
	for _, doc := range c.DocumentsForCategory(context.Background(), "go") {
		titles[doc.Title] = true
	}

	// Then usage fell to at most 80% of the ceiling
	stats := c.Stats()
	assert.LessOrEqual(t, stats.MemoryBytes, int64(8000))
	assert.Positive(t, stats.Evictions)
	assert.Less(t, stats.Documents, 30)

	// And the oldest-inserted entries were removed first
	assert.False(t, titles["Document 000"], "oldest entry should be evicted")
	assert.True(t, titles["Document 029"], "newest entry should survive")
}

func TestCache_CompressionRoundTrip(t *testing.T) {
	t.Parallel()

	// Given a document with a large, compressible preview
	longPreview := strings.Repeat("standards are living documents. ", 8)
	docs := map[string]*canon.Document{
		"tenets/living.md": newDoc("tenets/living.md", "living",
			"Living Documents", "tenets", canon.TypeTenet, longPreview),
	}
	c, err := cache.NewCache(scannerFor(docs), "root", cache.Options{Compression: true})
	require.NoError(t, err)

	// When I read it back
	got := c.DocumentsForCategory(context.Background(), "tenets")

	// Then the stored field was compressed and reads are transparent
	require.Len(t, got, 1)
	assert.Equal(t, longPreview, got[0].Preview)
	assert.Equal(t, 1, c.Stats().Compressed)
}

func TestCache_CompressionSkipsSmallFields(t *testing.T) {
	t.Parallel()

	docs := map[string]*canon.Document{
		"tenets/short.md": newDoc("tenets/short.md", "short",
			"Short", "tenets", canon.TypeTenet, "Under one hundred bytes."),
	}
	c, err := cache.NewCache(scannerFor(docs), "root", cache.Options{Compression: true})
	require.NoError(t, err)

	got := c.DocumentsForCategory(context.Background(), "tenets")

	require.Len(t, got, 1)
	assert.Equal(t, "Under one hundred bytes.", got[0].Preview)
	assert.Zero(t, c.Stats().Compressed)
}

func TestCache_PersistsBlobsToStore(t *testing.T) {
	t.Parallel()

	// Given a scanner that carries file contents and a content store
	docs := standardDocs()
	for path, doc := range docs {
		doc.Content = []byte("full content of " + path)
	}
	var stored [][]byte
	store := &mock.ContentStore{
		PutFn: func(content []byte) (string, error) {
			stored = append(stored, content)
			return "hash", nil
		},
	}
	c, err := cache.NewCache(scannerFor(docs), "root", cache.Options{Store: store})
	require.NoError(t, err)

	// When the index is built
	c.Categories(context.Background())

	// Then every scanned document's content was persisted
	assert.Len(t, stored, 4)
}

func TestCache_SavesSnapshotAfterScan(t *testing.T) {
	t.Parallel()

	var saved []*canon.Document
	snapshot := &mock.SnapshotStore{
		LoadSnapshotFn: func(ctx context.Context) ([]*canon.Document, error) { return nil, nil },
		SaveSnapshotFn: func(ctx context.Context, docs []*canon.Document) error {
			saved = docs
			return nil
		},
	}
	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{Snapshot: snapshot})
	require.NoError(t, err)

	c.Categories(context.Background())

	require.Len(t, saved, 4)
	for _, doc := range saved {
		assert.NotEmpty(t, doc.Preview, "snapshot should carry restored fields")
	}
}

func TestCache_TelemetryRecordsQueries(t *testing.T) {
	t.Parallel()

	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{})
	require.NoError(t, err)

	ctx := context.Background()
	c.Categories(ctx)
	c.Categories(ctx)
	c.DocumentsForCategory(ctx, "go")
	c.Search(ctx, "errors")
	c.SuggestCorrections(ctx, "erors", 0)

	report := c.PerformanceReport()
	assert.Equal(t, 2, report.Ops["list-categories"].Count)
	assert.Equal(t, 1, report.Ops["show-category"].Count)
	assert.Equal(t, 1, report.Ops["search"].Count)
	assert.Equal(t, 1, report.Ops["suggest"].Count)
	assert.Equal(t, time.Second, report.Target)
	assert.True(t, report.AllUnderTarget)
	assert.Len(t, report.Ops["list-categories"].Recent, 2)
}

func TestCache_TelemetryWindowIsBounded(t *testing.T) {
	t.Parallel()

	c, err := cache.NewCache(scannerFor(standardDocs()), "root", cache.Options{})
	require.NoError(t, err)

	ctx := context.Background()
	for range 150 {
		c.Categories(ctx)
	}

	report := c.PerformanceReport()
	assert.Equal(t, 150, report.Ops["list-categories"].Count)
	assert.Len(t, report.Ops["list-categories"].Recent, 100)
}

func TestCache_ScaleAcrossCategories(t *testing.T) {
	t.Parallel()

	// Given 1,000 documents across tenets, core, and three categories
	docs := make(map[string]*canon.Document)
	categories := []string{"go", "typescript", "rust"}
	for i := range 1000 {
		var path, category string
		docType := canon.TypeBinding
		switch {
		case i%5 == 0:
			path = fmt.Sprintf("tenets/tenet-%04d.md", i)
			category = "tenets"
			docType = canon.TypeTenet
		case i%5 == 1:
			path = fmt.Sprintf("bindings/core/core-%04d.md", i)
			category = "core"
		default:
			category = categories[i%3]
			path = fmt.Sprintf("bindings/categories/%s/doc-%04d.md", category, i)
		}
		docs[path] = newDoc(path, fmt.Sprintf("%s/%04d", category, i),
			fmt.Sprintf("Standard %04d", i), category, docType,
			"Shared preview text for the scale scenario.")
	}
	c, err := cache.NewCache(scannerFor(docs), "root", cache.Options{MaxMemory: 64 * 1024 * 1024})
	require.NoError(t, err)

	// When I list categories
	names := c.Categories(context.Background())

	// Then all distinct categories come back sorted, under the target
	assert.Equal(t, []string{"core", "go", "rust", "tenets", "typescript"}, names)
	assert.Equal(t, 1000, c.Stats().Documents)

	report := c.PerformanceReport()
	assert.True(t, report.AllUnderTarget)
}

func TestCache_UnchangedFilesAreHits(t *testing.T) {
	t.Parallel()

	// Given real files scanned once
	root := t.TempDir()
	for i := range 3 {
		writeDoc(t, root, fmt.Sprintf("tenets/doc-%d.md", i),
			fmt.Sprintf("---\nid: doc-%d\n---\n# Doc %d\n\nBody text.\n", i, i))
	}
	scanner := scan.NewScanner(nil)
	c, err := cache.NewCache(scanner, root, cache.Options{})
	require.NoError(t, err)
	c.Categories(context.Background())
	require.Equal(t, 3, scanner.Stats().FilesScanned)
	require.Equal(t, int64(3), c.Stats().ScanMisses)

	// When the index is invalidated and rebuilt without file changes
	c.Invalidate()
	c.Categories(context.Background())

	// Then every file is a hit and nothing is re-read
	assert.Equal(t, int64(3), c.Stats().ScanHits)
	assert.Equal(t, 3, scanner.Stats().FilesScanned, "unchanged files must not be re-parsed")
}

func TestCache_ModifiedFileIsRescanned(t *testing.T) {
	t.Parallel()

	// Given real files scanned once
	root := t.TempDir()
	writeDoc(t, root, "tenets/stable.md", "---\nid: stable\n---\n# Stable\n")
	changing := writeDoc(t, root, "tenets/changing.md", "---\nid: changing\n---\n# Changing\n")
	scanner := scan.NewScanner(nil)
	c, err := cache.NewCache(scanner, root, cache.Options{})
	require.NoError(t, err)
	c.Categories(context.Background())
	require.Equal(t, 2, scanner.Stats().FilesScanned)

	// When one file's modification time advances
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(changing, future, future))

	c.Refresh(context.Background())

	// Then only that file is re-scanned
	assert.Equal(t, 3, scanner.Stats().FilesScanned)
	assert.Equal(t, int64(1), c.Stats().ScanHits)
}

func TestCache_RefreshDropsVanishedFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDoc(t, root, "tenets/keep.md", "---\nid: keep\n---\n# Keep\n")
	doomed := writeDoc(t, root, "tenets/doomed.md", "---\nid: doomed\n---\n# Doomed\n")
	scanner := scan.NewScanner(nil)
	c, err := cache.NewCache(scanner, root, cache.Options{})
	require.NoError(t, err)
	require.Len(t, c.DocumentsForCategory(context.Background(), "tenets"), 2)

	require.NoError(t, os.Remove(doomed))
	c.Refresh(context.Background())

	docs := c.DocumentsForCategory(context.Background(), "tenets")
	require.Len(t, docs, 1)
	assert.Equal(t, "Keep", docs[0].Title)
}

func TestCache_SnapshotServesColdStart(t *testing.T) {
	t.Parallel()

	// Given a snapshot persisted by a previous process
	root := t.TempDir()
	for i := range 3 {
		writeDoc(t, root, fmt.Sprintf("tenets/doc-%d.md", i),
			fmt.Sprintf("---\nid: doc-%d\n---\n# Doc %d\n", i, i))
	}
	var persisted []*canon.Document
	snapshot := &mock.SnapshotStore{
		LoadSnapshotFn: func(ctx context.Context) ([]*canon.Document, error) { return persisted, nil },
		SaveSnapshotFn: func(ctx context.Context, docs []*canon.Document) error {
			persisted = docs
			return nil
		},
	}
	first, err := cache.NewCache(scan.NewScanner(nil), root, cache.Options{Snapshot: snapshot})
	require.NoError(t, err)
	first.Categories(context.Background())
	require.Len(t, persisted, 3)

	// When a fresh process opens the same snapshot
	scanner := scan.NewScanner(nil)
	second, err := cache.NewCache(scanner, root, cache.Options{Snapshot: snapshot})
	require.NoError(t, err)
	names := second.Categories(context.Background())

	// Then unchanged files are hits and nothing is re-parsed
	assert.Equal(t, []string{"tenets"}, names)
	assert.Equal(t, int64(3), second.Stats().ScanHits)
	assert.Equal(t, 0, scanner.Stats().FilesScanned)
}
