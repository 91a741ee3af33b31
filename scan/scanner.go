// Package scan reads standards documents from disk and extracts their
// metadata. It parses YAML front matter, derives titles, categories and
// previews, and fans batches out over a bounded worker pool.
package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/canonbase/canon"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	// parallelThreshold is the batch size at which scanning switches from
	// sequential reads to the worker pool.
	parallelThreshold = 10

	// maxWorkers bounds the scan pool. Reads are I/O-bound, so a small
	// pool saturates the disk without exhausting file handles.
	maxWorkers = 4

	// joinTimeout bounds how long a parallel batch waits for stragglers
	// before returning partial results.
	joinTimeout = 30 * time.Second
)

// Scanner extracts document metadata from files on disk. It is safe for
// concurrent use.
type Scanner struct {
	logger *slog.Logger

	mu            sync.Mutex
	stats         canon.ScanStats
	totalDuration time.Duration
}

var _ canon.DocumentScanner = (*Scanner)(nil)

// NewScanner returns a scanner that reports per-file diagnostics to logger.
// A nil logger discards diagnostics.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{logger: logger}
}

// DiscoverPaths returns the standards document paths under root, sorted.
func (s *Scanner) DiscoverPaths(root string) []string {
	return DiscoverPaths(root)
}

// ScanDocument reads and parses a single document. It returns false for
// missing files, oversized headers, and malformed front matter; none of
// these conditions produce an error.
func (s *Scanner) ScanDocument(path string) (*canon.Document, bool) {
	start := time.Now()

	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("document read failed", "path", path, "error", err)
		}
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	header, body, err := splitFrontMatter(content)
	if err != nil {
		s.logger.Warn("front matter rejected", "path", path, "error", err)
		s.recordParseError()
		return nil, false
	}

	var fm canon.FrontMatter
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			s.logger.Warn("front matter parse failed", "path", path, "error", err)
			s.recordParseError()
			return nil, false
		}
	}

	lines := strings.Split(string(body), "\n")
	title := headingTitle(lines)
	if title == "" {
		title = titleFromFilename(path)
	}
	id := fm.ID
	if id == "" {
		id = fileStem(path)
	}
	category, docType := deriveCategoryType(path)
	sum := sha256.Sum256(content)

	doc := &canon.Document{
		ID:          id,
		Title:       title,
		Path:        path,
		Category:    category,
		Type:        docType,
		FrontMatter: fm,
		Preview:     buildPreview(lines),
		ContentHash: hex.EncodeToString(sum[:]),
		Size:        info.Size(),
		ModifiedAt:  info.ModTime(),
		ScannedAt:   time.Now(),
		Content:     content,
	}

	s.recordScan(len(content), time.Since(start))
	return doc, true
}

// ScanDocuments scans a batch of paths and returns the successful results
// in the original input order. Small batches run sequentially; larger ones
// are distributed across the worker pool.
func (s *Scanner) ScanDocuments(ctx context.Context, paths []string) []*canon.Document {
	if len(paths) == 0 {
		return nil
	}
	if len(paths) < parallelThreshold {
		return s.scanSequential(ctx, paths)
	}
	return s.scanParallel(ctx, paths)
}

// Stats returns a snapshot of scanning counters.
func (s *Scanner) Stats() canon.ScanStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	if stats.FilesScanned > 0 {
		stats.AvgScanDuration = s.totalDuration / time.Duration(stats.FilesScanned)
	}
	return stats
}

func (s *Scanner) scanSequential(ctx context.Context, paths []string) []*canon.Document {
	s.mu.Lock()
	s.stats.SequentialBatches++
	s.mu.Unlock()

	docs := make([]*canon.Document, 0, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		if doc, ok := s.ScanDocument(path); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// scanResult carries one worker outcome back to the collector. The position
// index restores original input ordering.
type scanResult struct {
	position int
	doc      *canon.Document
	ok       bool
}

func (s *Scanner) scanParallel(ctx context.Context, paths []string) []*canon.Document {
	s.mu.Lock()
	s.stats.ParallelBatches++
	s.mu.Unlock()

	// The channel is sized for the whole batch so workers never block on
	// the collector, even after a join timeout abandons them.
	resultCh := make(chan scanResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	go func() {
		for i, path := range paths {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				doc, ok := s.ScanDocument(path)
				resultCh <- scanResult{position: i, doc: doc, ok: ok}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]*canon.Document, len(paths))
	received := 0
	timeout := time.After(joinTimeout)

collect:
	for received < len(paths) {
		select {
		case res, open := <-resultCh:
			if !open {
				break collect
			}
			received++
			if res.ok {
				results[res.position] = res.doc
			}
		case <-timeout:
			s.logger.Warn("scan batch join timed out",
				"received", received, "total", len(paths))
			break collect
		case <-ctx.Done():
			break collect
		}
	}

	docs := make([]*canon.Document, 0, received)
	for _, doc := range results {
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs
}

func (s *Scanner) recordScan(bytes int, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.FilesScanned++
	s.stats.BytesProcessed += int64(bytes)
	s.totalDuration += d
}

func (s *Scanner) recordParseError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.ParseErrors++
}
