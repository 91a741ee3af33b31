// Package fs provides content-addressable file storage for document blobs.
package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/canonbase/canon"
	"github.com/canonbase/canon/bloom"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultMaxBytes is the default store ceiling used for utilization
	// reporting.
	DefaultMaxBytes = 50 * 1024 * 1024

	// hotCacheSize bounds the in-memory hot blob cache.
	hotCacheSize = 128

	// expectedBlobs is the expected entry count for Bloom filter sizing.
	expectedBlobs = 10000
	// blobFalsePositiveRate is the acceptable false positive rate for
	// negative lookups.
	blobFalsePositiveRate = 0.01
)

// Ensure ContentStore implements canon.ContentStore at compile time.
var _ canon.ContentStore = (*ContentStore)(nil)

// ContentStore stores immutable blobs under root/content, sharded by the
// first two hex characters of their SHA-256 digest. A Bloom filter answers
// negative lookups without disk I/O and a small LRU keeps hot blobs in
// memory. Safe for concurrent use; blobs returned by Get must be treated
// as read-only.
type ContentStore struct {
	root        string
	maxBytes    int64
	autoRecover bool
	logger      *slog.Logger

	hot *lru.Cache[string, []byte]

	mu       sync.Mutex
	filter   *bloom.Filter
	counters canon.StoreCounters
}

// NewContentStore opens the store rooted at root, creating the content tree
// when absent and indexing any existing entries. maxBytes <= 0 selects
// DefaultMaxBytes; a nil logger discards diagnostics. When autoRecover is
// set, blobs that fail verification are deleted instead of left in place.
func NewContentStore(root string, maxBytes int64, autoRecover bool, logger *slog.Logger) (*ContentStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	hot, err := lru.New[string, []byte](hotCacheSize)
	if err != nil {
		return nil, err
	}

	s := &ContentStore{
		root:        root,
		maxBytes:    maxBytes,
		autoRecover: autoRecover,
		logger:      logger,
		hot:         hot,
		filter:      bloom.NewFilter(expectedBlobs, blobFalsePositiveRate),
	}

	if err := os.MkdirAll(s.contentDir(), 0755); err != nil {
		return nil, fmt.Errorf("create content root: %w", err)
	}
	if err := s.reindex(); err != nil {
		return nil, fmt.Errorf("index existing blobs: %w", err)
	}
	return s, nil
}

// Put stores content and returns its hex SHA-256 key. Putting identical
// content twice stores exactly one blob.
func (s *ContentStore) Put(content []byte) (string, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	s.mu.Lock()
	s.counters.Puts++
	s.mu.Unlock()

	path := s.blobPath(hash)
	if _, err := os.Stat(path); err == nil {
		s.noteStored(hash)
		return hash, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create shard: %w", err)
	}

	// Write through a unique temp file, then rename. Concurrent puts of
	// identical content race only on the final rename, which is safe
	// because both write the same bytes.
	tmp, err := os.CreateTemp(dir, "put-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("commit blob: %w", err)
	}

	s.noteStored(hash)
	return hash, nil
}

// Get retrieves a blob by key. Missing, unreadable, and corrupted entries
// all degrade to a miss.
func (s *ContentStore) Get(hash string) ([]byte, bool) {
	if len(hash) != sha256.Size*2 {
		return nil, false
	}

	if content, ok := s.hot.Get(hash); ok {
		s.mu.Lock()
		s.counters.Hits++
		s.counters.HotHits++
		s.mu.Unlock()
		return content, true
	}

	s.mu.Lock()
	might := s.filter.MightContain(hash)
	s.mu.Unlock()
	if !might {
		s.miss()
		return nil, false
	}

	content, err := os.ReadFile(s.blobPath(hash))
	if err != nil {
		s.miss()
		return nil, false
	}

	// The key is the content's digest, so verification is a re-hash.
	sum := sha256.Sum256(content)
	if hex.EncodeToString(sum[:]) != hash {
		s.logger.Warn("corrupt blob detected", "hash", hash)
		s.mu.Lock()
		s.counters.CorruptDropped++
		s.counters.Misses++
		s.mu.Unlock()
		if s.autoRecover {
			if err := os.Remove(s.blobPath(hash)); err == nil {
				s.logger.Warn("corrupt blob removed", "hash", hash)
			}
		}
		return nil, false
	}

	s.hot.Add(hash, content)
	s.mu.Lock()
	s.counters.Hits++
	s.mu.Unlock()
	return content, true
}

// Has reports whether a blob for hash exists on disk or in memory.
func (s *ContentStore) Has(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	if s.hot.Contains(hash) {
		return true
	}

	s.mu.Lock()
	might := s.filter.MightContain(hash)
	s.mu.Unlock()
	if !might {
		return false
	}

	_, err := os.Stat(s.blobPath(hash))
	return err == nil
}

// EvictToSize removes blobs, oldest write first, until the store's total
// size is at most maxBytes.
func (s *ContentStore) EvictToSize(maxBytes int64) error {
	blobs, err := s.listBlobs()
	if err != nil {
		return err
	}

	var total int64
	for _, blob := range blobs {
		total += blob.size
	}
	if total <= maxBytes {
		return nil
	}

	slices.SortFunc(blobs, func(a, b blobInfo) int {
		return a.modTime.Compare(b.modTime)
	})

	for _, blob := range blobs {
		if total <= maxBytes {
			break
		}
		if err := os.Remove(blob.path); err != nil {
			s.logger.Warn("blob eviction failed", "hash", blob.hash, "error", err)
			continue
		}
		total -= blob.size
		s.hot.Remove(blob.hash)
	}
	return nil
}

// Stats walks the content tree and reports its footprint.
func (s *ContentStore) Stats() (canon.StoreStats, error) {
	blobs, err := s.listBlobs()
	if err != nil {
		return canon.StoreStats{}, err
	}

	stats := canon.StoreStats{
		Path:      s.root,
		FileCount: len(blobs),
		MaxBytes:  s.maxBytes,
	}
	for _, blob := range blobs {
		stats.TotalBytes += blob.size
	}
	if s.maxBytes > 0 {
		stats.UtilizationPct = float64(stats.TotalBytes) / float64(s.maxBytes) * 100
	}
	return stats, nil
}

// Counters reports hit/miss counters accumulated since open.
func (s *ContentStore) Counters() canon.StoreCounters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

func (s *ContentStore) contentDir() string {
	return filepath.Join(s.root, "content")
}

func (s *ContentStore) blobPath(hash string) string {
	return filepath.Join(s.contentDir(), hash[:2], hash)
}

func (s *ContentStore) noteStored(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Add(hash)
}

func (s *ContentStore) miss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.Misses++
}

// reindex seeds the Bloom filter from blobs already on disk so negative
// lookups stay sound across restarts.
func (s *ContentStore) reindex() error {
	shards, err := os.ReadDir(s.contentDir())
	if err != nil {
		return err
	}
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.contentDir(), shard.Name()))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			s.filter.Add(entry.Name())
		}
	}
	return nil
}

// blobInfo describes one stored blob during a tree walk.
type blobInfo struct {
	hash    string
	path    string
	size    int64
	modTime time.Time
}

func (s *ContentStore) listBlobs() ([]blobInfo, error) {
	shards, err := os.ReadDir(s.contentDir())
	if err != nil {
		return nil, fmt.Errorf("read content root: %w", err)
	}

	var blobs []blobInfo
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		shardPath := filepath.Join(s.contentDir(), shard.Name())
		entries, err := os.ReadDir(shardPath)
		if err != nil {
			s.logger.Warn("shard unreadable", "shard", shard.Name(), "error", err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			blobs = append(blobs, blobInfo{
				hash:    entry.Name(),
				path:    filepath.Join(shardPath, entry.Name()),
				size:    info.Size(),
				modTime: info.ModTime(),
			})
		}
	}
	return blobs, nil
}
