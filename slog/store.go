package slog

import (
	"log/slog"
	"time"

	"github.com/canonbase/canon"
)

// Ensure LoggingStore implements canon.ContentStore.
var _ canon.ContentStore = (*LoggingStore)(nil)

// LoggingStore wraps a ContentStore with debug logging for blob traffic.
type LoggingStore struct {
	next   canon.ContentStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next canon.ContentStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Put delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Put(content []byte) (hash string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("blob put",
			"hash", hash,
			"size", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Put(content)
}

// Get delegates to the wrapped store and logs hits and misses.
func (s *LoggingStore) Get(hash string) (content []byte, ok bool) {
	defer func(begin time.Time) {
		s.logger.Debug("blob get",
			"hash", hash,
			"hit", ok,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Get(hash)
}

// Has delegates to the wrapped store.
func (s *LoggingStore) Has(hash string) bool {
	return s.next.Has(hash)
}

// EvictToSize delegates to the wrapped store and logs the operation.
func (s *LoggingStore) EvictToSize(maxBytes int64) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("store eviction",
			"maxBytes", maxBytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.EvictToSize(maxBytes)
}

// Stats delegates to the wrapped store.
func (s *LoggingStore) Stats() (canon.StoreStats, error) {
	return s.next.Stats()
}

// Counters delegates to the wrapped store.
func (s *LoggingStore) Counters() canon.StoreCounters {
	return s.next.Counters()
}
