package canon

// StoreStats describes the on-disk footprint of a content store.
// Utilization is observability only, never a correctness gate.
type StoreStats struct {
	Path           string  `json:"path"`
	FileCount      int     `json:"fileCount"`
	TotalBytes     int64   `json:"totalBytes"`
	MaxBytes       int64   `json:"maxBytes"`
	UtilizationPct float64 `json:"utilizationPct"`
}

// StoreCounters reports hit/miss counters for a content store.
type StoreCounters struct {
	Puts           int64 `json:"puts"`
	Hits           int64 `json:"hits"`
	HotHits        int64 `json:"hotHits"` // subset of Hits served from memory
	Misses         int64 `json:"misses"`
	CorruptDropped int64 `json:"corruptDropped"`
}

// ContentStore is a content-addressable blob store. Keys are hex SHA-256
// digests of the stored content, so identical content always yields the
// identical key. Entries are immutable once written and are only ever
// removed by explicit eviction.
type ContentStore interface {
	// Put stores content and returns its key. Idempotent: putting the
	// same content twice stores exactly one blob.
	Put(content []byte) (string, error)

	// Get retrieves content by key. Ordinary misses (absent, corrupted,
	// or unreadable entries) return false, never an error, and are
	// isolated per entry so one bad blob never fails a batch.
	Get(hash string) ([]byte, bool)

	// Has reports whether a blob for hash exists.
	Has(hash string) bool

	// EvictToSize removes oldest entries until total size is at most
	// maxBytes.
	EvictToSize(maxBytes int64) error

	// Stats reports the store's on-disk footprint and utilization.
	Stats() (StoreStats, error)

	// Counters reports hit/miss counters accumulated since open.
	Counters() StoreCounters
}
