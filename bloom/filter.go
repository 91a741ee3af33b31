// Package bloom provides probabilistic membership checks over content hashes.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter keyed by content hash. The content store
// consults it before touching disk so that lookups for absent blobs stay
// in memory.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a content hash in the filter.
func (f *Filter) Add(hash string) {
	f.f.AddString(hash)
}

// MightContain returns true if the hash might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) MightContain(hash string) bool {
	return f.f.TestString(hash)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
