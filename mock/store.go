package mock

import "github.com/canonbase/canon"

var _ canon.ContentStore = (*ContentStore)(nil)

// ContentStore is a mock implementation of canon.ContentStore.
type ContentStore struct {
	PutFn         func(content []byte) (string, error)
	GetFn         func(hash string) ([]byte, bool)
	HasFn         func(hash string) bool
	EvictToSizeFn func(maxBytes int64) error
	StatsFn       func() (canon.StoreStats, error)
	CountersFn    func() canon.StoreCounters
}

func (s *ContentStore) Put(content []byte) (string, error) {
	return s.PutFn(content)
}

func (s *ContentStore) Get(hash string) ([]byte, bool) {
	return s.GetFn(hash)
}

func (s *ContentStore) Has(hash string) bool {
	return s.HasFn(hash)
}

func (s *ContentStore) EvictToSize(maxBytes int64) error {
	return s.EvictToSizeFn(maxBytes)
}

func (s *ContentStore) Stats() (canon.StoreStats, error) {
	return s.StatsFn()
}

func (s *ContentStore) Counters() canon.StoreCounters {
	return s.CountersFn()
}
