package search

import "sync/atomic"

// Store publishes the current Index to concurrent readers. A corpus reload
// builds the replacement fully off to the side and installs it with a single
// atomic pointer swap; requests in flight keep reading the index they started
// with and never observe a partially-built one.
type Store struct {
	ptr atomic.Pointer[Index]
}

// NewStore returns a Store publishing ix.
func NewStore(ix *Index) *Store {
	s := &Store{}
	s.ptr.Store(ix)
	return s
}

// Load returns the currently published index.
func (s *Store) Load() *Index { return s.ptr.Load() }

// Swap atomically publishes ix as the current index.
func (s *Store) Swap(ix *Index) { s.ptr.Store(ix) }
