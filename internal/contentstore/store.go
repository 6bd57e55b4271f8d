// Package contentstore implements the in-memory content-addressed blob
// store shared by all nodes in a run. Writes are idempotent and shard-locked
// so concurrent callers never contend on a single global mutex.
package contentstore

import (
	"fmt"
	"sync"

	"github.com/mmmm-dev/mmmm/internal/contenthash"
)

const shardCount = 32

type shard struct {
	mu    sync.RWMutex
	blobs map[contenthash.Hash][]byte
}

// Store is a set of (ContentHash -> immutable byte buffer). It is created at
// run start and dropped at run end; there is no on-disk backend.
type Store struct {
	shards [shardCount]*shard
}

// New returns an empty Store.
func New() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{blobs: make(map[contenthash.Hash][]byte)}
	}
	return s
}

func (s *Store) shardFor(h contenthash.Hash) *shard {
	return s.shards[h[0]%shardCount]
}

// Put inserts b, returning its content hash. Re-inserting bytes that hash to
// an already-present key is a no-op; Put always returns the same hash for
// the same bytes.
func (s *Store) Put(b []byte) contenthash.Hash {
	h := contenthash.Sum(b)
	sh := s.shardFor(h)

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.blobs[h]; !ok {
		cp := make([]byte, len(b))
		copy(cp, b)
		sh.blobs[h] = cp
	}
	return h
}

// Get retrieves the bytes for h, failing if absent.
func (s *Store) Get(h contenthash.Hash) ([]byte, error) {
	sh := s.shardFor(h)

	sh.mu.RLock()
	defer sh.mu.RUnlock()
	b, ok := sh.blobs[h]
	if !ok {
		return nil, fmt.Errorf("contentstore: no blob for hash %s", h)
	}
	return b, nil
}

// Len returns the number of distinct blobs currently stored. Intended for
// diagnostics and tests.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.blobs)
		sh.mu.RUnlock()
	}
	return n
}
