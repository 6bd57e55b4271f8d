// Package resolvecache implements the resolution cache described in
// SPEC_FULL.md §4.7: a persistent key/value store keyed by
// (source, name, file_id, minecraft_version, modloader) mapping to a
// resolved mod plus a timestamp. It is looked up before any network call
// and written on success. Per-key single-flighting guarantees at most one
// upstream request in flight for a given key at a time.
package resolvecache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"golang.org/x/sync/singleflight"
)

// Entry is one cached resolution.
type Entry struct {
	Resolved  artifact.ResolvedMod
	CachedAt  time.Time
}

// Cache is a bounded, concurrency-safe resolution cache.
type Cache struct {
	lru   *lru.Cache[string, Entry]
	group singleflight.Group
	now   func() time.Time
}

// New returns a Cache holding at most capacity entries, evicting least
// recently used entries beyond that.
func New(capacity int) (*Cache, error) {
	l, err := lru.New[string, Entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l, now: time.Now}, nil
}

// Clear wipes the cache, implementing the CLI's --clear-cache flag
// (SPEC_FULL.md §6).
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Get returns the cached entry for req, if present.
func (c *Cache) Get(req modsource.ResolveRequest) (Entry, bool) {
	return c.lru.Get(req.Key())
}

// Resolve looks up req in the cache; on a miss it calls src.Resolve exactly
// once even if multiple goroutines request the same key concurrently, and
// caches the result on success.
func (c *Cache) Resolve(ctx context.Context, src modsource.ModSource, req modsource.ResolveRequest) (artifact.ResolvedMod, error) {
	if entry, ok := c.Get(req); ok {
		return entry.Resolved, nil
	}

	key := req.Key()
	v, err, _ := c.group.Do(key, func() (any, error) {
		if entry, ok := c.Get(req); ok {
			return entry.Resolved, nil
		}
		resolved, err := src.Resolve(ctx, req)
		if err != nil {
			return artifact.ResolvedMod{}, err
		}
		c.lru.Add(key, Entry{Resolved: resolved, CachedAt: c.now()})
		return resolved, nil
	})
	if err != nil {
		return artifact.ResolvedMod{}, err
	}
	return v.(artifact.ResolvedMod), nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
