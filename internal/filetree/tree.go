// Package filetree implements FileTree: an immutable mapping from FilePath
// to ContentHash plus per-entry metadata, the unit of bulk data traffic on
// channels. Trees are cheap to clone because they share structural backing;
// mutation happens through a Builder and produces a new Tree.
package filetree

import (
	"sort"

	"github.com/mmmm-dev/mmmm/internal/contenthash"
	"github.com/mmmm-dev/mmmm/internal/fspath"
)

// Entry is the metadata attached to a single FileTree path.
type Entry struct {
	Hash       contenthash.Hash
	Executable bool
	// Size caches the blob length so consumers don't need a ContentStore
	// round-trip just to learn it.
	Size int64
}

// Tree is an immutable path -> Entry mapping. The zero value is an empty
// tree. Once published on a channel, a Tree is never mutated; a node that
// wants to change one builds a new Tree via Builder.
type Tree struct {
	entries map[string]Entry
}

// Empty returns the empty Tree.
func Empty() *Tree {
	return &Tree{entries: map[string]Entry{}}
}

// Get looks up the entry at path.
func (t *Tree) Get(path fspath.FilePath) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[path.String()]
	return e, ok
}

// Len returns the number of entries in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Paths returns the tree's paths in lexicographic order.
func (t *Tree) Paths() []fspath.FilePath {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	paths := make([]fspath.FilePath, 0, len(keys))
	for _, k := range keys {
		p, err := fspath.New(k)
		if err != nil {
			// entries are only ever inserted through validated FilePaths.
			panic("filetree: corrupt entry key: " + err.Error())
		}
		paths = append(paths, p)
	}
	return paths
}

// Range calls f for every entry in lexicographic path order, stopping early
// if f returns false.
func (t *Tree) Range(f func(fspath.FilePath, Entry) bool) {
	for _, p := range t.Paths() {
		e, _ := t.Get(p)
		if !f(p, e) {
			return
		}
	}
}

// Builder accumulates inserts/removes/renames before producing an immutable
// Tree snapshot. It holds its working map copy-on-write: seeding from an
// existing Tree or re-Build()ing shares the backing map rather than copying
// it, so only a builder that actually goes on to mutate after a share pays
// the O(n) clone, and one that seeds-then-builds without edits pays nothing.
type Builder struct {
	entries map[string]Entry
	// shared is true when entries is still backing a previously built Tree
	// (or a seed Tree) and must be cloned before the next mutation.
	shared bool
}

// NewBuilder starts a builder, optionally seeded from an existing tree. The
// seed's backing map is shared, not copied, until the builder's first
// mutation.
func NewBuilder(seed *Tree) *Builder {
	if seed == nil {
		return &Builder{entries: make(map[string]Entry)}
	}
	return &Builder{entries: seed.entries, shared: true}
}

func (b *Builder) ensureOwned() {
	if !b.shared {
		return
	}
	owned := make(map[string]Entry, len(b.entries))
	for k, v := range b.entries {
		owned[k] = v
	}
	b.entries = owned
	b.shared = false
}

// Insert adds or overwrites the entry at path.
func (b *Builder) Insert(path fspath.FilePath, entry Entry) {
	b.ensureOwned()
	b.entries[path.String()] = entry
}

// Remove deletes the entry at path, if present.
func (b *Builder) Remove(path fspath.FilePath) {
	b.ensureOwned()
	delete(b.entries, path.String())
}

// Rename moves the entry at oldPath to newPath, failing if oldPath is absent
// or newPath is already occupied.
func (b *Builder) Rename(oldPath, newPath fspath.FilePath) bool {
	if _, ok := b.entries[oldPath.String()]; !ok {
		return false
	}
	if _, exists := b.entries[newPath.String()]; exists {
		return false
	}
	b.ensureOwned()
	e := b.entries[oldPath.String()]
	delete(b.entries, oldPath.String())
	b.entries[newPath.String()] = e
	return true
}

// Build produces an immutable Tree snapshot of the builder's current state.
// The builder remains usable afterward; subsequent mutations do not affect
// trees already built, since any mutation after a Build clones first.
func (b *Builder) Build() *Tree {
	b.shared = true
	return &Tree{entries: b.entries}
}
