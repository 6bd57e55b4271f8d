package modsource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mmmm-dev/mmmm/internal/artifact"
)

// Fake is a deterministic in-memory ModSource used by tests and as the
// default when mmmm.toml grants no CurseForge/Modrinth credentials. Entries
// are registered ahead of time; Resolve fails for anything unregistered
// rather than reaching out over the network.
type Fake struct {
	mu      sync.RWMutex
	entries map[string]artifact.ResolvedMod
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{entries: make(map[string]artifact.ResolvedMod)}
}

// Register makes req resolve to resolved on subsequent calls.
func (f *Fake) Register(req ResolveRequest, resolved artifact.ResolvedMod) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[req.Key()] = resolved
}

// Resolve implements ModSource.
func (f *Fake) Resolve(_ context.Context, req ResolveRequest) (artifact.ResolvedMod, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	r, ok := f.entries[req.Key()]
	if !ok {
		return artifact.ResolvedMod{}, fmt.Errorf("modsource: no fake entry registered for %s %q", req.Source, req.Name)
	}
	return r, nil
}

// RegisteredKeys returns every registered key, sorted, for diagnostics.
func (f *Fake) RegisteredKeys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.entries))
	for k := range f.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
