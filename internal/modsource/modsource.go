// Package modsource defines the ModSource capability: the abstract
// collaborator a ModResolver node calls to turn an unresolved Mod into a
// ResolvedMod. Concrete HTTP-backed implementations for CurseForge and
// Modrinth live outside the core (SPEC_FULL.md §1 names them external
// collaborators); this package also ships a deterministic in-memory fake
// used by tests and as a safe default when no network credentials are
// configured.
package modsource

import (
	"context"
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/artifact"
)

// ResolveRequest identifies the mod to resolve and the environment it must
// be resolved for.
type ResolveRequest struct {
	Source    artifact.ModSourceKind
	Name      string
	ID        string
	FileID    string
	MCVersion string
	Loader    string
}

// Key returns the canonical resolution-cache key for this request.
func (r ResolveRequest) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s", r.Source, r.Name, r.ID, r.FileID, r.MCVersion, r.Loader)
}

// ModSource resolves an unresolved mod's download coordinates.
type ModSource interface {
	Resolve(ctx context.Context, req ResolveRequest) (artifact.ResolvedMod, error)
}

// Func adapts a plain function to the ModSource interface.
type Func func(ctx context.Context, req ResolveRequest) (artifact.ResolvedMod, error)

// Resolve implements ModSource.
func (f Func) Resolve(ctx context.Context, req ResolveRequest) (artifact.ResolvedMod, error) {
	return f(ctx, req)
}
