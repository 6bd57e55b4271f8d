// Package modresolver implements the ModResolver node kind (spec.md §4.2):
// turns a Mods list into a ResolvedMods list by consulting the resolution
// cache, falling back to the configured ModSource capability on a miss.
package modresolver

import (
	"context"
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "mods", Allowed: []artifact.Variant{artifact.Mods}},
	},
	Outputs:    []registry.OutputSpec{{Name: "default", Variant: artifact.ResolvedMods}},
	ConfigKeys: []string{"minecraft_version", "modloader"},
}

// Kind is a constructed ModResolver node.
type Kind struct{}

// New constructs a ModResolver. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the fixed input/output contract and required config keys.
func (k *Kind) Schema() registry.Schema { return schema }

// Run resolves every unresolved mod via the cache, consulting rt.ModSource
// on a miss, preserving input order.
func (k *Kind) Run(ctx context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	mods, err := rt.Inputs["mods"].ModsList()
	if err != nil {
		return nil, fmt.Errorf("modresolver: reading mods: %w", err)
	}

	// The loader only checks presence (config.Config.Has); Require also
	// rejects an empty value, since a blank version/loader would silently
	// widen every resolution-cache key instead of failing loudly here.
	mcVersion, ok := rt.Config.Require("minecraft_version")
	if !ok {
		return nil, fmt.Errorf("modresolver: config key %q must not be empty", "minecraft_version")
	}
	loader, ok := rt.Config.Require("modloader")
	if !ok {
		return nil, fmt.Errorf("modresolver: config key %q must not be empty", "modloader")
	}

	resolved := make([]artifact.ResolvedMod, 0, len(mods))
	for _, m := range mods {
		req := modsource.ResolveRequest{
			Source:    m.Source,
			Name:      m.Name,
			ID:        m.ID,
			FileID:    m.FileID,
			MCVersion: mcVersion,
			Loader:    loader,
		}

		var r artifact.ResolvedMod
		if rt.Cache != nil {
			r, err = rt.Cache.Resolve(ctx, rt.ModSource, req)
		} else {
			r, err = rt.ModSource.Resolve(ctx, req)
		}
		if err != nil {
			return nil, fmt.Errorf("modresolver: resolving %q: %w", m.Name, err)
		}

		r.Mod.Required = m.Required
		r.Mod.Default = m.Default
		r.Mod.Side = m.Side
		resolved = append(resolved, r)
	}

	return map[string]artifact.Artifact{"default": artifact.NewResolvedMods(resolved)}, nil
}
