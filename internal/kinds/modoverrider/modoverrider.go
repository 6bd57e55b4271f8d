// Package modoverrider implements the ModOverrider node kind (spec.md
// §4.2): applies per-field overrides, matched by mod name, onto a
// ResolvedMods list.
//
// `side` is always applied from the override, substituting SideBoth when
// the override omits it. `required` and `default` are applied only when
// the override sets them. This asymmetry looks inconsistent but is
// preserved exactly as specified; see SPEC_FULL.md §9 / DESIGN.md.
package modoverrider

import (
	"context"
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "mods", Allowed: []artifact.Variant{artifact.ResolvedMods}},
		{Name: "overrides", Allowed: []artifact.Variant{artifact.Mods}},
	},
	Outputs: []registry.OutputSpec{{Name: "default", Variant: artifact.ResolvedMods}},
}

// Kind is a constructed ModOverrider node.
type Kind struct{}

// New constructs a ModOverrider. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the fixed input/output contract.
func (k *Kind) Schema() registry.Schema { return schema }

// Run matches overrides to mods by name and applies the override fields in
// place, leaving unmatched mods untouched.
func (k *Kind) Run(_ context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	mods, err := rt.Inputs["mods"].ResolvedModsList()
	if err != nil {
		return nil, fmt.Errorf("modoverrider: reading mods: %w", err)
	}
	overrides, err := rt.Inputs["overrides"].ModsList()
	if err != nil {
		return nil, fmt.Errorf("modoverrider: reading overrides: %w", err)
	}

	byName := make(map[string]artifact.Mod, len(overrides))
	for _, o := range overrides {
		byName[o.Name] = o
	}

	out := make([]artifact.ResolvedMod, len(mods))
	for i, m := range mods {
		ov, ok := byName[m.Name]
		if !ok {
			out[i] = m
			continue
		}
		m.Side = ov.Side
		if ov.RequiredSet {
			m.Required = ov.Required
		}
		if ov.DefaultSet {
			m.Default = ov.Default
		}
		out[i] = m
	}

	return map[string]artifact.Artifact{"default": artifact.NewResolvedMods(out)}, nil
}
