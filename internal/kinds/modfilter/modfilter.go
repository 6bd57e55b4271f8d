// Package modfilter implements the ModFilter node kind (spec.md §4.2):
// partitions a ResolvedMods list into `default` (mods whose name appears in
// the filter list) and `inverse` (everything else).
package modfilter

import (
	"context"
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "mods", Allowed: []artifact.Variant{artifact.ResolvedMods}},
		{Name: "filters", Allowed: []artifact.Variant{artifact.List}},
	},
	Outputs: []registry.OutputSpec{
		{Name: "default", Variant: artifact.ResolvedMods},
		{Name: "inverse", Variant: artifact.ResolvedMods},
	},
}

// Kind is a constructed ModFilter node.
type Kind struct{}

// New constructs a ModFilter. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the fixed input/output contract.
func (k *Kind) Schema() registry.Schema { return schema }

// Run partitions mods by name membership in filters.
func (k *Kind) Run(_ context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	mods, err := rt.Inputs["mods"].ResolvedModsList()
	if err != nil {
		return nil, fmt.Errorf("modfilter: reading mods: %w", err)
	}
	filters, err := rt.Inputs["filters"].List()
	if err != nil {
		return nil, fmt.Errorf("modfilter: reading filters: %w", err)
	}

	names := make(map[string]bool, len(filters))
	for _, f := range filters {
		names[f] = true
	}

	var match, noMatch []artifact.ResolvedMod
	for _, m := range mods {
		if names[m.Name] {
			match = append(match, m)
		} else {
			noMatch = append(noMatch, m)
		}
	}

	return map[string]artifact.Artifact{
		"default": artifact.NewResolvedMods(match),
		"inverse": artifact.NewResolvedMods(noMatch),
	}, nil
}
