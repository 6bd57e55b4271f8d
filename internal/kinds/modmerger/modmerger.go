// Package modmerger implements the ModMerger node kind (spec.md §4.2):
// merges an arbitrary number of ResolvedMods inputs keyed by mod name, with
// the same ascending-input-name tie-break rule as DirectoryMerger.
package modmerger

import (
	"context"
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

var schema = registry.Schema{
	Variadic:        true,
	VariadicVariant: artifact.ResolvedMods,
	Outputs:         []registry.OutputSpec{{Name: "default", Variant: artifact.ResolvedMods}},
}

// Kind is a constructed ModMerger node.
type Kind struct{}

// New constructs a ModMerger. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the variadic ResolvedMods-in, ResolvedMods-out contract.
func (k *Kind) Schema() registry.Schema { return schema }

// Run merges every variadic input in ascending input-name order; the first
// writer to a given mod name wins.
func (k *Kind) Run(_ context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	var merged []artifact.ResolvedMod
	claimed := make(map[string]bool)

	for _, in := range rt.Variadic {
		mods, err := in.Value.ResolvedModsList()
		if err != nil {
			return nil, fmt.Errorf("modmerger: input %q: %w", in.Name, err)
		}
		for _, m := range mods {
			if claimed[m.Name] {
				continue
			}
			claimed[m.Name] = true
			merged = append(merged, m)
		}
	}

	return map[string]artifact.Artifact{"default": artifact.NewResolvedMods(merged)}, nil
}
