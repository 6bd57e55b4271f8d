// Package directorymerger implements the DirectoryMerger node kind
// (spec.md §4.2): merges an arbitrary number of Files inputs into one tree,
// where a path claimed by more than one input keeps the value from the
// input whose name sorts lexicographically first.
package directorymerger

import (
	"fmt"

	"context"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/filetree"
	"github.com/mmmm-dev/mmmm/internal/fspath"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

var schema = registry.Schema{
	Variadic:        true,
	VariadicVariant: artifact.Files,
	Outputs:         []registry.OutputSpec{{Name: "default", Variant: artifact.Files}},
}

// Kind is a constructed DirectoryMerger node.
type Kind struct{}

// New constructs a DirectoryMerger. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the variadic Files-in, Files-out contract.
func (k *Kind) Schema() registry.Schema { return schema }

// Run merges every variadic input in ascending input-name order (already
// guaranteed by registry.Runtime.Variadic); the first writer to a given
// path wins, later writers to the same path are dropped silently.
func (k *Kind) Run(_ context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	b := filetree.NewBuilder(nil)
	claimed := make(map[string]bool)

	for _, in := range rt.Variadic {
		tree, _, err := in.Value.FileTree()
		if err != nil {
			return nil, fmt.Errorf("directorymerger: input %q: %w", in.Name, err)
		}
		tree.Range(func(p fspath.FilePath, entry filetree.Entry) bool {
			if !claimed[p.String()] {
				claimed[p.String()] = true
				b.Insert(p, entry)
			}
			return true
		})
	}

	return map[string]artifact.Artifact{"default": artifact.NewFiles(b.Build(), rt.Store)}, nil
}
