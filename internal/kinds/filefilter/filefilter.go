// Package filefilter implements the FileFilter node kind (spec.md §4.2/
// §4.10): partitions a FileTree into `default` (entries matching at least
// one glob pattern) and `inverse` (everything else), using
// github.com/bmatcuk/doublestar/v4 for `**` recursive-directory globbing.
package filefilter

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/filetree"
	"github.com/mmmm-dev/mmmm/internal/fspath"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "files", Allowed: []artifact.Variant{artifact.Files}},
		{Name: "pattern", Allowed: []artifact.Variant{artifact.List}},
	},
	Outputs: []registry.OutputSpec{
		{Name: "default", Variant: artifact.Files},
		{Name: "inverse", Variant: artifact.Files},
	},
}

// Kind is a constructed FileFilter node.
type Kind struct{}

// New constructs a FileFilter. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the fixed input/output contract.
func (k *Kind) Schema() registry.Schema { return schema }

// Run partitions the input tree: an entry matching at least one pattern
// goes to `default`, everything else to `inverse`. An empty pattern list
// yields an empty `default` and a full `inverse`.
func (k *Kind) Run(_ context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	tree, store, err := rt.Inputs["files"].FileTree()
	if err != nil {
		return nil, fmt.Errorf("filefilter: reading files: %w", err)
	}
	patterns, err := rt.Inputs["pattern"].List()
	if err != nil {
		return nil, fmt.Errorf("filefilter: reading pattern: %w", err)
	}

	match := filetree.NewBuilder(nil)
	noMatch := filetree.NewBuilder(nil)

	var rangeErr error
	tree.Range(func(p fspath.FilePath, entry filetree.Entry) bool {
		matched, err := matchesAny(patterns, p.String())
		if err != nil {
			rangeErr = err
			return false
		}
		if matched {
			match.Insert(p, entry)
		} else {
			noMatch.Insert(p, entry)
		}
		return true
	})
	if rangeErr != nil {
		return nil, fmt.Errorf("filefilter: %w", rangeErr)
	}

	return map[string]artifact.Artifact{
		"default": artifact.NewFiles(match.Build(), store),
		"inverse": artifact.NewFiles(noMatch.Build(), store),
	}, nil
}

func matchesAny(patterns []string, path string) (bool, error) {
	for _, pat := range patterns {
		ok, err := doublestar.Match(pat, path)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", pat, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
