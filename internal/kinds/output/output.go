// Package output implements the Output node kind (spec.md §4.2): writes a
// Text or Files artifact to disk through the filesink collaborator. Output
// has no declared outputs of its own; it is a terminal node.
package output

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/filesink"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "source", Allowed: []artifact.Variant{artifact.Text, artifact.Files}},
	},
}

// Kind is a constructed Output node.
type Kind struct {
	filename string
}

// New constructs an Output node from its `filename` field.
func New(raw map[string]any) (registry.Kind, error) {
	filename, _ := raw["filename"].(string)
	if filename == "" {
		return nil, fmt.Errorf("output: missing required field %q", "filename")
	}
	return &Kind{filename: filename}, nil
}

// Schema reports the source input's accepted variants.
func (k *Kind) Schema() registry.Schema { return schema }

// Run writes the source artifact to disk: Text literally, Files as a
// deterministic ZIP with the extension normalized to .zip. The destination
// is rooted at the run's configured output_dir, if any (set from the CLI's
// -o/--output-dir into the workflow Config by internal/app).
func (k *Kind) Run(_ context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	path := k.filename
	if dir, ok := rt.Config.Get("output_dir"); ok && dir != "" {
		path = filepath.Join(dir, k.filename)
	}

	src := rt.Inputs["source"]
	switch src.Variant() {
	case artifact.Text:
		text, err := src.Text()
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		if err := filesink.WriteText(text, path); err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
	case artifact.Files:
		tree, store, err := src.FileTree()
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		if err := filesink.WriteFiles(tree, store, path); err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
	default:
		return nil, fmt.Errorf("output: unsupported source variant %s", src.Variant())
	}

	return map[string]artifact.Artifact{}, nil
}
