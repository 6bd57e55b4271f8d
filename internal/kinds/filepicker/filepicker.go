// Package filepicker implements the FilePicker node kind (spec.md §4.2):
// extracts one file's contents out of a Files tree as a Text artifact.
package filepicker

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/fspath"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/mmmm-dev/mmmm/internal/wferrors"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "files", Allowed: []artifact.Variant{artifact.Files}},
		{Name: "path", Allowed: []artifact.Variant{artifact.Text}},
	},
	Outputs: []registry.OutputSpec{{Name: "default", Variant: artifact.Text}},
}

// Kind is a constructed FilePicker node.
type Kind struct{}

// New constructs a FilePicker. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the fixed input/output contract.
func (k *Kind) Schema() registry.Schema { return schema }

// Run looks up the exact path in the tree and returns its bytes as Text,
// failing if the path is absent or its bytes are not valid UTF-8.
func (k *Kind) Run(_ context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	tree, store, err := rt.Inputs["files"].FileTree()
	if err != nil {
		return nil, fmt.Errorf("filepicker: reading files: %w", err)
	}
	rawPath, err := rt.Inputs["path"].Text()
	if err != nil {
		return nil, fmt.Errorf("filepicker: reading path: %w", err)
	}

	path, err := fspath.New(rawPath)
	if err != nil {
		return nil, wferrors.Wrap(wferrors.KindNode, err, fmt.Sprintf("filepicker: invalid path %q", rawPath))
	}

	entry, ok := tree.Get(path)
	if !ok {
		return nil, wferrors.New(wferrors.KindNode, fmt.Sprintf("filepicker: no such path %q", rawPath))
	}

	blob, err := store.Get(entry.Hash)
	if err != nil {
		return nil, fmt.Errorf("filepicker: %w", err)
	}
	if !utf8.Valid(blob) {
		return nil, wferrors.New(wferrors.KindDecode, fmt.Sprintf("filepicker: %q is not valid UTF-8", rawPath))
	}

	return map[string]artifact.Artifact{"default": artifact.NewText(string(blob))}, nil
}
