// Package source implements the Source node kind (spec.md §4.2): a literal
// value embedded in the workflow YAML, built once at load time and emitted
// once when the node runs, with no inputs. The literal's shape (string, list of strings, list of mod
// objects) decides its output variant, so unlike every other kind a Source
// instance reports a Schema computed from its own constructed value rather
// than a fixed table entry.
package source

import (
	"context"
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

// Kind is a constructed Source node.
type Kind struct {
	variant artifact.Variant
	value   artifact.Artifact
}

// New constructs a Source from the decoded YAML `value` field. raw carries
// a single "value" key holding a string, a []any of strings, or a []any of
// mod-shaped maps.
func New(raw map[string]any) (registry.Kind, error) {
	v, ok := raw["value"]
	if !ok {
		return nil, fmt.Errorf("source: missing required field %q", "value")
	}

	switch val := v.(type) {
	case string:
		return &Kind{variant: artifact.Text, value: artifact.NewText(val)}, nil
	case []any:
		if len(val) == 0 {
			return &Kind{variant: artifact.List, value: artifact.NewList(nil)}, nil
		}
		switch val[0].(type) {
		case string:
			items, err := toStringSlice(val)
			if err != nil {
				return nil, err
			}
			return &Kind{variant: artifact.List, value: artifact.NewList(items)}, nil
		case map[string]any, map[any]any:
			mods, err := toMods(val)
			if err != nil {
				return nil, err
			}
			return &Kind{variant: artifact.Mods, value: artifact.NewMods(mods)}, nil
		default:
			return nil, fmt.Errorf("source: unsupported list element type %T", val[0])
		}
	default:
		return nil, fmt.Errorf("source: unsupported value type %T", v)
	}
}

func toStringSlice(val []any) ([]string, error) {
	out := make([]string, len(val))
	for i, item := range val {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("source: list element %d is %T, want string", i, item)
		}
		out[i] = s
	}
	return out, nil
}

func toMods(val []any) ([]artifact.Mod, error) {
	out := make([]artifact.Mod, len(val))
	for i, item := range val {
		m, err := decodeMod(item)
		if err != nil {
			return nil, fmt.Errorf("source: mod element %d: %w", i, err)
		}
		out[i] = m
	}
	return out, nil
}

func decodeMod(v any) (artifact.Mod, error) {
	fields, err := asStringMap(v)
	if err != nil {
		return artifact.Mod{}, err
	}

	name, _ := fields["name"].(string)
	if name == "" {
		return artifact.Mod{}, fmt.Errorf("missing required field %q", "name")
	}
	sourceStr, _ := fields["source"].(string)
	src, err := artifact.ParseModSourceKind(sourceStr)
	if err != nil {
		return artifact.Mod{}, err
	}

	side := artifact.SideBoth
	if rawSide, ok := fields["side"].(string); ok {
		side, err = artifact.ParseSide(rawSide)
		if err != nil {
			return artifact.Mod{}, err
		}
	}

	_, requiredSet := fields["required"]
	_, defaultSet := fields["default"]
	mod := artifact.Mod{
		Source:      src,
		Name:        name,
		ID:          stringField(fields, "id"),
		FileID:      stringField(fields, "file_id"),
		Required:    boolFieldOrDefault(fields, "required", true),
		RequiredSet: requiredSet,
		Default:     boolFieldOrDefault(fields, "default", true),
		DefaultSet:  defaultSet,
		Side:        side,
		Location:    stringField(fields, "location"),
		Filename:    stringField(fields, "filename"),
	}
	if src == artifact.SourceURL && mod.Location == "" {
		return artifact.Mod{}, fmt.Errorf("mod %q: source url requires %q", name, "location")
	}
	return mod, nil
}

func asStringMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mod object key %v is not a string", k)
			}
			out[ks] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected mod object, got %T", v)
	}
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolFieldOrDefault(fields map[string]any, key string, def bool) bool {
	if v, ok := fields[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Schema reports this instance's computed output variant.
func (k *Kind) Schema() registry.Schema {
	return registry.Schema{
		Outputs: []registry.OutputSpec{{Name: "default", Variant: k.variant}},
	}
}

// Run republishes the literal value constructed at load time.
func (k *Kind) Run(_ context.Context, _ registry.Runtime) (map[string]artifact.Artifact, error) {
	return map[string]artifact.Artifact{"default": k.value}, nil
}
