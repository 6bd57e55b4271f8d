// Package modwriter implements the ModWriter node kind (spec.md §4.2):
// renders a ResolvedMods list into two deterministic textual formats, a
// Nix attribute set and stable-sorted JSON, each carrying the workflow's
// `minecraft_version` at the top level.
package modwriter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "resolved", Allowed: []artifact.Variant{artifact.ResolvedMods}},
	},
	Outputs: []registry.OutputSpec{
		{Name: "default", Variant: artifact.Text},
		{Name: "json", Variant: artifact.Text},
	},
	ConfigKeys: []string{"minecraft_version"},
}

// Kind is a constructed ModWriter node.
type Kind struct{}

// New constructs a ModWriter. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the fixed input/output contract and required config keys.
func (k *Kind) Schema() registry.Schema { return schema }

// Run renders both the Nix and JSON manifests, sorted by mod name.
func (k *Kind) Run(_ context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	mods, err := rt.Inputs["resolved"].ResolvedModsList()
	if err != nil {
		return nil, fmt.Errorf("modwriter: reading resolved: %w", err)
	}
	// The loader only checks that minecraft_version is present
	// (config.Config.Has); Require also rejects it being set to "", since an
	// empty version would otherwise render into every mod's manifest entry.
	mcVersion, ok := rt.Config.Require("minecraft_version")
	if !ok {
		return nil, fmt.Errorf("modwriter: config key %q must not be empty", "minecraft_version")
	}

	sorted := make([]artifact.ResolvedMod, len(mods))
	copy(sorted, mods)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	return map[string]artifact.Artifact{
		"default": artifact.NewText(renderNix(mcVersion, sorted)),
		"json":    artifact.NewText(renderJSON(mcVersion, sorted)),
	}, nil
}

func renderNix(mcVersion string, mods []artifact.ResolvedMod) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{\n  minecraftVersion = %q;\n  mods = [\n", mcVersion)
	for _, m := range mods {
		fmt.Fprintf(&b, "    {\n")
		fmt.Fprintf(&b, "      name = %q;\n", m.Name)
		fmt.Fprintf(&b, "      source = %q;\n", m.Source)
		fmt.Fprintf(&b, "      projectId = %q;\n", m.ProjectID)
		fmt.Fprintf(&b, "      fileId = %q;\n", m.FileIDRes)
		fmt.Fprintf(&b, "      downloadUrl = %q;\n", m.DownloadURL)
		fmt.Fprintf(&b, "      filename = %q;\n", m.Filename)
		fmt.Fprintf(&b, "      fileSize = %d;\n", m.FileSize)
		fmt.Fprintf(&b, "      side = %q;\n", m.Side)
		fmt.Fprintf(&b, "      required = %t;\n", m.Required)
		fmt.Fprintf(&b, "      default = %t;\n", m.Default)
		fmt.Fprintf(&b, "      digests = {\n")
		for _, algo := range sortedKeys(m.Digests) {
			fmt.Fprintf(&b, "        %s = %q;\n", algo, m.Digests[algo])
		}
		fmt.Fprintf(&b, "      };\n")
		fmt.Fprintf(&b, "    }\n")
	}
	b.WriteString("  ];\n}\n")
	return b.String()
}

type jsonMod struct {
	Name        string            `json:"name"`
	Source      string            `json:"source"`
	ProjectID   string            `json:"project_id"`
	FileID      string            `json:"file_id"`
	DownloadURL string            `json:"download_url"`
	Filename    string            `json:"filename"`
	FileSize    int64             `json:"file_size"`
	Side        string            `json:"side"`
	Required    bool              `json:"required"`
	Default     bool              `json:"default"`
	Digests     map[string]string `json:"digests"`
}

type jsonManifest struct {
	MinecraftVersion string    `json:"minecraft_version"`
	Mods             []jsonMod `json:"mods"`
}

func renderJSON(mcVersion string, mods []artifact.ResolvedMod) string {
	manifest := jsonManifest{MinecraftVersion: mcVersion, Mods: make([]jsonMod, len(mods))}
	for i, m := range mods {
		manifest.Mods[i] = jsonMod{
			Name:        m.Name,
			Source:      m.Source.String(),
			ProjectID:   m.ProjectID,
			FileID:      m.FileIDRes,
			DownloadURL: m.DownloadURL,
			Filename:    m.Filename,
			FileSize:    m.FileSize,
			Side:        m.Side.String(),
			Required:    m.Required,
			Default:     m.Default,
			Digests:     m.Digests,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(manifest)
	return buf.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
