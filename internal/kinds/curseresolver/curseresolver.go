// Package curseresolver implements the CurseResolver node kind (spec.md
// §4.2): parses a CurseForge modpack manifest.json document and produces
// the ResolvedMods list it describes.
package curseresolver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/mmmm-dev/mmmm/internal/wferrors"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "manifest", Allowed: []artifact.Variant{artifact.Text}},
	},
	Outputs: []registry.OutputSpec{{Name: "default", Variant: artifact.ResolvedMods}},
}

// Kind is a constructed CurseResolver node.
type Kind struct{}

// New constructs a CurseResolver. It takes no fields of its own.
func New(_ map[string]any) (registry.Kind, error) { return &Kind{}, nil }

// Schema reports the fixed input/output contract.
func (k *Kind) Schema() registry.Schema { return schema }

type curseManifest struct {
	Minecraft struct {
		Version    string `json:"version"`
		ModLoaders []struct {
			ID      string `json:"id"`
			Primary bool   `json:"primary"`
		} `json:"modLoaders"`
	} `json:"minecraft"`
	Files []struct {
		ProjectID int  `json:"projectID"`
		FileID    int  `json:"fileID"`
		Required  bool `json:"required"`
	} `json:"files"`
}

// Run parses the manifest text as CurseForge pack JSON, then resolves each
// file entry through rt.ModSource (via rt.Cache when present, the same
// cache-then-fallback pattern modresolver.Run uses) to fill in the real
// download URL, filename, file size and digests the manifest itself does
// not carry.
func (k *Kind) Run(ctx context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	raw, err := rt.Inputs["manifest"].Text()
	if err != nil {
		return nil, fmt.Errorf("curseresolver: reading manifest: %w", err)
	}

	var m curseManifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, wferrors.Wrap(wferrors.KindDecode, err, "curseresolver: malformed manifest")
	}

	mods := make([]artifact.ResolvedMod, 0, len(m.Files))
	for _, f := range m.Files {
		projectID := fmt.Sprintf("%d", f.ProjectID)
		fileID := fmt.Sprintf("%d", f.FileID)

		req := modsource.ResolveRequest{
			Source: artifact.SourceCurse,
			Name:   projectID,
			ID:     projectID,
			FileID: fileID,
		}

		var r artifact.ResolvedMod
		if rt.Cache != nil {
			r, err = rt.Cache.Resolve(ctx, rt.ModSource, req)
		} else {
			r, err = rt.ModSource.Resolve(ctx, req)
		}
		if err != nil {
			return nil, fmt.Errorf("curseresolver: resolving project %s file %s: %w", projectID, fileID, err)
		}

		r.Mod.Required = f.Required
		r.Mod.Default = true
		r.Mod.Side = artifact.SideBoth
		r.ProjectID = projectID
		r.FileIDRes = fileID
		mods = append(mods, r)
	}

	return map[string]artifact.Artifact{"default": artifact.NewResolvedMods(mods)}, nil
}
