package curseresolver_test

import (
	"context"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/kinds/curseresolver"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/stretchr/testify/require"
)

const manifest = `{
  "minecraft": {
    "version": "1.20.1",
    "modLoaders": [{"id": "fabric-0.15.0", "primary": true}]
  },
  "files": [
    {"projectID": 238222, "fileID": 4567890, "required": true},
    {"projectID": 310806, "fileID": 1234567, "required": false}
  ]
}`

func TestRun_ConvertsManifestFilesToResolvedMods(t *testing.T) {
	fake := modsource.NewFake()
	fake.Register(
		modsource.ResolveRequest{Source: artifact.SourceCurse, Name: "238222", ID: "238222", FileID: "4567890"},
		artifact.ResolvedMod{
			DownloadURL: "https://edge.forgecdn.net/files/1/2/sodium.jar",
			Filename:    "sodium.jar",
			FileSize:    1024,
			Digests:     map[string]string{"sha1": "abc123"},
		},
	)
	fake.Register(
		modsource.ResolveRequest{Source: artifact.SourceCurse, Name: "310806", ID: "310806", FileID: "1234567"},
		artifact.ResolvedMod{
			DownloadURL: "https://edge.forgecdn.net/files/3/4/lithium.jar",
			Filename:    "lithium.jar",
			FileSize:    2048,
			Digests:     map[string]string{"sha1": "def456"},
		},
	)

	k, err := curseresolver.New(nil)
	require.NoError(t, err)

	rt := registry.Runtime{
		Inputs:    map[string]artifact.Artifact{"manifest": artifact.NewText(manifest)},
		ModSource: fake,
	}

	out, err := k.Run(context.Background(), rt)
	require.NoError(t, err)

	mods, err := out["default"].ResolvedModsList()
	require.NoError(t, err)
	require.Len(t, mods, 2)

	require.Equal(t, artifact.SourceCurse, mods[0].Source)
	require.Equal(t, "238222", mods[0].ProjectID)
	require.Equal(t, "4567890", mods[0].FileIDRes)
	require.True(t, mods[0].Required)
	require.Equal(t, "https://edge.forgecdn.net/files/1/2/sodium.jar", mods[0].DownloadURL)
	require.Equal(t, "sodium.jar", mods[0].Filename)
	require.Equal(t, int64(1024), mods[0].FileSize)
	require.Equal(t, "abc123", mods[0].Digests["sha1"])

	require.False(t, mods[1].Required)
	require.Equal(t, "lithium.jar", mods[1].Filename)
	require.Equal(t, "def456", mods[1].Digests["sha1"])
}

func TestRun_RejectsMalformedManifest(t *testing.T) {
	k, err := curseresolver.New(nil)
	require.NoError(t, err)

	rt := registry.Runtime{
		Inputs: map[string]artifact.Artifact{"manifest": artifact.NewText("not json")},
	}

	_, err = k.Run(context.Background(), rt)
	require.Error(t, err)
}

func TestRun_PropagatesModSourceResolutionError(t *testing.T) {
	k, err := curseresolver.New(nil)
	require.NoError(t, err)

	rt := registry.Runtime{
		Inputs:    map[string]artifact.Artifact{"manifest": artifact.NewText(manifest)},
		ModSource: modsource.NewFake(), // nothing registered, every lookup fails
	}

	_, err = k.Run(context.Background(), rt)
	require.Error(t, err)
}
