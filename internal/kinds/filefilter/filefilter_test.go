package filefilter_test

import (
	"context"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/filetree"
	"github.com/mmmm-dev/mmmm/internal/fspath"
	"github.com/mmmm-dev/mmmm/internal/kinds/filefilter"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/stretchr/testify/require"
)

func TestRun_PartitionsByRecursiveGlob(t *testing.T) {
	store := contentstore.New()
	b := filetree.NewBuilder(nil)
	for _, path := range []string{"config/mod.cfg", "config/nested/deep.cfg", "mods/sodium.jar", "README.md"} {
		p, err := fspath.New(path)
		require.NoError(t, err)
		hash := store.Put([]byte(path))
		b.Insert(p, filetree.Entry{Hash: hash})
	}

	k, err := filefilter.New(nil)
	require.NoError(t, err)

	rt := registry.Runtime{
		Inputs: map[string]artifact.Artifact{
			"files":   artifact.NewFiles(b.Build(), store),
			"pattern": artifact.NewList([]string{"config/**"}),
		},
	}

	out, err := k.Run(context.Background(), rt)
	require.NoError(t, err)

	matched, _, err := out["default"].FileTree()
	require.NoError(t, err)
	unmatched, _, err := out["inverse"].FileTree()
	require.NoError(t, err)

	require.Equal(t, 2, matched.Len())
	require.Equal(t, 2, unmatched.Len())

	_, ok := matched.Get(mustPath(t, "config/nested/deep.cfg"))
	require.True(t, ok, "** must match nested directories")
	_, ok = unmatched.Get(mustPath(t, "mods/sodium.jar"))
	require.True(t, ok)
}

func mustPath(t *testing.T, raw string) fspath.FilePath {
	t.Helper()
	p, err := fspath.New(raw)
	require.NoError(t, err)
	return p
}
