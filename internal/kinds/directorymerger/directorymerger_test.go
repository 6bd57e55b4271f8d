package directorymerger_test

import (
	"context"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/filetree"
	"github.com/mmmm-dev/mmmm/internal/fspath"
	"github.com/mmmm-dev/mmmm/internal/kinds/directorymerger"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/stretchr/testify/require"
)

func treeWith(t *testing.T, store *contentstore.Store, files map[string]string) *filetree.Tree {
	t.Helper()
	b := filetree.NewBuilder(nil)
	for path, contents := range files {
		p, err := fspath.New(path)
		require.NoError(t, err)
		hash := store.Put([]byte(contents))
		b.Insert(p, filetree.Entry{Hash: hash, Size: int64(len(contents))})
	}
	return b.Build()
}

func TestRun_FirstInputWinsOnPathCollision(t *testing.T) {
	store := contentstore.New()
	first := treeWith(t, store, map[string]string{"mods/a.jar": "first", "config/shared.cfg": "from-first"})
	second := treeWith(t, store, map[string]string{"mods/b.jar": "second", "config/shared.cfg": "from-second"})

	k, err := directorymerger.New(nil)
	require.NoError(t, err)

	rt := registry.Runtime{
		Variadic: []registry.NamedArtifact{
			{Name: "first", Value: artifact.NewFiles(first, store)},
			{Name: "second", Value: artifact.NewFiles(second, store)},
		},
		Store: store,
	}

	out, err := k.Run(context.Background(), rt)
	require.NoError(t, err)

	merged, _, err := out["default"].FileTree()
	require.NoError(t, err)
	require.Equal(t, 3, merged.Len())

	shared, ok := merged.Get(mustPath(t, "config/shared.cfg"))
	require.True(t, ok)
	got, err := store.Get(shared.Hash)
	require.NoError(t, err)
	require.Equal(t, "from-first", string(got))
}

func mustPath(t *testing.T, raw string) fspath.FilePath {
	t.Helper()
	p, err := fspath.New(raw)
	require.NoError(t, err)
	return p
}
