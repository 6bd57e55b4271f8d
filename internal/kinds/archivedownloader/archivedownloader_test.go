package archivedownloader_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/fspath"
	"github.com/mmmm-dev/mmmm/internal/kinds/archivedownloader"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, contents := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestRun_InflatesZipArchiveIntoFileTree(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"config/mod.cfg": "enable=true",
		"README.md":      "readme",
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	k, err := archivedownloader.New(nil)
	require.NoError(t, err)

	rt := registry.Runtime{
		Inputs: map[string]artifact.Artifact{"url": artifact.NewText(srv.URL + "/pack.zip")},
		Store:  contentstore.New(),
	}

	out, err := k.Run(context.Background(), rt)
	require.NoError(t, err)

	tree, store, err := out["default"].FileTree()
	require.NoError(t, err)
	require.Equal(t, 2, tree.Len())

	p, err := fspath.New("config/mod.cfg")
	require.NoError(t, err)
	entry, ok := tree.Get(p)
	require.True(t, ok)
	blob, err := store.Get(entry.Hash)
	require.NoError(t, err)
	require.Equal(t, "enable=true", string(blob))
}

func TestRun_PropagatesHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	k, err := archivedownloader.New(nil)
	require.NoError(t, err)

	rt := registry.Runtime{
		Inputs: map[string]artifact.Artifact{"url": artifact.NewText(srv.URL + "/missing.zip")},
		Store:  contentstore.New(),
	}

	_, err = k.Run(context.Background(), rt)
	require.Error(t, err)
}
