package filesink_test

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/filesink"
	"github.com/mmmm-dev/mmmm/internal/filetree"
	"github.com/mmmm-dev/mmmm/internal/fspath"
	"github.com/stretchr/testify/require"
)

func TestWriteText_CreatesParentDirectoriesAndWritesBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "modpack.nix")

	require.NoError(t, filesink.WriteText("hello", path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestWriteFiles_NormalizesExtensionAndPreservesContent(t *testing.T) {
	store := contentstore.New()
	b := filetree.NewBuilder(nil)
	p, err := fspath.New("mods/sodium.jar")
	require.NoError(t, err)
	hash := store.Put([]byte("jar contents"))
	b.Insert(p, filetree.Entry{Hash: hash})

	dir := t.TempDir()
	path := filepath.Join(dir, "modpack.tar")

	require.NoError(t, filesink.WriteFiles(b.Build(), store, path))

	zipPath := filepath.Join(dir, "modpack.zip")
	_, err = os.Stat(zipPath)
	require.NoError(t, err, "extension must be normalized to .zip")

	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 1)
	require.Equal(t, "mods/sodium.jar", r.File[0].Name)

	rc, err := r.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "jar contents", string(content))
}

func TestWriteFiles_ProducesDeterministicArchiveAcrossRuns(t *testing.T) {
	store := contentstore.New()
	b := filetree.NewBuilder(nil)
	p, err := fspath.New("README.md")
	require.NoError(t, err)
	hash := store.Put([]byte("readme"))
	b.Insert(p, filetree.Entry{Hash: hash})
	tree := b.Build()

	dir := t.TempDir()
	first := filepath.Join(dir, "a.zip")
	second := filepath.Join(dir, "b.zip")
	require.NoError(t, filesink.WriteFiles(tree, store, first))
	require.NoError(t, filesink.WriteFiles(tree, store, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b2, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Equal(t, a, b2, "identical trees must produce byte-identical archives")
}
