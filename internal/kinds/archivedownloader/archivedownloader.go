// Package archivedownloader implements the ArchiveDownloader node kind
// (spec.md §4.2/§4.9): downloads a URL and inflates a ZIP or TAR(.gz)
// archive into a FileTree, hashing each entry into the run's ContentStore.
package archivedownloader

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/filetree"
	"github.com/mmmm-dev/mmmm/internal/fspath"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"resty.dev/v3"
)

var schema = registry.Schema{
	Inputs: []registry.InputSpec{
		{Name: "url", Allowed: []artifact.Variant{artifact.Text}},
	},
	Outputs: []registry.OutputSpec{{Name: "default", Variant: artifact.Files}},
}

// Kind is a constructed ArchiveDownloader node.
type Kind struct {
	client *resty.Client
}

// New constructs an ArchiveDownloader. raw carries no fields of its own; all
// configuration arrives through the `url` input at run time.
func New(_ map[string]any) (registry.Kind, error) {
	return &Kind{client: resty.New()}, nil
}

// Schema reports the fixed input/output contract.
func (k *Kind) Schema() registry.Schema { return schema }

// Run streams the archive at the resolved url into a temp buffer, inflates
// it, and emits the resulting FileTree.
func (k *Kind) Run(ctx context.Context, rt registry.Runtime) (map[string]artifact.Artifact, error) {
	url, err := rt.Inputs["url"].Text()
	if err != nil {
		return nil, fmt.Errorf("archivedownloader: reading url: %w", err)
	}

	resp, err := k.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return nil, fmt.Errorf("archivedownloader: fetching %s: %w", url, err)
	}
	body := resp.Body
	defer body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, fmt.Errorf("archivedownloader: reading response body: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("archivedownloader: %s returned %s", url, resp.Status())
	}

	store := rt.Store
	var tree *filetree.Tree
	switch {
	case strings.HasSuffix(url, ".zip"):
		tree, err = inflateZip(buf.Bytes(), store)
	case strings.HasSuffix(url, ".tar.gz") || strings.HasSuffix(url, ".tgz"):
		tree, err = inflateTarGz(buf.Bytes(), store)
	case strings.HasSuffix(url, ".tar"):
		tree, err = inflateTar(bytes.NewReader(buf.Bytes()), store)
	default:
		tree, err = inflateZip(buf.Bytes(), store)
	}
	if err != nil {
		return nil, fmt.Errorf("archivedownloader: inflating %s: %w", url, err)
	}

	return map[string]artifact.Artifact{"default": artifact.NewFiles(tree, store)}, nil
}

func inflateZip(data []byte, store *contentstore.Store) (*filetree.Tree, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	r.RegisterDecompressor(zip.Deflate, func(in io.Reader) io.ReadCloser {
		return flate.NewReader(in)
	})
	b := filetree.NewBuilder(nil)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		path, err := fspath.New(f.Name)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", f.Name, err)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", f.Name, err)
		}
		contents, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", f.Name, err)
		}
		hash := store.Put(contents)
		b.Insert(path, filetree.Entry{
			Hash:       hash,
			Executable: f.Mode()&0o111 != 0,
			Size:       int64(len(contents)),
		})
	}
	return b.Build(), nil
}

func inflateTarGz(data []byte, store *contentstore.Store) (*filetree.Tree, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return inflateTar(gz, store)
}

func inflateTar(r io.Reader, store *contentstore.Store) (*filetree.Tree, error) {
	tr := tar.NewReader(r)
	b := filetree.NewBuilder(nil)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		path, err := fspath.New(hdr.Name)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", hdr.Name, err)
		}
		contents, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", hdr.Name, err)
		}
		hash := store.Put(contents)
		b.Insert(path, filetree.Entry{
			Hash:       hash,
			Executable: hdr.Mode&0o111 != 0,
			Size:       int64(len(contents)),
		})
	}
	return b.Build(), nil
}
