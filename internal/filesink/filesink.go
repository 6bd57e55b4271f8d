// Package filesink implements the Output node's on-disk collaborator
// (SPEC_FULL.md §4.8): writing Text artifacts literally and assembling
// Files artifacts into a deterministic ZIP archive.
package filesink

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/filetree"
	"github.com/mmmm-dev/mmmm/internal/fspath"
)

// epoch is the pinned modification time for every ZIP entry, keeping the
// archive byte-for-byte reproducible across runs.
var epoch = time.Unix(0, 0).UTC()

func init() {
	// Register klauspost/compress's flate implementation under the standard
	// deflate method id so archive/zip uses it for both directions; it is a
	// drop-in faster codec behind the same interface.
	zip.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}

// WriteText writes text literally to path.
func WriteText(text string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("filesink: creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("filesink: writing %s: %w", path, err)
	}
	return nil
}

// WriteFiles assembles tree into a deterministic ZIP archive at path. The
// extension is normalized to .zip regardless of what the caller passed.
func WriteFiles(tree *filetree.Tree, store *contentstore.Store, path string) error {
	path = normalizeZipExtension(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("filesink: creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("filesink: creating %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	var writeErr error
	tree.Range(func(p fspath.FilePath, entry filetree.Entry) bool {
		hdr := &zip.FileHeader{
			Name:     p.String(),
			Method:   zip.Deflate,
			Modified: epoch,
		}
		mode := os.FileMode(0o644)
		if entry.Executable {
			mode = 0o755
		}
		hdr.SetMode(mode)

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			writeErr = fmt.Errorf("filesink: writing header for %s: %w", p, err)
			return false
		}

		blob, err := store.Get(entry.Hash)
		if err != nil {
			writeErr = fmt.Errorf("filesink: reading blob for %s: %w", p, err)
			return false
		}
		if _, err := w.Write(blob); err != nil {
			writeErr = fmt.Errorf("filesink: writing content for %s: %w", p, err)
			return false
		}
		return true
	})
	if writeErr != nil {
		zw.Close()
		return writeErr
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("filesink: finalizing %s: %w", path, err)
	}
	return nil
}

func normalizeZipExtension(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".zip") {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".zip"
}
