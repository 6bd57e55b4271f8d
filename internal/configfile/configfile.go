// Package configfile parses mmmm.toml (spec.md §6), the file the
// platform-specific configuration locator hands the core ModSource
// construction. Recognized keys: `curse_api_key` XOR `curse_proxy_url`,
// with at least one required before any CurseForge resolution occurs.
package configfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mmmm-dev/mmmm/internal/wferrors"
)

// File is the decoded contents of mmmm.toml.
type File struct {
	CurseAPIKey    string `toml:"curse_api_key"`
	CurseProxyURL  string `toml:"curse_proxy_url"`
	ModrinthAPIURL string `toml:"modrinth_api_url"`
}

// Load reads and parses mmmm.toml from dir. A missing file is not an error:
// it returns a zero File, matching the CLI's best-effort default config
// directory (SPEC_FULL.md §6).
func Load(dir string) (File, error) {
	path := filepath.Join(dir, "mmmm.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return File{}, nil
	}
	if err != nil {
		return File{}, wferrors.Wrap(wferrors.KindIO, err, fmt.Sprintf("reading %s", path))
	}

	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return File{}, wferrors.Wrap(wferrors.KindConfig, err, fmt.Sprintf("parsing %s", path))
	}
	if f.CurseAPIKey != "" && f.CurseProxyURL != "" {
		return File{}, wferrors.New(wferrors.KindConfig, "curse_api_key and curse_proxy_url are mutually exclusive")
	}
	return f, nil
}
