// Package kinds wires every node-kind implementation into a registry.Registry.
// internal/app calls RegisterAll once when it constructs an App.
package kinds

import (
	"github.com/mmmm-dev/mmmm/internal/kinds/archivedownloader"
	"github.com/mmmm-dev/mmmm/internal/kinds/curseresolver"
	"github.com/mmmm-dev/mmmm/internal/kinds/directorymerger"
	"github.com/mmmm-dev/mmmm/internal/kinds/filefilter"
	"github.com/mmmm-dev/mmmm/internal/kinds/filepicker"
	"github.com/mmmm-dev/mmmm/internal/kinds/modfilter"
	"github.com/mmmm-dev/mmmm/internal/kinds/modmerger"
	"github.com/mmmm-dev/mmmm/internal/kinds/modoverrider"
	"github.com/mmmm-dev/mmmm/internal/kinds/modresolver"
	"github.com/mmmm-dev/mmmm/internal/kinds/modwriter"
	"github.com/mmmm-dev/mmmm/internal/kinds/output"
	"github.com/mmmm-dev/mmmm/internal/kinds/source"
	"github.com/mmmm-dev/mmmm/internal/registry"
)

// RegisterAll registers every node kind named in spec.md §4.2 under its
// canonical YAML `kind` name. Source is special-cased by the loader (it has
// no `kind` field in YAML) but is registered here too so validation/hint
// listing sees it.
func RegisterAll(r *registry.Registry) {
	r.Register("Source", source.New)
	r.Register("ArchiveDownloader", archivedownloader.New)
	r.Register("DirectoryMerger", directorymerger.New)
	r.Register("ModMerger", modmerger.New)
	r.Register("FileFilter", filefilter.New)
	r.Register("ModResolver", modresolver.New)
	r.Register("ModWriter", modwriter.New)
	r.Register("CurseResolver", curseresolver.New)
	r.Register("FilePicker", filepicker.New)
	r.Register("ModOverrider", modoverrider.New)
	r.Register("ModFilter", modfilter.New)
	r.Register("Output", output.New)
}
