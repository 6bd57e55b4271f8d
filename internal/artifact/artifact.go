// Package artifact defines Artifact, the single tagged-union value type
// exchanged on channels, and the Mod/ResolvedMod value objects it carries.
package artifact

import (
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/filetree"
)

// Variant identifies which field of an Artifact is populated.
type Variant int

const (
	Text Variant = iota
	List
	Mods
	ResolvedMods
	Files
)

// String renders the variant name for diagnostics.
func (v Variant) String() string {
	switch v {
	case Text:
		return "Text"
	case List:
		return "List"
	case Mods:
		return "Mods"
	case ResolvedMods:
		return "ResolvedMods"
	case Files:
		return "Files"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ModSourceKind identifies where an unresolved Mod comes from.
type ModSourceKind int

const (
	SourceCurse ModSourceKind = iota
	SourceModrinth
	SourceURL
)

func (k ModSourceKind) String() string {
	switch k {
	case SourceCurse:
		return "curse"
	case SourceModrinth:
		return "modrinth"
	case SourceURL:
		return "url"
	default:
		return "unknown"
	}
}

// ParseModSourceKind parses the YAML `source` field value.
func ParseModSourceKind(s string) (ModSourceKind, error) {
	switch s {
	case "curse":
		return SourceCurse, nil
	case "modrinth":
		return SourceModrinth, nil
	case "url":
		return SourceURL, nil
	default:
		return 0, fmt.Errorf("artifact: unknown mod source %q", s)
	}
}

// Side is the client/server applicability of a mod.
type Side int

const (
	SideBoth Side = iota
	SideClient
	SideServer
)

func (s Side) String() string {
	switch s {
	case SideClient:
		return "client"
	case SideServer:
		return "server"
	default:
		return "both"
	}
}

// ParseSide parses the YAML `side` field value.
func ParseSide(s string) (Side, error) {
	switch s {
	case "", "both":
		return SideBoth, nil
	case "client":
		return SideClient, nil
	case "server":
		return SideServer, nil
	default:
		return 0, fmt.Errorf("artifact: unknown side %q", s)
	}
}

// Mod is an unresolved mod list entry.
type Mod struct {
	Source ModSourceKind
	Name   string

	ID     string
	FileID string

	// Required and Default default to true when unset in YAML. RequiredSet
	// and DefaultSet record whether the YAML body actually set the field,
	// which ModOverrider needs to distinguish "apply this field" from
	// "field absent, leave untouched" (SPEC_FULL.md §3).
	Required    bool
	RequiredSet bool
	Default     bool
	DefaultSet  bool
	Side        Side

	// Location and Filename are only meaningful for Source == SourceURL.
	Location string
	Filename string
}

// ResolvedMod is a Mod plus upstream-resolved download coordinates.
type ResolvedMod struct {
	Mod

	DownloadURL string
	Filename    string
	FileSize    int64
	// Digests maps an algorithm name ("md5", "sha1", "sha256") to its hex
	// digest, as provided by upstream; absent algorithms are simply missing
	// keys.
	Digests map[string]string

	ProjectID string
	FileIDRes string
}

// Artifact is the single typed value published on a channel.
type Artifact struct {
	variant      Variant
	text         string
	list         []string
	mods         []Mod
	resolvedMods []ResolvedMod
	files        *filetree.Tree
	store        *contentstore.Store
}

// NewText constructs a Text artifact.
func NewText(s string) Artifact { return Artifact{variant: Text, text: s} }

// NewList constructs a List artifact.
func NewList(items []string) Artifact { return Artifact{variant: List, list: items} }

// NewMods constructs a Mods artifact.
func NewMods(mods []Mod) Artifact { return Artifact{variant: Mods, mods: mods} }

// NewResolvedMods constructs a ResolvedMods artifact.
func NewResolvedMods(mods []ResolvedMod) Artifact {
	return Artifact{variant: ResolvedMods, resolvedMods: mods}
}

// NewFiles constructs a Files artifact. The ContentStore handle travels
// alongside the tree so a downstream node can dereference hashes without a
// separate lookup path; see SPEC_FULL.md §3.
func NewFiles(tree *filetree.Tree, store *contentstore.Store) Artifact {
	return Artifact{variant: Files, files: tree, store: store}
}

// Variant reports which field is populated.
func (a Artifact) Variant() Variant { return a.variant }

// Text returns the Text payload, failing if the variant doesn't match.
func (a Artifact) Text() (string, error) {
	if a.variant != Text {
		return "", fmt.Errorf("artifact: expected Text, got %s", a.variant)
	}
	return a.text, nil
}

// List returns the List payload, failing if the variant doesn't match.
func (a Artifact) List() ([]string, error) {
	if a.variant != List {
		return nil, fmt.Errorf("artifact: expected List, got %s", a.variant)
	}
	return a.list, nil
}

// ModsList returns the Mods payload, failing if the variant doesn't match.
func (a Artifact) ModsList() ([]Mod, error) {
	if a.variant != Mods {
		return nil, fmt.Errorf("artifact: expected Mods, got %s", a.variant)
	}
	return a.mods, nil
}

// ResolvedModsList returns the ResolvedMods payload, failing if the variant
// doesn't match.
func (a Artifact) ResolvedModsList() ([]ResolvedMod, error) {
	if a.variant != ResolvedMods {
		return nil, fmt.Errorf("artifact: expected ResolvedMods, got %s", a.variant)
	}
	return a.resolvedMods, nil
}

// FileTree returns the Files payload and its backing store, failing if the
// variant doesn't match.
func (a Artifact) FileTree() (*filetree.Tree, *contentstore.Store, error) {
	if a.variant != Files {
		return nil, nil, fmt.Errorf("artifact: expected Files, got %s", a.variant)
	}
	return a.files, a.store, nil
}
