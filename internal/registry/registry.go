// Package registry is the node-kind catalogue described in SPEC_FULL.md
// §4.2: for every kind it holds the required input names and their expected
// Artifact variants, whether the kind is variadic, its output names and
// variants, and the config keys it reads. The loader uses this table both
// to validate the workflow YAML and to construct node instances.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/config"
	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"github.com/mmmm-dev/mmmm/internal/resolvecache"
)

// InputSpec describes one named, non-variadic input slot.
type InputSpec struct {
	Name string
	// Allowed is the set of Artifact variants this slot accepts. Most slots
	// accept exactly one; Output's `source` slot accepts Text or Files.
	Allowed []artifact.Variant
}

// Accepts reports whether v satisfies this input slot.
func (s InputSpec) Accepts(v artifact.Variant) bool {
	for _, a := range s.Allowed {
		if a == v {
			return true
		}
	}
	return false
}

// OutputSpec describes one named output.
type OutputSpec struct {
	Name    string
	Variant artifact.Variant
}

// Schema is a node kind's static input/output contract, as reported by a
// constructed Kind instance (Source instances compute their own Outputs
// dynamically from the literal `value` shape; all other kinds return a
// fixed Schema regardless of instance).
type Schema struct {
	Inputs   []InputSpec
	Variadic bool
	// VariadicVariant is the single Artifact variant every variadic input
	// must share, meaningful only when Variadic is true.
	VariadicVariant artifact.Variant
	Outputs         []OutputSpec
	// ConfigKeys are Workflow Config keys this kind requires to be present.
	ConfigKeys []string
}

// InputSpecFor looks up the declared spec for a non-variadic input name.
func (s Schema) InputSpecFor(name string) (InputSpec, bool) {
	for _, in := range s.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSpec{}, false
}

// OutputSpecFor looks up the declared spec for an output name.
func (s Schema) OutputSpecFor(name string) (OutputSpec, bool) {
	for _, out := range s.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return OutputSpec{}, false
}

// NamedArtifact pairs an input name with its resolved value, used for
// variadic inputs where order (sorted ascending by name) is significant for
// the merger tie-break rule.
type NamedArtifact struct {
	Name  string
	Value artifact.Artifact
}

// Runtime bundles everything a Kind's Run needs: its resolved inputs,
// process configuration, and shared capabilities. The scheduler builds one
// per node execution after the node's Gathering phase completes.
type Runtime struct {
	NodeID string
	Logger *slog.Logger

	// Inputs holds resolved values for every non-variadic declared input.
	Inputs map[string]artifact.Artifact
	// Variadic holds resolved values for every wired variadic input,
	// sorted ascending by input name (spec.md §4.2 tie-break rule).
	Variadic []NamedArtifact

	Config    config.Config
	ModSource modsource.ModSource
	Cache     *resolvecache.Cache
	// Store is the single ContentStore shared by every node in the run
	// (spec.md §3: "Shared by all nodes in a run"). Any Files artifact a
	// node produces must bundle this same handle.
	Store *contentstore.Store
}

// Kind is the shared capability every node-kind instance implements. The
// YAML graph is polymorphic at load time; at run time each node is one
// concrete Kind value (spec.md §9's "dynamic-typed graph -> static
// dispatch").
type Kind interface {
	// Schema reports this instance's input/output contract.
	Schema() Schema
	// Run executes the node's body. The returned map must have exactly one
	// entry per declared output name.
	Run(ctx context.Context, rt Runtime) (map[string]artifact.Artifact, error)
}

// Constructor builds a Kind instance from a node's raw YAML body. raw is
// the whole decoded node mapping (e.g. `value` for Source), including the
// generic `id`/`kind`/`input` envelope fields, which constructors ignore.
type Constructor func(raw map[string]any) (Kind, error)

// Registry is the static catalogue of node kinds.
type Registry struct {
	ctors map[string]Constructor
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds a node kind under name. Registering the same name twice
// panics, mirroring the teacher's "programmer error, fail loudly at
// startup" registration discipline.
func (r *Registry) Register(name string, ctor Constructor) {
	if _, exists := r.ctors[name]; exists {
		panic(fmt.Sprintf("registry: kind %q already registered", name))
	}
	r.ctors[name] = ctor
}

// Construct builds a Kind instance of the named kind.
func (r *Registry) Construct(name string, raw map[string]any) (Kind, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown kind %q (known kinds: %v)", name, r.Names())
	}
	return ctor(raw)
}

// Has reports whether name is a registered kind.
func (r *Registry) Has(name string) bool {
	_, ok := r.ctors[name]
	return ok
}

// Names returns every registered kind name, for validation error hint
// lists (spec.md §4.3 step 2).
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ctors))
	for n := range r.ctors {
		names = append(names, n)
	}
	return names
}
