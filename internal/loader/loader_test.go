package loader_test

import (
	"testing"

	"github.com/mmmm-dev/mmmm/internal/kinds"
	"github.com/mmmm-dev/mmmm/internal/loader"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *registry.Registry {
	r := registry.New()
	kinds.RegisterAll(r)
	return r
}

func TestLoad_MinimalTextPipeline(t *testing.T) {
	doc := []byte(`
nodes:
  - id: greeting
    value: "hello world"
  - source: greeting
    filename: greeting.txt
`)
	graph, err := loader.Load(doc, newRegistry())
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)
}

func TestLoad_RejectsUnknownKind(t *testing.T) {
	doc := []byte(`
nodes:
  - id: a
    kind: NotARealKind
`)
	_, err := loader.Load(doc, newRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestLoad_RejectsUnknownInputReference(t *testing.T) {
	doc := []byte(`
nodes:
  - id: merge
    kind: DirectoryMerger
    input:
      files: ghost::default
`)
	_, err := loader.Load(doc, newRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node")
}

func TestLoad_RejectsTypeMismatch(t *testing.T) {
	doc := []byte(`
nodes:
  - id: text
    value: "not a mods list"
  - id: resolve
    kind: ModResolver
    input:
      mods: text::default
`)
	_, err := loader.Load(doc, newRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected Mods")
}

func TestLoad_RejectsDirectCycle(t *testing.T) {
	doc := []byte(`
nodes:
  - id: a
    kind: ModFilter
    input:
      mods: b::default
      filters: b::default
  - id: b
    kind: ModFilter
    input:
      mods: a::default
      filters: a::default
`)
	_, err := loader.Load(doc, newRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestLoad_RejectsSelfCycle(t *testing.T) {
	doc := []byte(`
nodes:
  - id: a
    kind: DirectoryMerger
    input:
      self: a::default
`)
	_, err := loader.Load(doc, newRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestLoad_RejectsMissingRequiredConfig(t *testing.T) {
	doc := []byte(`
nodes:
  - id: mods
    value:
      - name: sodium
        source: modrinth
        id: AANobbMI
  - id: resolve
    kind: ModResolver
    input:
      mods: mods::default
`)
	_, err := loader.Load(doc, newRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires config key")
}

func TestLoad_RejectsDuplicateNodeID(t *testing.T) {
	doc := []byte(`
nodes:
  - id: dup
    value: "a"
  - id: dup
    value: "b"
`)
	_, err := loader.Load(doc, newRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node id")
}

func TestLoad_WiresVariadicDirectoryMerger(t *testing.T) {
	doc := []byte(`
config:
  minecraft_version: "1.20.1"
  modloader: fabric
nodes:
  - id: a
    value: "http://example.test/a.zip"
  - id: b
    value: "http://example.test/b.zip"
  - id: fetch_a
    kind: ArchiveDownloader
    input:
      url: a::default
  - id: fetch_b
    kind: ArchiveDownloader
    input:
      url: b::default
  - id: merge
    kind: DirectoryMerger
    input:
      first: fetch_a::default
      second: fetch_b::default
`)
	graph, err := loader.Load(doc, newRegistry())
	require.NoError(t, err)

	var merge *loader.Node
	for _, n := range graph.Nodes {
		if n.ID == "merge" {
			merge = n
		}
	}
	require.NotNil(t, merge)
	assert.Len(t, merge.Variadic, 2)
	assert.Empty(t, merge.Inputs)
}
