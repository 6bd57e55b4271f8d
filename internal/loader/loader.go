// Package loader implements the graph loader & validator (spec.md §4.3):
// parses the workflow YAML into nodes, runs the six-stage validation
// pipeline collecting every problem before abort, then wires the validated
// graph into a container.Container ready for the scheduler.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/config"
	"github.com/mmmm-dev/mmmm/internal/container"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/mmmm-dev/mmmm/internal/wferrors"
)

// Node is a fully validated, constructed graph node, wired to its upstream
// receivers and downstream senders, ready for the scheduler.
type Node struct {
	ID     string
	Kind   registry.Kind
	Schema registry.Schema

	// Inputs holds a Receiver per non-variadic declared input name that was
	// actually wired.
	Inputs map[string]container.Receiver
	// Variadic holds a Receiver per variadic input name, keyed by the name
	// the workflow author gave it in the `input` map.
	Variadic map[string]container.Receiver
	// Outputs holds a Sender per declared output name.
	Outputs map[string]container.Sender
}

// Graph is the fully loaded, validated, wired workflow.
type Graph struct {
	Config    config.Config
	Container *container.Container
	Nodes     []*Node
}

type rawDoc struct {
	Config map[string]string `yaml:"config"`
	Nodes  []map[string]any  `yaml:"nodes"`
}

// outRef is a parsed "target_id[::output_name]" reference.
type outRef struct {
	nodeID string
	output string
}

func parseRef(raw string) outRef {
	if nodeID, output, ok := strings.Cut(raw, "::"); ok {
		return outRef{nodeID: nodeID, output: output}
	}
	return outRef{nodeID: raw, output: "default"}
}

// entry is the intermediate bookkeeping for one parsed+constructed node,
// before edges are resolved and validated.
type entry struct {
	id        string
	kindName  string
	kind      registry.Kind
	schema    registry.Schema
	inputRefs map[string]outRef // declared input name -> parsed producer ref
}

// Load parses doc and validates it against reg, returning a fully wired
// Graph or a batch of every validation problem found.
func Load(doc []byte, reg *registry.Registry) (*Graph, error) {
	var raw rawDoc
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, wferrors.Wrap(wferrors.KindParse, err, "malformed workflow YAML")
	}

	var diags wferrors.Diagnostics

	entries, order := parseAndConstruct(raw.Nodes, reg, &diags)
	if diags.HasErrors() {
		return nil, diags.Err()
	}

	resolveInputRefs(entries, order, &diags)
	if diags.HasErrors() {
		return nil, diags.Err()
	}

	checkTypes(entries, order, &diags)
	detectCycles(entries, order, &diags)
	cfg := config.New(raw.Config)
	checkRequiredConfig(entries, order, cfg, &diags)

	if diags.HasErrors() {
		return nil, diags.Err()
	}

	return wire(entries, order, cfg), nil
}

// parseAndConstruct runs validation stages 1-2 (spec.md §4.3): duplicate id
// detection and per-node kind construction. order preserves YAML document
// order, which later stages and the wired Graph.Nodes both follow.
func parseAndConstruct(rawNodes []map[string]any, reg *registry.Registry, diags *wferrors.Diagnostics) (map[string]*entry, []string) {
	entries := make(map[string]*entry)
	order := make([]string, 0, len(rawNodes))

	for i, n := range rawNodes {
		id, _ := n["id"].(string)
		_, hasKind := n["kind"]
		_, hasValue := n["value"]
		_, hasSource := n["source"]

		var kindName string
		var inputRefs map[string]outRef

		switch {
		case hasValue && !hasKind:
			kindName = "Source"
			if id == "" {
				diags.Addf("node %d: source node missing required field %q", i, "id")
				continue
			}
		case hasSource && !hasKind:
			kindName = "Output"
			if id == "" {
				id = fmt.Sprintf("__output_%d", i)
			}
			srcRaw, _ := n["source"].(string)
			inputRefs = map[string]outRef{"source": parseRef(srcRaw)}
		case hasKind:
			kindName, _ = n["kind"].(string)
			if id == "" {
				diags.Addf("node %d: missing required field %q", i, "id")
				continue
			}
			inputRefs = map[string]outRef{}
			if rawInput, ok := n["input"].(map[string]any); ok {
				for name, v := range rawInput {
					s, _ := v.(string)
					inputRefs[name] = parseRef(s)
				}
			}
		default:
			diags.Addf("node %d: cannot determine node type; expected one of %q, %q, %q", i, "value", "source", "kind")
			continue
		}

		if _, dup := entries[id]; dup {
			diags.Addf("duplicate node id %q", id)
			continue
		}

		if !reg.Has(kindName) {
			diags.Addf("node %q: unknown kind %q (known kinds: %s)", id, kindName, strings.Join(reg.Names(), ", "))
			continue
		}
		kind, err := reg.Construct(kindName, n)
		if err != nil {
			diags.Addf("node %q: %v", id, err)
			continue
		}

		entries[id] = &entry{id: id, kindName: kindName, kind: kind, schema: kind.Schema(), inputRefs: inputRefs}
		order = append(order, id)
	}

	return entries, order
}

// resolveInputRefs runs validation stage 3: every declared input must name
// a known target node and a known output of that target.
func resolveInputRefs(entries map[string]*entry, order []string, diags *wferrors.Diagnostics) {
	for _, id := range order {
		e := entries[id]
		for name, ref := range e.inputRefs {
			target, ok := entries[ref.nodeID]
			if !ok {
				diags.Addf("node %q: input %q references unknown node %q", id, name, ref.nodeID)
				continue
			}
			if _, ok := target.schema.OutputSpecFor(ref.output); !ok {
				diags.Addf("node %q: input %q references unknown output %q of node %q", id, name, ref.output, ref.nodeID)
			}
		}
	}
}

// checkTypes runs validation stage 4: declared channel variant must match
// the consumer's expected variant for that input slot, and every variadic
// input must share the kind's single declared variadic variant.
func checkTypes(entries map[string]*entry, order []string, diags *wferrors.Diagnostics) {
	for _, id := range order {
		e := entries[id]
		for name, ref := range e.inputRefs {
			target := entries[ref.nodeID]
			outSpec, ok := target.schema.OutputSpecFor(ref.output)
			if !ok {
				continue // already reported by resolveInputRefs
			}

			if inSpec, ok := e.schema.InputSpecFor(name); ok {
				if !inSpec.Accepts(outSpec.Variant) {
					diags.Addf("node %q: input %q expected %s, got %s from %q", id, name, variantNames(inSpec.Allowed), outSpec.Variant, ref.nodeID)
				}
				continue
			}

			if e.schema.Variadic {
				if outSpec.Variant != e.schema.VariadicVariant {
					diags.Addf("node %q: variadic input %q expected %s, got %s from %q", id, name, e.schema.VariadicVariant, outSpec.Variant, ref.nodeID)
				}
				continue
			}

			diags.Addf("node %q: unexpected input %q (kind %q accepts no such slot and is not variadic)", id, name, e.kindName)
		}
	}
}

func variantNames(vs []artifact.Variant) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return strings.Join(names, " or ")
}

// checkRequiredConfig runs validation stage 6: every config key a
// constructed kind declares must be present in the workflow's Config.
func checkRequiredConfig(entries map[string]*entry, order []string, cfg config.Config, diags *wferrors.Diagnostics) {
	for _, id := range order {
		e := entries[id]
		for _, key := range e.schema.ConfigKeys {
			if !cfg.Has(key) {
				diags.Addf("node %q: kind %q requires config key %q", id, e.kindName, key)
			}
		}
	}
}

// detectCycles runs validation stage 5: Tarjan's SCC algorithm over the
// (consumer -> producer) digraph; any nontrivial SCC (size > 1, or a
// single node with a self-edge) is a cycle.
func detectCycles(entries map[string]*entry, order []string, diags *wferrors.Diagnostics) {
	adj := make(map[string][]string, len(order))
	for _, id := range order {
		for _, ref := range entries[id].inputRefs {
			if _, ok := entries[ref.nodeID]; ok {
				adj[id] = append(adj[id], ref.nodeID)
			}
		}
	}

	t := &tarjan{
		adj:     adj,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, id := range order {
		if _, visited := t.index[id]; !visited {
			t.strongConnect(id)
		}
	}

	for _, scc := range t.sccs {
		if len(scc) > 1 {
			sort.Strings(scc)
			diags.Addf("cycle detected among nodes: %s", strings.Join(scc, ", "))
			continue
		}
		// A single-node SCC is only a cycle if it has a self-edge.
		n := scc[0]
		for _, dep := range adj[n] {
			if dep == n {
				diags.Addf("cycle detected: node %q depends on itself", n)
				break
			}
		}
	}
}

// tarjan implements Tarjan's strongly-connected-components algorithm over a
// string-keyed adjacency list.
type tarjan struct {
	adj     map[string][]string
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}

// wire registers every declared output with the Container, subscribes
// every declared input, and assembles the final Node slice in document
// order. Must only be called once every validation stage has passed:
// sender/receiver registration assumes well-formed references.
func wire(entries map[string]*entry, order []string, cfg config.Config) *Graph {
	c := container.New()

	for _, id := range order {
		e := entries[id]
		for _, out := range e.schema.Outputs {
			c.Register(id, out.Name)
		}
	}

	nodes := make([]*Node, 0, len(order))
	for _, id := range order {
		e := entries[id]

		node := &Node{
			ID:       id,
			Kind:     e.kind,
			Schema:   e.schema,
			Inputs:   map[string]container.Receiver{},
			Variadic: map[string]container.Receiver{},
			Outputs:  map[string]container.Sender{},
		}

		for name, ref := range e.inputRefs {
			recv, _ := c.Subscribe(ref.nodeID, ref.output)
			if _, ok := e.schema.InputSpecFor(name); ok {
				node.Inputs[name] = recv
			} else {
				node.Variadic[name] = recv
			}
		}

		for _, out := range e.schema.Outputs {
			sender, _ := c.GetSender(id, out.Name)
			node.Outputs[out.Name] = sender
		}

		nodes = append(nodes, node)
	}

	return &Graph{Config: cfg, Container: c, Nodes: nodes}
}
