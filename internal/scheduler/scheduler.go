// Package scheduler implements the scheduler described in spec.md §4.4: it
// spawns one task per node, releases the start barrier once every node has
// subscribed, awaits every task, and folds the outcomes into one aggregate
// result. It never cancels a peer on failure; a failed or dropped producer
// surfaces to its consumers organically as a DependencyFailed error — the
// one deliberate departure from the teacher's executor, which cancels the
// whole run on first failure (see DESIGN.md).
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/contentstore"
	"github.com/mmmm-dev/mmmm/internal/ctxlog"
	"github.com/mmmm-dev/mmmm/internal/loader"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/mmmm-dev/mmmm/internal/resolvecache"
	"github.com/mmmm-dev/mmmm/internal/wferrors"
)

// Scheduler drives a loaded Graph to completion.
type Scheduler struct {
	graph     *loader.Graph
	logger    *slog.Logger
	modSource modsource.ModSource
	cache     *resolvecache.Cache
	store     *contentstore.Store
}

// New constructs a Scheduler for graph, using the given capabilities for
// every node's Runtime.
func New(graph *loader.Graph, logger *slog.Logger, src modsource.ModSource, cache *resolvecache.Cache) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		graph:     graph,
		logger:    logger,
		modSource: src,
		cache:     cache,
		store:     contentstore.New(),
	}
}

// Run spawns every node as its own goroutine, releases the start barrier,
// and waits for all of them to finish. It returns an aggregate error naming
// every failed node, or nil if every node succeeded.
func (s *Scheduler) Run(ctx context.Context) error {
	startCh := s.graph.Container.SubscribeStart()
	nodes := s.graph.Nodes

	errs := make([]error, len(nodes))
	var wg sync.WaitGroup
	wg.Add(len(nodes))
	for i, node := range nodes {
		i, node := i, node
		go func() {
			defer wg.Done()
			errs[i] = s.runNode(ctx, node, startCh)
		}()
	}

	// Every node's receivers were subscribed synchronously during
	// loader.Load, before this Run call even started the goroutines above;
	// releasing the barrier now can never race a late subscription.
	s.graph.Container.ReleaseStart()
	wg.Wait()

	var failed []string
	var causes []error
	for i, node := range nodes {
		if errs[i] != nil {
			failed = append(failed, node.ID)
			causes = append(causes, errs[i])
		}
	}
	if len(failed) == 0 {
		return nil
	}
	sort.Strings(failed)
	return fmt.Errorf("workflow failed for node(s) %s: %w", strings.Join(failed, ", "), errors.Join(causes...))
}

// runNode drives a single node through Waiting -> Gathering -> Running ->
// Completed|Failed.
func (s *Scheduler) runNode(ctx context.Context, node *loader.Node, startCh <-chan struct{}) error {
	select {
	case <-startCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	inputs := make(map[string]artifact.Artifact, len(node.Inputs))
	for _, spec := range node.Schema.Inputs {
		recv, ok := node.Inputs[spec.Name]
		if !ok {
			continue
		}
		val, err := recv.Await(ctx)
		if err != nil {
			err = wferrors.DependencyFailed(recv.Ref().NodeID, err)
			s.failOutputs(node, err)
			return err
		}
		inputs[spec.Name] = val
	}

	var variadic []registry.NamedArtifact
	if node.Schema.Variadic && len(node.Variadic) > 0 {
		names := make([]string, 0, len(node.Variadic))
		for name := range node.Variadic {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			recv := node.Variadic[name]
			val, err := recv.Await(ctx)
			if err != nil {
				err = wferrors.DependencyFailed(recv.Ref().NodeID, err)
				s.failOutputs(node, err)
				return err
			}
			variadic = append(variadic, registry.NamedArtifact{Name: name, Value: val})
		}
	}

	nodeLogger := s.logger.With("node_id", node.ID)
	rt := registry.Runtime{
		NodeID:    node.ID,
		Logger:    nodeLogger,
		Inputs:    inputs,
		Variadic:  variadic,
		Config:    s.graph.Config,
		ModSource: s.modSource,
		Cache:     s.cache,
		Store:     s.store,
	}

	// The per-node logger also travels on the context, so a Kind that calls
	// out to a nested collaborator (a retry helper, a sub-goroutine) can
	// recover it without threading rt.Logger through every signature.
	ctx = ctxlog.WithLogger(ctx, nodeLogger)
	outputs, err := node.Kind.Run(ctx, rt)
	if err != nil {
		nerr := wferrors.NodeFailure(node.ID, err)
		s.failOutputs(node, nerr)
		return nerr
	}

	for name, sender := range node.Outputs {
		val, ok := outputs[name]
		if !ok {
			err := wferrors.New(wferrors.KindNode, fmt.Sprintf("node %q: kind did not produce declared output %q", node.ID, name))
			sender.Fail(err)
			continue
		}
		sender.Send(val)
	}
	return nil
}

// failOutputs releases every output sender without publishing, so
// downstream consumers observe the dependency failure rather than hanging.
func (s *Scheduler) failOutputs(node *loader.Node, err error) {
	for _, sender := range node.Outputs {
		sender.Fail(err)
	}
}
