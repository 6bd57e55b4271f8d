// Package container implements the channel fabric described in
// SPEC_FULL.md §4.1: a Container owns, for every (node_id, output_name), a
// single-publication broadcast cell, plus a unit-typed start barrier every
// node subscribes to before the scheduler releases it.
//
// The broadcast primitive is a classic Go idiom: a channel that is only
// ever closed, never sent on. Every receiver observes the close regardless
// of when it started waiting, which is exactly the "all N consumers observe
// the same value" contract spec.md §8 requires — the same mechanism the
// standard library uses for context.Done().
package container

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmmm-dev/mmmm/internal/artifact"
)

// Ref identifies a channel by its owning node and output name.
type Ref struct {
	NodeID string
	Output string
}

func (r Ref) String() string {
	return r.NodeID + "::" + r.Output
}

type cell struct {
	ready     chan struct{}
	closeOnce sync.Once
	value     artifact.Artifact
	err       error
}

func newCell() *cell {
	return &cell{ready: make(chan struct{})}
}

func (c *cell) publish(a artifact.Artifact) {
	c.closeOnce.Do(func() {
		c.value = a
		close(c.ready)
	})
}

func (c *cell) fail(err error) {
	c.closeOnce.Do(func() {
		c.err = err
		close(c.ready)
	})
}

// Sender publishes exactly one Artifact (or a failure) to a single
// registered output.
type Sender struct {
	ref  Ref
	cell *cell
}

// Send publishes a, waking every current and future receiver. Calling Send
// or Fail more than once on the same Sender is a no-op after the first.
func (s Sender) Send(a artifact.Artifact) { s.cell.publish(a) }

// Fail marks the output as failed without ever publishing a value. Any
// receiver's Await returns err as given; the caller wraps it as
// DependencyFailed.
func (s Sender) Fail(err error) { s.cell.fail(err) }

// Ref returns the (node_id, output_name) this sender writes to.
func (s Sender) Ref() Ref { return s.ref }

// Receiver observes the single value (or failure) published to an output.
type Receiver struct {
	ref  Ref
	cell *cell
}

// Ref returns the (node_id, output_name) this receiver reads from.
func (r Receiver) Ref() Ref { return r.ref }

// Await blocks until the producer publishes, fails, or ctx is done. A
// producer that failed surfaces as a non-nil error; callers map that to
// DependencyFailed. A sender on which neither Send nor Fail is ever called
// leaves Await blocked until ctx is done.
func (r Receiver) Await(ctx context.Context) (artifact.Artifact, error) {
	select {
	case <-r.cell.ready:
		if r.cell.err != nil {
			return artifact.Artifact{}, r.cell.err
		}
		return r.cell.value, nil
	case <-ctx.Done():
		return artifact.Artifact{}, ctx.Err()
	}
}

// Container owns every declared (node_id, output_name) cell plus the start
// barrier. Senders must be registered for every output before any node
// subscribes, and every subscription must happen before ReleaseStart is
// called — subscribing after release risks missing an already-closed cell's
// wake-up race is impossible by construction (Await always checks a
// snapshot channel that is closed exactly once), but subscribing after a
// node has *started running* defeats the purpose of the barrier, so callers
// (the loader) must finish all Subscribe calls first.
type Container struct {
	mu    sync.Mutex
	cells map[Ref]*cell

	startOnce sync.Once
	startCh   chan struct{}
}

// New returns an empty Container.
func New() *Container {
	return &Container{
		cells:   make(map[Ref]*cell),
		startCh: make(chan struct{}),
	}
}

// Register creates the cell for (nodeID, output) if it does not already
// exist. The loader calls this for every declared output while building the
// graph, before any node is spawned.
func (c *Container) Register(nodeID, output string) {
	ref := Ref{NodeID: nodeID, Output: output}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cells[ref]; !ok {
		c.cells[ref] = newCell()
	}
}

// GetSender returns the sender for a registered output.
func (c *Container) GetSender(nodeID, output string) (Sender, error) {
	ref := Ref{NodeID: nodeID, Output: output}
	c.mu.Lock()
	cl, ok := c.cells[ref]
	c.mu.Unlock()
	if !ok {
		return Sender{}, fmt.Errorf("container: output %s not registered", ref)
	}
	return Sender{ref: ref, cell: cl}, nil
}

// Subscribe returns a receiver for a registered output. Must be called
// before ReleaseStart.
func (c *Container) Subscribe(nodeID, output string) (Receiver, error) {
	ref := Ref{NodeID: nodeID, Output: output}
	c.mu.Lock()
	cl, ok := c.cells[ref]
	c.mu.Unlock()
	if !ok {
		return Receiver{}, fmt.Errorf("container: output %s not registered", ref)
	}
	return Receiver{ref: ref, cell: cl}, nil
}

// SubscribeStart returns a channel that closes when ReleaseStart is called.
func (c *Container) SubscribeStart() <-chan struct{} {
	return c.startCh
}

// ReleaseStart fires the start barrier exactly once, regardless of how many
// times it is called.
func (c *Container) ReleaseStart() {
	c.startOnce.Do(func() {
		close(c.startCh)
	})
}
