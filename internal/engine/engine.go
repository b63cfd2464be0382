package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/node"
)

var (
	// ErrTickInProgress is returned when Tick is invoked re-entrantly. The
	// engine is not re-entrant; overlapping ticks are rejected, not deferred.
	ErrTickInProgress = errors.New("tick already in progress")
	// ErrAlreadyRunning is returned by Start on a running engine.
	ErrAlreadyRunning = errors.New("engine already running")
)

// Engine drives a graph: one full pass over all nodes in dependency order per
// tick, plus the start/stop bracket around repeated ticking.
//
// Execution is single-threaded and cooperative. Compute steps are synchronous
// and non-blocking; anything that would naturally suspend must trigger the
// work, return with its prior output, and publish the result on a later tick.
type Engine struct {
	g      *graph.Graph
	logger *slog.Logger

	// ticking guards against re-entrant Tick calls.
	ticking atomic.Bool
	// ticks counts completed passes.
	ticks atomic.Int64

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger injects an isolated logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine for the given graph.
func New(g *graph.Graph, opts ...Option) *Engine {
	e := &Engine{g: g, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph this engine drives.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() int64 { return e.ticks.Load() }

// Tick performs one full pass: the evaluation order is recomputed only if the
// topology changed since the last pass, each node's connected inputs are
// pulled from their upstream output caches, and each Computable behavior runs
// once, in dependency order.
//
// An unevaluable graph (data cycle) fails the whole tick without executing
// any node. A faulting node is contained: its outputs keep their previous
// values, the fault is recorded, and the remaining nodes still run.
func (e *Engine) Tick(ctx context.Context) error {
	if !e.ticking.CompareAndSwap(false, true) {
		return ErrTickInProgress
	}
	defer e.ticking.Store(false)

	order, err := e.g.Order()
	if err != nil {
		return fmt.Errorf("tick refused: %w", err)
	}

	for _, n := range order {
		e.computeNode(ctx, n)
	}

	e.ticks.Add(1)
	return nil
}

// computeNode pulls the node's inputs and runs its compute step, containing
// panics and errors at the node boundary.
func (e *Engine) computeNode(ctx context.Context, n *node.Node) {
	for _, in := range n.Inputs() {
		if in.Type().Event {
			continue
		}
		if l := e.g.LinkInto(in); l != nil {
			in.StoreValue(l.From().Value())
		}
	}

	c, ok := n.Behavior().(node.Computable)
	if !ok {
		return
	}

	// Snapshot outputs so a mid-compute fault rolls back partial writes and
	// downstream nodes keep reading the previous tick's values.
	snapshot := make([]cty.Value, len(n.Outputs()))
	for i, out := range n.Outputs() {
		snapshot[i] = out.Value()
	}

	n.SetState(node.Computing)
	defer n.SetState(node.Attached)

	defer func() {
		if r := recover(); r != nil {
			fault := fmt.Errorf("compute panic on %q: %v", n.Name(), r)
			e.containFault(ctx, n, fault, snapshot)
		}
	}()

	if err := c.Compute(n); err != nil {
		e.containFault(ctx, n, fmt.Errorf("compute on %q: %w", n.Name(), err), snapshot)
	}
}

// containFault records a compute fault and restores the node's pre-compute
// output caches. One faulting node never aborts the tick.
func (e *Engine) containFault(ctx context.Context, n *node.Node, fault error, snapshot []cty.Value) {
	n.SetFault(fault)
	for i, out := range n.Outputs() {
		out.StoreValue(snapshot[i])
	}
	ctxlog.FromContext(ctx).Error("Compute fault contained.", "node", n.Name(), "error", fault)
}
