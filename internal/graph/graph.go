package graph

import (
	"fmt"
	"log/slog"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/porttype"
)

// defaultEventBudget bounds depth-first event recursion. Deliberately small:
// legitimate event chains are shallow, and there is no cycle detection on
// event links.
const defaultEventBudget = 32

// Graph is the ownership boundary for a set of nodes and the links between
// their ports. It assigns node identity, validates connections, and maintains
// the cached topological evaluation order the engine walks each tick.
//
// All operations are single-threaded by contract; see the engine package for
// the serialization rules.
type Graph struct {
	types  *porttype.Registry
	logger *slog.Logger

	// nextSeq hands out node identities. Monotonic; identities are never
	// reused after detachment.
	nextSeq int64

	nodes  map[string]*node.Node
	bySeq  map[int64]*node.Node
	seqs   []int64 // insertion order of attached nodes
	links  []*Link // insertion order
	into   map[*node.Port]*Link
	outOf  map[*node.Port][]*Link

	// order is the cached evaluation order; dirty forces a recompute on the
	// next Order call. cycleErr marks the graph unevaluable until the cycle
	// is removed.
	order    []*node.Node
	dirty    bool
	cycleErr error

	eventBudget int
	eventDepth  int
}

// Option configures a Graph.
type Option func(*Graph)

// WithTypeRegistry injects a port type registry other than the process-wide
// default.
func WithTypeRegistry(r *porttype.Registry) Option {
	return func(g *Graph) { g.types = r }
}

// WithEventBudget overrides the event recursion budget.
func WithEventBudget(budget int) Option {
	return func(g *Graph) { g.eventBudget = budget }
}

// WithLogger injects an isolated logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		types:       porttype.Default(),
		logger:      slog.Default(),
		nodes:       make(map[string]*node.Node),
		bySeq:       make(map[int64]*node.Node),
		into:        make(map[*node.Port]*Link),
		outOf:       make(map[*node.Port][]*Link),
		eventBudget: defaultEventBudget,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Types returns the port type registry this graph validates connections with.
func (g *Graph) Types() *porttype.Registry { return g.types }

// AddNode attaches a detached node, assigning its identity and firing its
// OnAttach notification.
func (g *Graph) AddNode(n *node.Node) error {
	if _, exists := g.nodes[n.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrNodeExists, n.Name())
	}

	g.nextSeq++
	if err := n.Attach(g.nextSeq, g); err != nil {
		g.nextSeq--
		return err
	}

	g.nodes[n.Name()] = n
	g.bySeq[n.Seq()] = n
	g.seqs = append(g.seqs, n.Seq())
	g.markDirty()

	g.logger.Debug("Node attached.", "node", n.Name(), "kind", n.Kind(), "seq", n.Seq())
	return nil
}

// RemoveNode detaches a node, destroying every link touching its ports first,
// then firing its OnDetach notification. Downstream inputs that were fed by
// the node observe no value afterwards.
func (g *Graph) RemoveNode(name string) error {
	n, ok := g.nodes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, name)
	}

	// Collect first: Disconnect mutates g.links.
	var touching []*Link
	for _, l := range g.links {
		if l.from.Node() == n || l.to.Node() == n {
			touching = append(touching, l)
		}
	}
	for _, l := range touching {
		if err := g.Disconnect(l); err != nil {
			return err
		}
	}

	seq := n.Seq()
	delete(g.nodes, name)
	delete(g.bySeq, seq)
	for i, s := range g.seqs {
		if s == seq {
			g.seqs = append(g.seqs[:i], g.seqs[i+1:]...)
			break
		}
	}
	n.Detach()
	g.markDirty()

	g.logger.Debug("Node detached.", "node", name, "severedLinks", len(touching))
	return nil
}

// NodeByName returns the attached node with the given name.
func (g *Graph) NodeByName(name string) (*node.Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns all attached nodes in insertion order.
func (g *Graph) Nodes() []*node.Node {
	out := make([]*node.Node, 0, len(g.seqs))
	for _, seq := range g.seqs {
		out = append(out, g.bySeq[seq])
	}
	return out
}

// owns reports whether the port's node is currently attached to this graph.
func (g *Graph) owns(p *node.Port) bool {
	n := p.Node()
	return n.GetState() != node.Detached && g.bySeq[n.Seq()] == n
}

// markDirty invalidates the cached evaluation order.
func (g *Graph) markDirty() {
	g.dirty = true
	g.cycleErr = nil
}

// Dirty reports whether the evaluation order must be recomputed before the
// next tick.
func (g *Graph) Dirty() bool { return g.dirty }
