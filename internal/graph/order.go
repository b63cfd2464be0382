package graph

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vk/gridflow/internal/node"
)

// Order returns the topological evaluation order over data links. Event links
// do not participate: their delivery is not part of the per-tick pull cycle.
// Ties between nodes with no dependency relation are broken by insertion
// order, so repeated calls with unchanged topology return the identical order.
//
// A data-dependency cycle makes the graph unevaluable: Order reports the
// cycle error on every call until a topology change removes the cycle.
func (g *Graph) Order() ([]*node.Node, error) {
	if g.dirty {
		g.recomputeOrder()
		g.dirty = false
	}
	if g.cycleErr != nil {
		return nil, g.cycleErr
	}
	return g.order, nil
}

// recomputeOrder rebuilds the cached order, or records a cycle error.
//
// Node sequence numbers are handed out in insertion order, so stabilizing the
// sort by node ID yields the deterministic insertion-order tie break.
func (g *Graph) recomputeOrder() {
	g.order = nil
	g.cycleErr = nil

	dg := simple.NewDirectedGraph()
	for _, seq := range g.seqs {
		dg.AddNode(simple.Node(seq))
	}
	for _, l := range g.links {
		if l.IsEvent() {
			continue
		}
		fromSeq := l.from.Node().Seq()
		toSeq := l.to.Node().Seq()
		if fromSeq == toSeq {
			g.cycleErr = fmt.Errorf("%w: %s feeds itself", ErrCycle, l.from.Node().Name())
			return
		}
		if !dg.HasEdgeFromTo(fromSeq, toSeq) {
			dg.SetEdge(dg.NewEdge(simple.Node(fromSeq), simple.Node(toSeq)))
		}
	}

	sorted, err := topo.SortStabilized(dg, nil)
	if err != nil {
		g.cycleErr = fmt.Errorf("%w involving %s", ErrCycle, strings.Join(g.cycleMembers(err), ", "))
		return
	}

	order := make([]*node.Node, 0, len(sorted))
	for _, gn := range sorted {
		order = append(order, g.bySeq[gn.ID()])
	}
	g.order = order
	g.logger.Debug("Evaluation order recomputed.", "nodes", len(order))
}

// cycleMembers extracts the names of nodes inside cyclic components from a
// topo.Unorderable error.
func (g *Graph) cycleMembers(err error) []string {
	uo, ok := err.(topo.Unorderable)
	if !ok {
		return nil
	}
	var members []string
	for _, component := range uo {
		for _, gn := range component {
			if n, ok := g.bySeq[gn.ID()]; ok {
				members = append(members, n.Name())
			}
		}
	}
	return members
}
