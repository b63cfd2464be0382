package graph

import (
	"fmt"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/porttype"
)

// Link is a directed, typed edge from one output port to one input port. Its
// type is taken from the output port at creation time. A link exists only
// while both endpoint nodes remain attached to the same graph.
type Link struct {
	from *node.Port
	to   *node.Port
	typ  porttype.Type
}

// From returns the producing output port.
func (l *Link) From() *node.Port { return l.from }

// To returns the consuming input port.
func (l *Link) To() *node.Port { return l.to }

// Type returns the link's type, fixed at creation.
func (l *Link) Type() porttype.Type { return l.typ }

// IsEvent reports whether the link carries discrete trigger firings rather
// than per-tick data.
func (l *Link) IsEvent() bool { return l.typ.Event }

// String renders the link endpoints for logs and errors.
func (l *Link) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", l.from.Node().Name(), l.from.Name(), l.to.Node().Name(), l.to.Name())
}

// Connect validates and creates a link from an output port to an input port.
// A refused connection is reported as an error and leaves the graph unchanged:
// the ports must have the right directions, both nodes must be attached to
// this graph, the types must be compatible, and the input must be free. An
// occupied input refuses rather than replacing; disconnect first to rewire.
func (g *Graph) Connect(from, to *node.Port) (*Link, error) {
	if from.Dir() != node.Out || to.Dir() != node.In {
		return nil, fmt.Errorf("%w: got %s.%s -> %s.%s", ErrPortDirection,
			from.Node().Name(), from.Name(), to.Node().Name(), to.Name())
	}
	if !g.owns(from) {
		return nil, fmt.Errorf("%w: %s", ErrNotAttached, from.Node().Name())
	}
	if !g.owns(to) {
		return nil, fmt.Errorf("%w: %s", ErrNotAttached, to.Node().Name())
	}
	if !g.types.Compatible(from.Type(), to.Type()) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIncompatibleTypes, from.Type().Name, to.Type().Name)
	}
	if g.into[to] != nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrInputOccupied, to.Node().Name(), to.Name())
	}

	l := &Link{from: from, to: to, typ: from.Type()}
	g.links = append(g.links, l)
	g.into[to] = l
	g.outOf[from] = append(g.outOf[from], l)
	to.MarkConnected(true)
	g.markDirty()

	g.logger.Debug("Link created.", "link", l.String(), "type", l.typ.Name)
	return l, nil
}

// Disconnect destroys a link. The input port's cache is cleared so downstream
// reads observe no value; the output port's cache is untouched for the sake
// of its remaining fan-out links.
func (g *Graph) Disconnect(l *Link) error {
	found := -1
	for i, cand := range g.links {
		if cand == l {
			found = i
			break
		}
	}
	if found == -1 {
		return fmt.Errorf("%w: %s", ErrLinkNotFound, l.String())
	}

	g.links = append(g.links[:found], g.links[found+1:]...)
	delete(g.into, l.to)
	fan := g.outOf[l.from]
	for i, cand := range fan {
		if cand == l {
			g.outOf[l.from] = append(fan[:i], fan[i+1:]...)
			break
		}
	}
	l.to.MarkConnected(false)
	l.to.ClearValue()
	g.markDirty()

	g.logger.Debug("Link destroyed.", "link", l.String())
	return nil
}

// Links returns every link in insertion order.
func (g *Graph) Links() []*Link {
	out := make([]*Link, len(g.links))
	copy(out, g.links)
	return out
}

// LinkInto returns the single link feeding an input port, or nil.
func (g *Graph) LinkInto(in *node.Port) *Link {
	return g.into[in]
}

// LinksFrom returns the fan-out links of an output port in insertion order.
func (g *Graph) LinksFrom(out *node.Port) []*Link {
	return g.outOf[out]
}
