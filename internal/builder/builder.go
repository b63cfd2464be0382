package builder

import (
	"context"
	"fmt"

	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/portref"
	"github.com/vk/gridflow/internal/registry"
)

// Build materializes a loaded config model into a live graph: it
// instantiates a node for every spec, applies properties, attaches the
// nodes in declaration order, and connects every declared link. The
// evaluation order is computed once so a cyclic definition fails here
// rather than on the first tick.
func Build(ctx context.Context, model *config.Model, reg *registry.Registry, opts ...graph.Option) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := graph.New(opts...)

	for _, spec := range model.Nodes {
		n, err := reg.NewNode(spec.Kind, spec.Name)
		if err != nil {
			return nil, fmt.Errorf("cannot create node %q: %w", spec.Name, err)
		}
		for name, v := range spec.Properties {
			n.SetProperty(name, v)
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("cannot add node %q: %w", spec.Name, err)
		}
	}

	for _, spec := range model.Links {
		from, err := resolveOutput(g, spec.From)
		if err != nil {
			return nil, err
		}
		to, err := resolveInput(g, spec.To)
		if err != nil {
			return nil, err
		}
		if _, err := g.Connect(from, to); err != nil {
			return nil, fmt.Errorf("cannot link %s -> %s: %w", spec.From, spec.To, err)
		}
	}

	if _, err := g.Order(); err != nil {
		return nil, fmt.Errorf("graph definition is not evaluable: %w", err)
	}

	logger.Debug("Graph built.", "nodes", len(model.Nodes), "links", len(model.Links))
	return g, nil
}

func resolveOutput(g *graph.Graph, ref portref.Ref) (*node.Port, error) {
	n, ok := g.NodeByName(ref.Node)
	if !ok {
		return nil, fmt.Errorf("link references unknown node %q", ref.Node)
	}
	p, ok := n.OutputByName(ref.Port)
	if !ok {
		return nil, fmt.Errorf("node %q has no output port %q", ref.Node, ref.Port)
	}
	return p, nil
}

func resolveInput(g *graph.Graph, ref portref.Ref) (*node.Port, error) {
	n, ok := g.NodeByName(ref.Node)
	if !ok {
		return nil, fmt.Errorf("link references unknown node %q", ref.Node)
	}
	p, ok := n.InputByName(ref.Port)
	if !ok {
		return nil, fmt.Errorf("node %q has no input port %q", ref.Node, ref.Port)
	}
	return p, nil
}
