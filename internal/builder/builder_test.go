package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/portref"
	"github.com/vk/gridflow/internal/porttype"
	"github.com/vk/gridflow/internal/registry"
)

type sourceBehavior struct{}

func (sourceBehavior) Setup(n *node.Node) error {
	n.AddOutput("out", porttype.MustType(porttype.Number))
	return nil
}

func (sourceBehavior) Compute(n *node.Node) error {
	return n.SetOutputValue(0, n.Property("value"))
}

type sinkBehavior struct{}

func (sinkBehavior) Setup(n *node.Node) error {
	n.AddInput("in", porttype.MustType(porttype.Number))
	return nil
}

func testRegistry() *registry.Registry {
	r := registry.New()
	r.RegisterKind("source", &registry.RegisteredKind{
		New: func() node.Behavior { return sourceBehavior{} },
	})
	r.RegisterKind("sink", &registry.RegisteredKind{
		New: func() node.Behavior { return sinkBehavior{} },
	})
	return r
}

func ref(t *testing.T, s string) portref.Ref {
	t.Helper()
	r, err := portref.Parse(s)
	require.NoError(t, err)
	return r
}

func TestBuild(t *testing.T) {
	model := &config.Model{
		Nodes: []*config.NodeSpec{
			{Kind: "source", Name: "src", Properties: map[string]cty.Value{"value": cty.NumberIntVal(7)}},
			{Kind: "sink", Name: "dst"},
		},
		Links: []*config.LinkSpec{
			{From: ref(t, "src.out"), To: ref(t, "dst.in")},
		},
	}

	g, err := Build(context.Background(), model, testRegistry())
	require.NoError(t, err)

	src, ok := g.NodeByName("src")
	require.True(t, ok)
	assert.True(t, src.Property("value").RawEquals(cty.NumberIntVal(7)))

	dst, ok := g.NodeByName("dst")
	require.True(t, ok)
	in, ok := dst.InputByName("in")
	require.True(t, ok)
	assert.True(t, in.Connected())

	order, err := g.Order()
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, "src", order[0].Name())
}

func TestBuild_Errors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		model := &config.Model{
			Nodes: []*config.NodeSpec{{Kind: "nope", Name: "n"}},
		}
		_, err := Build(context.Background(), model, testRegistry())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `cannot create node "n"`)
	})

	t.Run("unknown node in link", func(t *testing.T) {
		model := &config.Model{
			Nodes: []*config.NodeSpec{{Kind: "sink", Name: "dst"}},
			Links: []*config.LinkSpec{{From: ref(t, "ghost.out"), To: ref(t, "dst.in")}},
		}
		_, err := Build(context.Background(), model, testRegistry())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown node "ghost"`)
	})

	t.Run("unknown port in link", func(t *testing.T) {
		model := &config.Model{
			Nodes: []*config.NodeSpec{
				{Kind: "source", Name: "src"},
				{Kind: "sink", Name: "dst"},
			},
			Links: []*config.LinkSpec{{From: ref(t, "src.out"), To: ref(t, "dst.nope")}},
		}
		_, err := Build(context.Background(), model, testRegistry())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no input port "nope"`)
	})

	t.Run("duplicate instance name", func(t *testing.T) {
		model := &config.Model{
			Nodes: []*config.NodeSpec{
				{Kind: "sink", Name: "dup"},
				{Kind: "sink", Name: "dup"},
			},
		}
		_, err := Build(context.Background(), model, testRegistry())
		require.Error(t, err)
	})
}
