package trigger

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/porttype"
	"github.com/vk/gridflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Behavior fires an event every N ticks, where N comes from the "every"
// property. The payload is the number of ticks observed so far.
type Behavior struct {
	seen int64
}

// Setup declares the event output and the firing interval.
func (b *Behavior) Setup(n *node.Node) error {
	n.AddOutput("fire", porttype.MustType(porttype.Event))
	n.SetProperty("every", cty.NumberIntVal(1))
	n.AddWidget(node.NewWidget("every", node.NumberWidget, cty.NilVal, node.WidgetOptions{
		Min: 1, Max: 1_000_000, Step: 1,
	}).Bind("every"))
	return nil
}

// Compute counts the tick and fires once per interval.
func (b *Behavior) Compute(n *node.Node) error {
	b.seen++

	every := int64(1)
	if v := n.Property("every"); v != cty.NilVal && !v.IsNull() && v.Type() == cty.Number {
		if e, _ := v.AsBigFloat().Int64(); e > 0 {
			every = e
		}
	}
	if b.seen%every != 0 {
		return nil
	}
	return n.FireEvent(0, cty.NumberIntVal(b.seen))
}

// OnStart resets the tick counter at the beginning of a run.
func (b *Behavior) OnStart(n *node.Node) {
	b.seen = 0
}

// OnStop is a no-op.
func (b *Behavior) OnStop(n *node.Node) {}

// Register registers the node kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("trigger", &registry.RegisteredKind{
		New:         func() node.Behavior { return &Behavior{} },
		Description: "Fires an event every N ticks.",
	})
}
