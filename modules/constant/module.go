package constant

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/porttype"
	"github.com/vk/gridflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Behavior publishes a fixed numeric value on its single output every tick.
// The value is editable through a bound number widget.
type Behavior struct{}

// Setup declares the output port and the editable value.
func (Behavior) Setup(n *node.Node) error {
	n.AddOutput("out", porttype.MustType(porttype.Number))
	n.SetProperty("value", cty.NumberIntVal(0))
	n.AddWidget(node.NewWidget("value", node.NumberWidget, cty.NilVal, node.WidgetOptions{}).Bind("value"))
	return nil
}

// Compute copies the current value property to the output.
func (Behavior) Compute(n *node.Node) error {
	return n.SetOutputValue(0, n.Property("value"))
}

// Register registers the node kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("constant", &registry.RegisteredKind{
		New:         func() node.Behavior { return Behavior{} },
		Description: "Emits a fixed, widget-editable number.",
	})
}
