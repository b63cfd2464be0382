package printer

import (
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/porttype"
	"github.com/vk/gridflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Behavior logs whatever arrives on its input, once per tick. The "label"
// property prefixes each line so several printers stay distinguishable.
type Behavior struct{}

// Setup declares the input and the label.
func (Behavior) Setup(n *node.Node) error {
	n.AddInput("in", porttype.MustType(porttype.Any))
	n.SetProperty("label", cty.StringVal(""))
	n.AddWidget(node.NewWidget("label", node.TextWidget, cty.NilVal, node.WidgetOptions{}).Bind("label"))
	return nil
}

// Compute logs the current input value.
func (Behavior) Compute(n *node.Node) error {
	label := n.Name()
	if v := n.Property("label"); v != cty.NilVal && !v.IsNull() && v.Type() == cty.String && v.AsString() != "" {
		label = v.AsString()
	}

	v := n.InputValue(0)
	if v == cty.NilVal || v.IsNull() {
		slog.Info("print", "label", label, "value", "(undefined)")
		return nil
	}
	slog.Info("print", "label", label, "value", v.GoString())
	return nil
}

// Register registers the node kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("print", &registry.RegisteredKind{
		New:         func() node.Behavior { return Behavior{} },
		Description: "Logs its input value every tick.",
	})
}
