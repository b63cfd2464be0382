package mathop

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/porttype"
	"github.com/vk/gridflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Behavior combines two numeric inputs with the operation selected by the
// "op" property. Unconnected inputs are treated as zero.
type Behavior struct{}

// Setup declares the two operand inputs, the result output, and the
// operation selector.
func (Behavior) Setup(n *node.Node) error {
	n.AddInput("a", porttype.MustType(porttype.Number))
	n.AddInput("b", porttype.MustType(porttype.Number))
	n.AddOutput("out", porttype.MustType(porttype.Number))
	n.SetProperty("op", cty.StringVal("add"))
	n.AddWidget(node.NewWidget("op", node.ComboWidget, cty.NilVal, node.WidgetOptions{
		Choices: []string{"add", "sub", "mul", "div"},
	}).Bind("op"))
	return nil
}

// Compute applies the selected operation to the current operand values.
func (Behavior) Compute(n *node.Node) error {
	a := operand(n.InputValue(0))
	b := operand(n.InputValue(1))

	op := "add"
	if v := n.Property("op"); v != cty.NilVal && !v.IsNull() && v.Type() == cty.String {
		op = v.AsString()
	}

	var result float64
	switch op {
	case "add":
		result = a + b
	case "sub":
		result = a - b
	case "mul":
		result = a * b
	case "div":
		if b == 0 {
			return fmt.Errorf("division by zero")
		}
		result = a / b
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
	return n.SetOutputValue(0, cty.NumberFloatVal(result))
}

func operand(v cty.Value) float64 {
	if v == cty.NilVal || v.IsNull() || v.Type() != cty.Number {
		return 0
	}
	f, _ := v.AsBigFloat().Float64()
	return f
}

// Register registers the node kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("math", &registry.RegisteredKind{
		New:         func() node.Behavior { return Behavior{} },
		Description: "Applies add, sub, mul, or div to two numbers.",
	})
}
