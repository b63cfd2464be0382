package counter

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/porttype"
	"github.com/vk/gridflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Behavior counts event firings. Each firing on "increment" raises the
// count by one; a firing on "reset" returns it to zero. The count also
// resets when the engine starts a run.
type Behavior struct {
	count int64
}

// Setup declares the two event inputs and the count output.
func (b *Behavior) Setup(n *node.Node) error {
	n.AddInput("increment", porttype.MustType(porttype.Event))
	n.AddInput("reset", porttype.MustType(porttype.Event))
	n.AddOutput("count", porttype.MustType(porttype.Number))
	return nil
}

// Compute publishes the current count.
func (b *Behavior) Compute(n *node.Node) error {
	return n.SetOutputValue(0, cty.NumberIntVal(b.count))
}

// OnEvent reacts to firings on either event input.
func (b *Behavior) OnEvent(n *node.Node, event string, payload cty.Value) error {
	switch event {
	case "increment":
		b.count++
	case "reset":
		b.count = 0
	}
	return n.SetOutputValue(0, cty.NumberIntVal(b.count))
}

// OnStart resets the count at the beginning of a run.
func (b *Behavior) OnStart(n *node.Node) {
	b.count = 0
}

// OnStop is a no-op; the final count stays readable after the run.
func (b *Behavior) OnStop(n *node.Node) {}

// Register registers the node kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("counter", &registry.RegisteredKind{
		New:         func() node.Behavior { return &Behavior{} },
		Description: "Counts event firings, with reset.",
	})
}
