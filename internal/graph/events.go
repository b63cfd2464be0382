package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/node"
)

// DeliverEvent implements node.Attachment. Firings fan out to every link on
// the output port in link insertion order; each delivery is synchronous and
// depth-first, so a downstream handler may fire further events before this
// call returns.
//
// A faulting handler is contained: the fault is recorded on the receiving
// node and the remaining fan-out deliveries still run. The only guard against
// event cycles is the recursion budget; exceeding it fails the delivery.
func (g *Graph) DeliverEvent(from *node.Node, output *node.Port, payload cty.Value) error {
	if g.eventDepth >= g.eventBudget {
		return fmt.Errorf("%w (budget %d) firing %s.%s", ErrEventDepth, g.eventBudget, from.Name(), output.Name())
	}
	g.eventDepth++
	defer func() { g.eventDepth-- }()

	for _, l := range g.outOf[output] {
		g.deliverOne(l, payload)
	}
	return nil
}

// deliverOne invokes a single downstream handler, containing panics and
// errors so sibling deliveries are never unwound.
func (g *Graph) deliverOne(l *Link, payload cty.Value) {
	receiver := l.to.Node()
	handler, ok := receiver.Behavior().(node.EventHandler)
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			fault := fmt.Errorf("event handler panic on %s.%s: %v", receiver.Name(), l.to.Name(), r)
			receiver.SetFault(fault)
			g.logger.Error("Event delivery fault contained.", "node", receiver.Name(), "error", fault)
		}
	}()

	if err := handler.OnEvent(receiver, l.to.Name(), payload); err != nil {
		receiver.SetFault(fmt.Errorf("event %q on %s: %w", l.to.Name(), receiver.Name(), err))
		g.logger.Error("Event delivery fault contained.", "node", receiver.Name(), "error", err)
	}
}
