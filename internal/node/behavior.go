package node

import "github.com/zclconf/go-cty/cty"

// Behavior is the single mandatory contract for a node implementation: it
// declares the node's port, property, and widget shape at construction time.
//
// Everything else is a capability. The engine checks for the presence of each
// capability interface instead of assuming a monolithic base type with
// optional overridable methods.
type Behavior interface {
	// Setup declares ports, properties, and widgets on the freshly created
	// node. It runs exactly once, before the node can be attached to a graph.
	Setup(n *Node) error
}

// Computable is implemented by behaviors that take part in the per-tick pull
// cycle. Compute reads current input values and writes output values; it must
// be synchronous, non-blocking, and must not mutate graph topology.
type Computable interface {
	Compute(n *Node) error
}

// EventHandler is implemented by behaviors with event-typed input ports.
// OnEvent is invoked synchronously when a firing arrives, and may run between
// ticks; it is distinct from Compute.
type EventHandler interface {
	OnEvent(n *Node, event string, payload cty.Value) error
}

// LifecycleAware behaviors are notified exactly once per attach/detach
// transition.
type LifecycleAware interface {
	OnAttach(n *Node)
	OnDetach(n *Node)
}

// RunStateAware behaviors are notified exactly once per engine run-state
// transition, regardless of how many ticks occur in between.
type RunStateAware interface {
	OnStart(n *Node)
	OnStop(n *Node)
}

// Attachment is the graph-side contract a node uses while attached. It is
// installed by the owning graph on attach and revoked on detach.
type Attachment interface {
	// DeliverEvent fans a firing out to every link on the given output port,
	// in link insertion order, invoking each downstream handler synchronously.
	DeliverEvent(from *Node, output *Port, payload cty.Value) error
}
