package node

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/porttype"
)

// Node is a single typed unit in a graph: an ordered set of input and output
// ports, a bag of named properties, optional widgets, and a behavior that
// gives it semantics.
type Node struct {
	// kind is the registered behavior kind this node was built from.
	// Example: "math".
	kind string
	// name is the human-readable instance name from the configuration.
	// Example: "doubler". Unique within a graph.
	name string

	// seq is the graph-assigned identity, 0 while detached. Sequence numbers
	// are handed out monotonically and never reused after detachment.
	seq int64
	// uid is assigned on attach and kept after detach, for logs and for the
	// persistence layer.
	uid uuid.UUID

	inputs  []*Port
	outputs []*Port

	properties map[string]cty.Value
	widgets    []*Widget

	behavior   Behavior
	attachment Attachment

	// state is the node's lifecycle state, managed atomically.
	state atomic.Int32
	// fault stores the most recent contained compute or event fault.
	fault error
}

// State represents the lifecycle state of a node.
type State int32

const (
	// Detached indicates the node is not owned by any graph.
	Detached State = iota
	// Attached indicates the node is owned by a graph and may be executed.
	Attached
	// Computing is the transient state entered while the node's compute step
	// runs during a tick.
	Computing
)

// New creates a detached node of the given kind and runs the behavior's
// Setup to declare its shape.
func New(kind, name string, behavior Behavior) (*Node, error) {
	if behavior == nil {
		return nil, fmt.Errorf("node %q: behavior must not be nil", name)
	}
	n := &Node{
		kind:       kind,
		name:       name,
		properties: make(map[string]cty.Value),
		behavior:   behavior,
	}
	if err := behavior.Setup(n); err != nil {
		return nil, fmt.Errorf("setup of node %q (kind %q): %w", name, kind, err)
	}
	return n, nil
}

// Kind returns the registered behavior kind name.
func (n *Node) Kind() string { return n.kind }

// Name returns the instance name.
func (n *Node) Name() string { return n.name }

// Seq returns the graph-assigned identity, or 0 while detached.
func (n *Node) Seq() int64 { return n.seq }

// UID returns the identifier assigned on first attach. It is the zero UUID
// for a node that has never been attached.
func (n *Node) UID() uuid.UUID { return n.uid }

// Behavior returns the behavior instance backing this node.
func (n *Node) Behavior() Behavior { return n.behavior }

// GetState atomically retrieves the node's lifecycle state.
func (n *Node) GetState() State {
	return State(n.state.Load())
}

// SetState atomically sets the node's lifecycle state. The engine moves a
// node through Attached -> Computing -> Attached around its compute step.
func (n *Node) SetState(s State) {
	n.state.Store(int32(s))
}

// --- Ports ---

// AddInput appends a new input port and returns its index. Indices are stable
// for the node's lifetime; ports cannot be removed or reordered.
func (n *Node) AddInput(name string, t porttype.Type) int {
	p := &Port{node: n, dir: In, index: len(n.inputs), name: name, typ: t, value: cty.NilVal}
	n.inputs = append(n.inputs, p)
	return p.index
}

// AddOutput appends a new output port and returns its index.
func (n *Node) AddOutput(name string, t porttype.Type) int {
	p := &Port{node: n, dir: Out, index: len(n.outputs), name: name, typ: t, value: cty.NilVal}
	n.outputs = append(n.outputs, p)
	return p.index
}

// Inputs returns the node's input ports in declaration order.
func (n *Node) Inputs() []*Port { return n.inputs }

// Outputs returns the node's output ports in declaration order.
func (n *Node) Outputs() []*Port { return n.outputs }

// Input returns the input port at index i.
func (n *Node) Input(i int) (*Port, error) {
	if i < 0 || i >= len(n.inputs) {
		return nil, fmt.Errorf("node %q has no input %d", n.name, i)
	}
	return n.inputs[i], nil
}

// Output returns the output port at index i.
func (n *Node) Output(i int) (*Port, error) {
	if i < 0 || i >= len(n.outputs) {
		return nil, fmt.Errorf("node %q has no output %d", n.name, i)
	}
	return n.outputs[i], nil
}

// InputByName returns the input port with the given name.
func (n *Node) InputByName(name string) (*Port, bool) {
	for _, p := range n.inputs {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// OutputByName returns the output port with the given name.
func (n *Node) OutputByName(name string) (*Port, bool) {
	for _, p := range n.outputs {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// InputValue returns the most recently pulled value on input i, or cty.NilVal
// when the port is unconnected, out of range, or upstream has produced no
// value yet. It never blocks.
func (n *Node) InputValue(i int) cty.Value {
	if i < 0 || i >= len(n.inputs) {
		return cty.NilVal
	}
	return n.inputs[i].value
}

// SetOutputValue writes into this tick's output cache for port i. Downstream
// nodes observe the value when their own turn in the evaluation order pulls it.
func (n *Node) SetOutputValue(i int, v cty.Value) error {
	if i < 0 || i >= len(n.outputs) {
		return fmt.Errorf("node %q has no output %d", n.name, i)
	}
	n.outputs[i].value = v
	return nil
}

// OutputValue returns the cached value on output i, or cty.NilVal if the node
// has not written one.
func (n *Node) OutputValue(i int) cty.Value {
	if i < 0 || i >= len(n.outputs) {
		return cty.NilVal
	}
	return n.outputs[i].value
}

// --- Properties ---

// Property returns the value stored under name, or cty.NilVal when unset.
func (n *Node) Property(name string) cty.Value {
	v, ok := n.properties[name]
	if !ok {
		return cty.NilVal
	}
	return v
}

// SetProperty stores a property value and synchronizes every widget bound to
// that property, firing their change callbacks. The update is synchronous:
// the next tick observes the new value.
func (n *Node) SetProperty(name string, v cty.Value) {
	n.properties[name] = v
	for _, w := range n.widgets {
		if w.property == name {
			w.adopt(v)
		}
	}
}

// Properties returns the node's property map. Callers must treat it as
// read-only; use SetProperty for writes so widget bindings stay consistent.
func (n *Node) Properties() map[string]cty.Value {
	return n.properties
}

// setPropertyFromWidget is the widget-initiated half of the bidirectional
// binding. It skips the originating widget to avoid re-entering it.
func (n *Node) setPropertyFromWidget(origin *Widget, name string, v cty.Value) {
	n.properties[name] = v
	for _, w := range n.widgets {
		if w != origin && w.property == name {
			w.adopt(v)
		}
	}
}

// --- Widgets ---

// AddWidget attaches a widget to the node. If the widget is bound to a
// property that already holds a value, the widget adopts it; otherwise the
// widget's initial value seeds the property.
func (n *Node) AddWidget(w *Widget) *Widget {
	w.node = n
	n.widgets = append(n.widgets, w)
	if w.property != "" {
		if existing, ok := n.properties[w.property]; ok {
			w.adopt(existing)
		} else if w.value != cty.NilVal {
			n.properties[w.property] = w.value
		}
	}
	return w
}

// Widgets returns the node's widgets in declaration order.
func (n *Node) Widgets() []*Widget { return n.widgets }

// WidgetByName returns the widget with the given name.
func (n *Node) WidgetByName(name string) (*Widget, bool) {
	for _, w := range n.widgets {
		if w.name == name {
			return w, true
		}
	}
	return nil, false
}

// --- Events ---

// FireEvent fans the payload out to every link attached to output i. Delivery
// is synchronous and depth-first: a downstream handler may itself fire further
// events before this call returns. The owning graph guards runaway recursion
// with a delivery budget; there is no cycle detection.
func (n *Node) FireEvent(i int, payload cty.Value) error {
	out, err := n.Output(i)
	if err != nil {
		return err
	}
	if !out.typ.Event {
		return fmt.Errorf("node %q output %q is not event-typed", n.name, out.name)
	}
	if n.attachment == nil {
		return fmt.Errorf("node %q is not attached to a graph", n.name)
	}
	return n.attachment.DeliverEvent(n, out, payload)
}

// --- Lifecycle, managed by the owning graph ---

// Attach assigns the node its graph identity and installs the attachment.
// It fires the behavior's OnAttach notification exactly once per transition.
func (n *Node) Attach(seq int64, att Attachment) error {
	if n.GetState() != Detached {
		return fmt.Errorf("node %q is already attached", n.name)
	}
	n.seq = seq
	n.uid = uuid.New()
	n.attachment = att
	n.SetState(Attached)
	if lc, ok := n.behavior.(LifecycleAware); ok {
		lc.OnAttach(n)
	}
	return nil
}

// Detach severs the node from its graph. The caller (the graph) is
// responsible for destroying links touching the node's ports first.
func (n *Node) Detach() {
	if n.GetState() == Detached {
		return
	}
	n.seq = 0
	n.attachment = nil
	n.SetState(Detached)
	if lc, ok := n.behavior.(LifecycleAware); ok {
		lc.OnDetach(n)
	}
}

// --- Faults ---

// SetFault records a contained compute or event fault on the node.
func (n *Node) SetFault(err error) {
	n.fault = err
}

// Fault returns the most recent contained fault, or nil.
func (n *Node) Fault() error {
	return n.fault
}
