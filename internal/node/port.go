package node

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/porttype"
)

// Dir distinguishes input ports from output ports.
type Dir int

const (
	// In marks a consuming port. An input holds at most one link.
	In Dir = iota
	// Out marks a producing port. An output may fan out to many links.
	Out
)

// Port is a named, typed connection point on a node. Its index is assigned at
// declaration and stays stable for the node's lifetime.
type Port struct {
	node  *Node
	dir   Dir
	index int
	name  string
	typ   porttype.Type

	// value is the port's cache: for outputs, what the node wrote this tick;
	// for inputs, what the engine last pulled from upstream. cty.NilVal means
	// no value has been produced or pulled.
	value cty.Value

	// connected tracks whether an input currently holds a link. Maintained by
	// the owning graph; always false for outputs, which track fan-out on the
	// graph side.
	connected bool
}

// Node returns the owning node.
func (p *Port) Node() *Node { return p.node }

// Dir returns the port direction.
func (p *Port) Dir() Dir { return p.dir }

// Index returns the port's stable index within its direction.
func (p *Port) Index() int { return p.index }

// Name returns the port name.
func (p *Port) Name() string { return p.name }

// Type returns the port's declared type.
func (p *Port) Type() porttype.Type { return p.typ }

// Value returns the port's cached value, cty.NilVal when none.
func (p *Port) Value() cty.Value { return p.value }

// StoreValue writes the port's cache. The engine uses this to pull upstream
// output values into connected inputs at the start of a node's turn.
func (p *Port) StoreValue(v cty.Value) {
	p.value = v
}

// ClearValue resets the cache to the no-value state. Destroying an input's
// link clears the input; fan-out siblings of an output keep their caches.
func (p *Port) ClearValue() {
	p.value = cty.NilVal
}

// Connected reports whether an input port currently holds a link.
func (p *Port) Connected() bool { return p.connected }

// MarkConnected records the input's link state. Maintained by the owning graph.
func (p *Port) MarkConnected(connected bool) {
	p.connected = connected
}
