package porttype

import (
	"fmt"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Type is a named port type. Data-carrying types wrap a cty.Type used for
// value conversion at link boundaries; event types carry no tick-cycle data.
type Type struct {
	// Name is the unique, registry-scoped identifier, e.g. "number".
	Name string
	// Value is the cty type of values flowing through ports of this type.
	// It is cty.NilType for event types.
	Value cty.Type
	// Event marks the type as a discrete trigger type. Event links are
	// excluded from the per-tick pull cycle and from evaluation ordering.
	Event bool
}

// CompatibilityRule decides whether a value produced as `producer` may be
// consumed as `consumer`. Rules are consulted only when the built-in checks
// (identity, the `any` wildcard, event/data separation) are inconclusive.
type CompatibilityRule func(producer, consumer Type) bool

// Built-in type names. These are registered once at process startup and are
// the vocabulary the HCL schema and the bundled modules speak.
const (
	Number  = "number"
	Text    = "text"
	Boolean = "boolean"
	Any     = "any"
	Event   = "event"
)

// Registry holds the known port types and their compatibility rules. It is
// populated during startup, read-many during graph construction, and must not
// be mutated while an engine is ticking.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
	rules []CompatibilityRule
}

// NewRegistry returns a registry pre-populated with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Type)}
	r.mustRegister(Type{Name: Number, Value: cty.Number})
	r.mustRegister(Type{Name: Text, Value: cty.String})
	r.mustRegister(Type{Name: Boolean, Value: cty.Bool})
	r.mustRegister(Type{Name: Any, Value: cty.DynamicPseudoType})
	r.mustRegister(Type{Name: Event, Event: true})
	return r
}

// Register adds a new named type. Registering a duplicate name is a
// programmer error and panics, mirroring handler registration.
func (r *Registry) Register(t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[t.Name]; exists {
		panic(fmt.Sprintf("port type %q already registered", t.Name))
	}
	r.types[t.Name] = t
}

func (r *Registry) mustRegister(t Type) {
	if _, exists := r.types[t.Name]; exists {
		panic(fmt.Sprintf("port type %q already registered", t.Name))
	}
	r.types[t.Name] = t
}

// AddRule appends a compatibility rule consulted by Compatible after the
// built-in checks.
func (r *Registry) AddRule(rule CompatibilityRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return Type{}, fmt.Errorf("unknown port type %q", name)
	}
	return t, nil
}

// Compatible reports whether a producer (output) type may feed a consumer
// (input) type. The `any` type is compatible with every data type in both
// directions. Event types only match event types; they never mix with data.
func (r *Registry) Compatible(producer, consumer Type) bool {
	if producer.Event != consumer.Event {
		return false
	}
	if producer.Event {
		return true
	}
	if producer.Name == consumer.Name {
		return true
	}
	if producer.Name == Any || consumer.Name == Any {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule(producer, consumer) {
			return true
		}
	}
	return false
}

// defaultRegistry is the process-wide registry, created once at init and
// shared by graph construction everywhere a caller does not inject its own.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// MustType returns the type registered under name in the default registry.
// It panics on unknown names and is intended for the static, compiled-in
// type vocabulary used by module Setup code.
func MustType(name string) Type {
	t, err := defaultRegistry.Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}
