package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/gridflow/internal/node"
)

// Module is the interface that all node-kind packages must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredKind holds the Go side of a node kind: a factory producing a
// fresh behavior instance per node.
type RegisteredKind struct {
	// New returns a behavior for one node. Behaviors are stateful; a new
	// instance is created for every node built from this kind.
	New func() node.Behavior
	// Description is surfaced in validation errors and tooling output.
	Description string
}

// Registry maps kind names used in graph definition files to the compiled Go
// behaviors implementing them. It is populated during application startup and
// read-only afterwards; it must never be mutated while an engine is ticking.
type Registry struct {
	kinds map[string]*RegisteredKind
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{kinds: make(map[string]*RegisteredKind)}
}

// RegisterKind registers a node kind. Registering a duplicate kind name is a
// programmer error and panics.
func (r *Registry) RegisterKind(name string, kind *RegisteredKind) {
	if _, exists := r.kinds[name]; exists {
		panic(fmt.Sprintf("node kind %q already registered", name))
	}
	if kind == nil || kind.New == nil {
		panic(fmt.Sprintf("node kind %q registered without a factory", name))
	}
	slog.Debug("Registering node kind.", "kind", name)
	r.kinds[name] = kind
}

// Kind returns the registered kind with the given name.
func (r *Registry) Kind(name string) (*RegisteredKind, error) {
	k, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", name)
	}
	return k, nil
}

// Kinds returns the registered kind names, sorted for deterministic output.
func (r *Registry) Kinds() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewNode builds a detached node of the named kind, running the behavior's
// Setup to declare its shape.
func (r *Registry) NewNode(kindName, instanceName string) (*node.Node, error) {
	k, err := r.Kind(kindName)
	if err != nil {
		return nil, err
	}
	return node.New(kindName, instanceName, k.New())
}
