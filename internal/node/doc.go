// Package node defines the typed computational unit of a graph: ordered input
// and output ports, named properties, optional widgets, and a behavior.
//
// A behavior implements node.Behavior to declare its shape and opts into
// execution capabilities (Computable, EventHandler, LifecycleAware,
// RunStateAware) by implementing the corresponding interfaces. The engine and
// graph check for each capability's presence rather than requiring a single
// base type.
//
// Lifecycle: a node is created detached, attached to exactly one graph
// (receiving a never-reused identity), executed repeatedly while attached, and
// detached again. Attach and Detach are invoked by the owning graph, not by
// behaviors.
package node
