// Package graph owns the nodes and links of a single executable node graph.
//
// The graph assigns node identity on attach, validates connection requests
// against the port type registry, cascades link destruction on node removal,
// and maintains the cached topological evaluation order the execution engine
// walks each tick. Event-typed links are delivered through the graph as well,
// synchronously and depth-first, outside the pull cycle.
package graph
