// Package engine walks a graph once per tick in dependency order, pulling
// each node's inputs from upstream output caches before its compute step
// runs, and brackets repeated ticking between start/stop run-state
// notifications.
//
// The engine is single-threaded and not re-entrant: overlapping Tick calls
// are rejected. Faults in a node's compute step are contained at that node;
// event delivery happens synchronously through the graph, outside the tick
// pull cycle, and may interleave with ticking on the same goroutine.
package engine
