package graph

import "errors"

// Connection refusals and structural errors. Refusals are ordinary failed
// operations: the graph's node and link sets are unchanged when one is
// returned.
var (
	ErrNodeExists        = errors.New("node already exists")
	ErrNodeNotFound      = errors.New("node not found")
	ErrNotAttached       = errors.New("node not attached to this graph")
	ErrPortDirection     = errors.New("connect requires an output and an input port")
	ErrIncompatibleTypes = errors.New("incompatible port types")
	ErrInputOccupied     = errors.New("input port already has a link")
	ErrLinkNotFound      = errors.New("link not found")
	ErrCycle             = errors.New("data-dependency cycle")
	ErrEventDepth        = errors.New("event delivery budget exceeded")
)
