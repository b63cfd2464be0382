package portref

import (
	"fmt"
	"regexp"
)

// refRegex parses the canonical `node.port` form. Node and port names share
// the same restricted alphabet so the separator stays unambiguous.
var refRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\.([a-zA-Z0-9_-]+)$`)

// Ref is the structured representation of a port reference as written in
// graph definition files, e.g. the endpoints of a `link` block.
type Ref struct {
	Node string
	Port string
}

// New builds a reference from its parts.
func New(node, port string) Ref {
	return Ref{Node: node, Port: port}
}

// Parse creates a Ref by parsing its canonical `node.port` string form.
func Parse(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("port reference cannot be empty")
	}

	matches := refRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Ref{}, fmt.Errorf("invalid port reference %q: want node.port", raw)
	}

	return Ref{Node: matches[1], Port: matches[2]}, nil
}

// String serializes the reference into its canonical form.
func (r Ref) String() string {
	return r.Node + "." + r.Port
}

// Equal checks two references for equality.
func (r Ref) Equal(other Ref) bool {
	return r.Node == other.Node && r.Port == other.Port
}
