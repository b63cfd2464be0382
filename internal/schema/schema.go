package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// PropertiesBlock represents the content of the 'properties' block within a
// node. Attribute names and values are free-form; the node kind interprets
// them.
type PropertiesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Node represents a `node` block from a user's graph file. It is an instance
// of a registered node kind.
type Node struct {
	Kind       string           `hcl:"kind,label"`
	Name       string           `hcl:"instance_name,label"`
	Properties *PropertiesBlock `hcl:"properties,block"`
}

// Link represents a `link` block: a directed edge between two port
// references in `node.port` form.
type Link struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// GraphConfig represents the top-level structure of a user's graph file,
// containing all declared nodes and links.
type GraphConfig struct {
	Nodes []*Node  `hcl:"node,block"`
	Links []*Link  `hcl:"link,block"`
	Body  hcl.Body `hcl:",remain"`
}
