package config

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/portref"
)

// Model is the unified, format-agnostic representation of a graph definition:
// the batch of nodes, their property values, and the links between their
// ports that a restore operation reconstructs in one go.
type Model struct {
	Nodes []*NodeSpec
	Links []*LinkSpec
}

// NodeSpec is the format-agnostic representation of a `node` block.
type NodeSpec struct {
	// Kind names a registered node kind, e.g. "math".
	Kind string
	// Name is the unique instance name, e.g. "doubler".
	Name string
	// Properties are the restored property values, applied before the node
	// attaches so bound widgets adopt them.
	Properties map[string]cty.Value
}

// LinkSpec is the format-agnostic representation of a `link` block.
type LinkSpec struct {
	From portref.Ref
	To   portref.Ref
}
