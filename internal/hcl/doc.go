// Package hcl translates declarative .hcl graph definition files into the
// format-agnostic config model consumed by the builder.
package hcl
