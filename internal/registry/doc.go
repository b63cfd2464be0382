// Package registry provides the central "glue" for the node-kind system.
//
// The Registry stores mappings between the kind names used in graph
// definition files (e.g. "math") and the compiled Go behaviors that implement
// them. During application startup the registry is populated by module
// packages and then validated, so that mismatches between definitions and
// code surface as startup errors instead of runtime surprises.
package registry
