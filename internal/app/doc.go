// Package app wires the application together: logger, node-kind registry,
// definition loader, graph builder, and execution engine. It owns the
// process lifecycle from startup validation to shutdown.
package app
