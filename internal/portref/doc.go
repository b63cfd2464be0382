/*
Package portref provides a structured, type-safe representation for port
references, based on the canonical format `node.port`.

Graph definition files use this form for link endpoints, e.g.
`from = "source.out"`. This package enforces the reference schema and
centralizes all formatting and parsing logic.
*/
package portref
