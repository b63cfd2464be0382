// Package builder turns a declarative config model into a live, connected
// graph ready for the execution engine.
package builder
