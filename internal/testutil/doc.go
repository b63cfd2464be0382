// Package testutil provides shared helpers for integration tests: a
// thread-safe log buffer and harnesses that build a full app from inline
// graph definitions.
package testutil
