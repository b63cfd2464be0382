// Package cli is responsible for parsing command-line arguments, layering
// them with file and environment configuration, validating user input, and
// handling process-level concerns like exit codes.
package cli
