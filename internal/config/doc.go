// Package config defines the format-agnostic graph definition model and the
// Loader interface for reading it from various sources.
//
// The config.Model is the single source of truth for the builder: it carries
// everything a batch restore needs — node kinds, instance names, property
// values, and link endpoints. Concrete loaders, such as the HCL one, live in
// separate packages.
package config
