// Package schema defines the HCL-tagged structures that graph definition
// files decode into. It holds no logic; translation into the format-agnostic
// config model happens in the hcl package.
package schema
