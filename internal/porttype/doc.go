// Package porttype defines the named type vocabulary for node ports and the
// compatibility rules consulted before a link is allowed to form.
//
// Data types wrap cty types so port values share the engine's cty.Value
// currency; the special `event` type marks trigger ports whose links bypass
// the per-tick pull cycle entirely.
package porttype
