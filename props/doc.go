// Package props converts between the host's foreign key-value objects and
// native Props mappings.
//
// ToNative produces the per-render snapshot a component sees; it is total
// and returns an empty mapping at worst. ToForeign marshals values headed
// for the host, routing every callable through the proxy registry and
// converting snake_case keys to the host's kebab-case attribute convention.
// Only mappings, sequences, scalars, and callables are marshaled; anything
// else is a conversion failure.
package props
