// Package classify determines a component callable's arity class and
// generator kind.
//
// Classification is static where possible (reflection over a function's
// parameters and results) and surfaces declared-arity errors eagerly,
// before first render. Dynamic callables and variadic functions cannot be
// inspected statically; for those, Trial probes decreasing arities on
// first invocation, judging an error as arity-mismatch-shaped only by its
// wording so genuine user errors propagate unchanged. Results are cached
// by the descriptor that owns the callable and never re-probed.
package classify
