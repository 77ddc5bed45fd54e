// Package hostapi declares the contracts at the boundary between this layer
// and the host rendering engine.
//
// The engine itself (diffing, commit, renderers) lives on the far side of
// the boundary and is out of scope; this package specifies only the shapes
// that cross it: foreign key-value objects, the per-component context
// handle, plain element descriptors, and dynamically-invokable callables.
// The hosttest package provides in-memory implementations for tests and
// demos.
package hostapi
