// Package component adapts user callables of arbitrary shape to the host
// engine's fixed render contract.
//
// Adapt produces a Component descriptor from any of the supported shapes:
// plain functions of zero, one, or two data parameters, coroutine-style
// functions taking a leading context.Context, generator functions
// returning a crank.Seq, and async generator functions returning a
// crank.AsyncSeq. Callables that reflect can classify are classified once,
// eagerly; dynamic and variadic callables are classified on first render
// by trial dispatch, probing arities two, one, then zero. Either way the
// classification is cached on the descriptor and never re-probed.
//
// Render is the single host-facing operation. It bridges the incoming
// foreign props object to native form, invokes the callable per its
// cached shape, and returns a renderable value, an iterator handle
// (gen.Handle or gen.AsyncHandle), or an async.Task for coroutines.
//
// Each mounted instance gets its own Context facade and proxy registry,
// keyed by the host's foreign context handle and torn down through the
// host's unmount cleanup hook.
package component
