// Package crank adapts Go component callables to a host rendering engine's
// fixed invocation contract.
//
// A host engine renders component trees by calling every component through
// one shape: an entry point taking a foreign props object and a foreign
// per-component context, returning either a renderable value or an iterator
// handle the engine pulls with next/throw/return. User code, on the other
// hand, wants to write components in whatever shape fits: a plain function,
// a blocking (coroutine-style) function, a generator that yields a new tree
// per props update, or an asynchronous generator. This module bridges the
// two sides.
//
// # Architecture Overview
//
// The module is organized into packages in leaf-to-root dependency order:
//
//	crank/               Root package with core types (Renderable, Props, Seq)
//	├── hostapi/         Boundary contracts: foreign objects, contexts, elements
//	├── element/         Element descriptor construction sugar
//	├── runtimecap/      Runtime capability profiles (full vs compact)
//	├── errors/          Structured error types for the whole layer
//	├── proxy/           Proxy handle registry for callables crossing the boundary
//	├── props/           Bidirectional props conversion
//	├── classify/        Component signature classification
//	├── async/           Deferred task primitive for the async pull protocol
//	├── gen/             Iterator bridge: generator pull-protocol state machine
//	├── component/       Invocation adapter and context facade (top-level API)
//	└── hosttest/        In-memory host engine for tests and demos
//
// # Quick Start
//
// Adapt a generator component and drive it:
//
//	counter := func(ctx *component.Context) crank.Seq {
//	    count := 0
//	    return func(yield func(crank.Renderable) bool) {
//	        for range ctx.Iter() {
//	            if !yield(element.New("div", nil, count)) {
//	                return
//	            }
//	            count++
//	        }
//	    }
//	}
//
//	comp, err := component.Adapt(counter)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// The host engine calls comp.Render(foreignProps, foreignContext)
//	// on every render pass and pulls frames from the returned handle.
//
// # Runtime Profiles
//
// The embedding runtime exists in two variants. The full profile supports
// asynchronous generators and manual proxy lifetime management. The compact
// profile degrades async generators to synchronous ones and treats proxy
// handles as passthrough. See the runtimecap package.
//
// # Thread Safety
//
// The host engine drives all execution single-threaded and strictly
// sequentially per component instance. Adapted components, iterator handles,
// and proxy registries are NOT safe for concurrent use; the iterator bridge
// uses an internal goroutine only as a suspension mechanism, with the driver
// blocked while the generator body runs.
package crank
