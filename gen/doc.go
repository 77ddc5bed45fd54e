// Package gen emulates the host engine's iterator pull protocol over
// native generator bodies.
//
// The host consumes generator components through next/throw/return calls;
// Go generators (range-over-func sequences) are push-based, so the bridge
// is an explicit state machine rather than a language-native iterator. A
// Handle moves Fresh → Active → {Exhausted, Closed, Errored}:
//
//	Next    advances one step, returning {value, done}
//	Throw   injects an error at the current suspension point
//	Return  forces cleanup and closes the handle
//
// Bodies come in two shapes. The full-protocol Body receives a Yielder
// whose Yield reports injected errors, so a body can handle a thrown error
// and keep yielding. FromSeq adapts an idiomatic crank.Seq, where an
// injected error simply ends the loop after the sequence's deferred
// cleanup runs.
//
// The body executes on an internal goroutine used only as a suspension
// mechanism: the driver blocks while the body runs and vice versa, so the
// protocol stays single-threaded cooperative. Handles are single-owner and
// not safe for concurrent use.
//
// AsyncHandle mirrors the same machine for the asynchronous pull protocol,
// settling each step through an async.Task. On runtimes without async
// generator support, async sequences are driven through the synchronous
// Handle instead.
package gen
