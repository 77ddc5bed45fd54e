package gen

import (
	"context"
	"sync"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/async"
)

// AsyncHandle mirrors Handle's state machine for the host's asynchronous
// pull protocol: each step settles a deferred task with the {value, done}
// result instead of returning it directly.
type AsyncHandle struct {
	h  *Handle
	mu sync.Mutex
}

// NewAsyncHandle creates a fresh async handle over body.
func NewAsyncHandle(body Body) *AsyncHandle {
	return &AsyncHandle{h: NewHandle(body)}
}

// FromAsyncSeq adapts an asynchronous push sequence into a Body. The
// context crosses into the sequence so awaits inside it can observe
// cancellation.
func FromAsyncSeq(ctx context.Context, seq crank.AsyncSeq) Body {
	return func(y *Yielder) (any, error) {
		var thrown error
		seq(ctx, func(v crank.Renderable) bool {
			_, err := y.Yield(v)
			if err != nil {
				thrown = err
				return false
			}
			return true
		})
		return nil, thrown
	}
}

// Next steps the body asynchronously.
func (a *AsyncHandle) Next(resume any) *async.Task {
	return a.step(func() (Step, error) { return a.h.Next(resume) })
}

// Throw injects an error asynchronously.
func (a *AsyncHandle) Throw(err error) *async.Task {
	return a.step(func() (Step, error) { return a.h.Throw(err) })
}

// Return forces cleanup asynchronously. The suspension requirement of
// Handle.Return applies: end the body's input stream before closing.
func (a *AsyncHandle) Return(v any) *async.Task {
	return a.step(func() (Step, error) { return a.h.Return(v) })
}

// State returns the underlying handle's lifecycle state.
func (a *AsyncHandle) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.h.State()
}

// Sync exposes the underlying synchronous handle for runtimes that degrade
// the async pull protocol.
func (a *AsyncHandle) Sync() *Handle {
	return a.h
}

func (a *AsyncHandle) step(fn func() (Step, error)) *async.Task {
	return async.Go(func() (any, error) {
		a.mu.Lock()
		defer a.mu.Unlock()
		step, err := fn()
		if err != nil {
			return nil, err
		}
		return step, nil
	})
}

// WrapAsync returns the async iterator handle for an async-generator-shaped
// value, short-circuiting values already wrapped. Returns nil for values
// that are not async-generator-shaped.
func WrapAsync(ctx context.Context, v any) *AsyncHandle {
	switch t := v.(type) {
	case *AsyncHandle:
		return t
	case crank.AsyncSeq:
		return NewAsyncHandle(FromAsyncSeq(ctx, t))
	case func(context.Context, func(crank.Renderable) bool):
		return NewAsyncHandle(FromAsyncSeq(ctx, t))
	}
	return nil
}
