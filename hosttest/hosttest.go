// Package hosttest provides a fake rendering host for exercising adapted
// components without a real engine: a FakeContext implementing the
// foreign context contract, and an Engine that mounts components and
// steps their iterator handles the way a host's render loop would.
package hosttest

import (
	"sync"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/hostapi"
)

// updateBuffer bounds how many props updates can be queued ahead of the
// component pulling them.
const updateBuffer = 16

// FakeContext is an in-memory foreign context. Props updates are queued
// through Push and pulled by the component through NextProps; lifecycle
// callbacks are recorded and run explicitly by the test.
type FakeContext struct {
	mu        sync.Mutex
	current   hostapi.Object
	updates   chan hostapi.Object
	closed    bool
	refreshes int
	scheduled []func()
	afters    []func()
	cleanups  []func()
	provided  map[any]any
	parent    *FakeContext
}

var _ hostapi.Context = (*FakeContext)(nil)

// NewFakeContext creates a context holding the given initial props.
func NewFakeContext(initial crank.Props) *FakeContext {
	return &FakeContext{
		current:  hostapi.FromMap(initial),
		updates:  make(chan hostapi.Object, updateBuffer),
		provided: map[any]any{},
	}
}

// Child creates a descendant context that consumes provisions from this
// one.
func (f *FakeContext) Child(initial crank.Props) *FakeContext {
	c := NewFakeContext(initial)
	c.parent = f
	return c
}

// Push queues a props update and makes it the current snapshot.
func (f *FakeContext) Push(p crank.Props) {
	obj := hostapi.FromMap(p)
	f.mu.Lock()
	f.current = obj
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return
	}
	f.updates <- obj
}

// Props returns the current props snapshot.
func (f *FakeContext) Props() hostapi.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// NextProps blocks until the next queued update, or reports false once
// the context is closed. Hosts push an update before stepping the
// component, so in practice this never blocks a well-ordered test.
func (f *FakeContext) NextProps() (hostapi.Object, bool) {
	obj, ok := <-f.updates
	return obj, ok
}

// Refresh records a re-render request.
func (f *FakeContext) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

// RefreshCount reports how many times Refresh was called.
func (f *FakeContext) RefreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

// Schedule records a before-commit callback.
func (f *FakeContext) Schedule(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, fn)
}

// After records an after-commit callback.
func (f *FakeContext) After(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.afters = append(f.afters, fn)
}

// Cleanup records an unmount callback.
func (f *FakeContext) Cleanup(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanups = append(f.cleanups, fn)
}

// RunScheduled runs and clears the before-commit callbacks.
func (f *FakeContext) RunScheduled() {
	for _, fn := range f.take(&f.scheduled) {
		fn()
	}
}

// RunAfters runs and clears the after-commit callbacks.
func (f *FakeContext) RunAfters() {
	for _, fn := range f.take(&f.afters) {
		fn()
	}
}

// Provide stores a value for descendant contexts.
func (f *FakeContext) Provide(key, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.provided[key] = value
}

// Consume reads a provided value, walking up the ancestor chain.
func (f *FakeContext) Consume(key any) any {
	for c := f; c != nil; c = c.parent {
		c.mu.Lock()
		v, ok := c.provided[key]
		c.mu.Unlock()
		if ok {
			return v
		}
	}
	return nil
}

// Close ends the props stream and runs the recorded unmount callbacks.
// It is idempotent.
func (f *FakeContext) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()
	close(f.updates)
	for _, fn := range f.take(&f.cleanups) {
		fn()
	}
}

func (f *FakeContext) take(list *[]func()) []func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	fns := *list
	*list = nil
	return fns
}
