// Package async provides the deferred result primitive backing the host's
// asynchronous pull protocol.
//
// A Task is resolved or rejected exactly once and awaited any number of
// times. The async iterator bridge wraps each pull step in a Task; the
// coroutine dispatch path runs the component body under Go and hands the
// Task to the host.
package async

import (
	"context"
	"sync"
)

// Task is a single-assignment deferred result.
type Task struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

// NewTask creates an unresolved task.
func NewTask() *Task {
	return &Task{done: make(chan struct{})}
}

// Resolved returns a task already resolved with v.
func Resolved(v any) *Task {
	t := NewTask()
	t.Resolve(v)
	return t
}

// Failed returns a task already rejected with err.
func Failed(err error) *Task {
	t := NewTask()
	t.Reject(err)
	return t
}

// Go runs fn and settles the returned task with its outcome. A panic in fn
// re-panics in the awaiting goroutine.
func Go(fn func() (any, error)) *Task {
	t := NewTask()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.settle(nil, nil, r)
			}
		}()
		v, err := fn()
		t.settle(v, err, nil)
	}()
	return t
}

// Resolve settles the task with a value. Later settlements are no-ops.
func (t *Task) Resolve(v any) {
	t.settle(v, nil, nil)
}

// Reject settles the task with an error. Later settlements are no-ops.
func (t *Task) Reject(err error) {
	t.settle(nil, err, nil)
}

type panicValue struct{ v any }

func (t *Task) settle(v any, err error, panicked any) {
	t.once.Do(func() {
		t.value = v
		t.err = err
		if panicked != nil {
			t.value = panicValue{panicked}
		}
		close(t.done)
	})
}

// Await blocks until the task settles or ctx is done.
func (t *Task) Await(ctx context.Context) (any, error) {
	select {
	case <-t.done:
		if p, ok := t.value.(panicValue); ok {
			panic(p.v)
		}
		return t.value, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed when the task settles.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Settled reports whether the task has already settled.
func (t *Task) Settled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
