package gen

import "errors"

// ErrClosed is delivered to a suspended body when the driver forces
// cleanup via Return. A body receiving it should stop yielding and return;
// returning ErrClosed (or nil) counts as a normal close.
var ErrClosed = errors.New("generator closed")

// Yielder is a generator body's side of the pull protocol. The body calls
// Yield to suspend with a value; the call blocks until the driver pulls
// again and returns what the driver sent in.
type Yielder struct {
	out    chan message
	resume chan resumption
}

type message struct {
	value    any
	err      error
	panicVal any
	final    bool
	panicked bool
}

type resumption struct {
	value   any
	thrown  error
	closing bool
}

// Yield suspends the body with v. It returns the driver's resume value, or
// a non-nil error when the driver injected one: a thrown error the body may
// handle and keep yielding, or ErrClosed when cleanup was forced.
func (y *Yielder) Yield(v any) (any, error) {
	y.out <- message{value: v}
	r := <-y.resume
	if r.closing {
		return nil, ErrClosed
	}
	return r.value, r.thrown
}
