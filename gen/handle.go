package gen

import (
	stderrors "errors"
	"fmt"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/errors"
)

// Step is one pull-protocol result: a yielded value, or the final return
// value with Done set.
type Step struct {
	Value any
	Done  bool
}

// State is the handle's position in its lifecycle.
type State uint8

const (
	StateFresh State = iota
	StateActive
	StateExhausted
	StateClosed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateActive:
		return "active"
	case StateExhausted:
		return "exhausted"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Body is the underlying generator: it yields through y until it returns a
// final value. A non-nil error return propagates to the driver, except
// ErrClosed which counts as a normal close.
type Body func(y *Yielder) (any, error)

// Handle drives one generator body per the host's pull protocol. It is
// single-owner: the host's iteration driver calls Next/Throw/Return
// strictly sequentially. The body runs on an internal goroutine purely as
// a suspension mechanism; the driver is blocked whenever the body runs, so
// execution stays cooperative.
type Handle struct {
	body  Body
	y     *Yielder
	state State
}

// NewHandle creates a fresh handle. The body does not start until the
// first Next.
func NewHandle(body Body) *Handle {
	return &Handle{body: body}
}

// FromSeq adapts an idiomatic push sequence into a Body. A thrown error or
// forced close ends the range loop, running the sequence's deferred
// cleanup; seq bodies cannot observe a thrown error and keep yielding.
func FromSeq(seq crank.Seq) Body {
	return func(y *Yielder) (any, error) {
		var thrown error
		seq(func(v crank.Renderable) bool {
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

// State returns the handle's current lifecycle state.
func (h *Handle) State() State {
	return h.state
}

// Next drives the body one step. The resume value is delivered to the
// suspended Yield call (and ignored on the very first step). On a yield it
// returns {value, false}; on body completion it transitions to Exhausted
// and returns {final value, true}. Pulling a terminal handle is a protocol
// violation: the host should not have continued.
func (h *Handle) Next(resume any) (Step, error) {
	switch h.state {
	case StateExhausted, StateClosed, StateErrored:
		return Step{}, errors.ProtocolViolation("next on " + h.state.String() + " iterator handle")
	case StateFresh:
		h.start()
	default:
		h.y.resume <- resumption{value: resume}
	}
	return h.receive()
}

// Throw injects err at the body's current suspension point. A body that
// handles it and yields again behaves like Next; otherwise the handle
// transitions to Errored and the error returns to the caller. Throwing
// into a fresh handle errors it without running the body; throwing into a
// terminal handle hands the error straight back.
//
// Throw assumes the body is suspended at a Yield. A body blocked on an
// external input pull cannot observe the injection; unblock or close that
// input first.
func (h *Handle) Throw(err error) (Step, error) {
	switch h.state {
	case StateFresh:
		h.state = StateErrored
		return Step{}, err
	case StateExhausted, StateClosed, StateErrored:
		return Step{}, err
	}
	h.y.resume <- resumption{thrown: err}
	return h.receive()
}

// Return forces cleanup: the suspended body observes ErrClosed, its
// pending deferred cleanup runs exactly once, and the handle transitions
// to Closed. Returns {v, true}. Calling Return on a terminal or fresh
// handle closes it without running anything.
//
// Return delivers the close signal at a Yield or takes the body's final
// message, whichever comes first. A body blocked elsewhere, such as on a
// props pull, receives neither: close the input stream before calling
// Return so the body can reach a Yield or complete. Unmount drivers do
// exactly that, ending the props stream first.
func (h *Handle) Return(v any) (Step, error) {
	switch h.state {
	case StateFresh:
		h.state = StateClosed
		return Step{Value: v, Done: true}, nil
	case StateExhausted, StateClosed, StateErrored:
		return Step{Value: v, Done: true}, nil
	}

	// The body may be completing on its own (its input stream ended) at
	// the same moment we signal the close, so race the signal against the
	// final message instead of blocking on the send.
	closing := resumption{closing: true}
	for {
		var m message
		select {
		case h.y.resume <- closing:
			m = <-h.y.out
		case m = <-h.y.out:
		}
		if m.panicked {
			h.state = StateErrored
			panic(m.panicVal)
		}
		if m.final {
			if m.err != nil && !stderrors.Is(m.err, ErrClosed) {
				h.state = StateErrored
				return Step{}, m.err
			}
			h.state = StateClosed
			return Step{Value: v, Done: true}, nil
		}
		// Body ignored the close and yielded again; signal it again until
		// it returns.
		Logger().Warn("generator ignored close, re-signaling")
	}
}

func (h *Handle) start() {
	h.y = &Yielder{
		out:    make(chan message),
		resume: make(chan resumption),
	}
	h.state = StateActive
	body := h.body
	y := h.y
	go func() {
		defer func() {
			if r := recover(); r != nil {
				y.out <- message{final: true, panicked: true, panicVal: r}
			}
		}()
		ret, err := body(y)
		y.out <- message{value: ret, final: true, err: err}
	}()
}

func (h *Handle) receive() (Step, error) {
	m := <-h.y.out
	if m.panicked {
		h.state = StateErrored
		// User panics cross this layer unchanged.
		panic(m.panicVal)
	}
	if m.final {
		if m.err != nil {
			if stderrors.Is(m.err, ErrClosed) {
				h.state = StateClosed
				return Step{Done: true}, nil
			}
			h.state = StateErrored
			return Step{}, m.err
		}
		h.state = StateExhausted
		return Step{Value: m.value, Done: true}, nil
	}
	return Step{Value: m.value}, nil
}

// Wrap returns the iterator handle for a generator-shaped value. Values
// already wrapped short-circuit to the existing handle, preventing
// duplicate-wrap bugs when a render path re-enters wrapping logic. Returns
// nil for values that are not generator-shaped.
func Wrap(v any) *Handle {
	switch t := v.(type) {
	case *Handle:
		return t
	case Body:
		return NewHandle(t)
	case func(*Yielder) (any, error):
		return NewHandle(t)
	case crank.Seq:
		return NewHandle(FromSeq(t))
	case func(func(crank.Renderable) bool):
		return NewHandle(FromSeq(t))
	}
	return nil
}
