package gen

import (
	stderrors "errors"
	"testing"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/errors"
)

func countingSeq(n int) crank.Seq {
	return func(yield func(crank.Renderable) bool) {
		for i := 0; i < n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func TestHandle_DrainSeq(t *testing.T) {
	h := NewHandle(FromSeq(countingSeq(3)))

	for i := 0; i < 3; i++ {
		step, err := h.Next(nil)
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if step.Done || step.Value != i {
			t.Fatalf("step %d = %+v", i, step)
		}
	}

	step, err := h.Next(nil)
	if err != nil {
		t.Fatalf("final Next: %v", err)
	}
	if !step.Done {
		t.Fatalf("expected done, got %+v", step)
	}
	if h.State() != StateExhausted {
		t.Fatalf("state = %s, want exhausted", h.State())
	}
}

func TestHandle_FinalReturnValue(t *testing.T) {
	h := NewHandle(func(y *Yielder) (any, error) {
		if _, err := y.Yield("once"); err != nil {
			return nil, err
		}
		return "final", nil
	})

	if step, err := h.Next(nil); err != nil || step.Value != "once" {
		t.Fatalf("first step = (%+v, %v)", step, err)
	}
	step, err := h.Next(nil)
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if !step.Done || step.Value != "final" {
		t.Fatalf("expected final return value, got %+v", step)
	}
}

func TestHandle_NextAfterDoneIsProtocolViolation(t *testing.T) {
	h := NewHandle(FromSeq(countingSeq(1)))
	h.Next(nil)
	h.Next(nil) // exhausts

	_, err := h.Next(nil)
	if !stderrors.Is(err, errors.Match(errors.PhaseIterate, errors.KindProtocolViolation)) {
		t.Fatalf("expected protocol violation, got %v", err)
	}
}

func TestHandle_ResumeValues(t *testing.T) {
	var got []any
	h := NewHandle(func(y *Yielder) (any, error) {
		v, err := y.Yield("a")
		if err != nil {
			return nil, err
		}
		got = append(got, v)
		v, err = y.Yield("b")
		if err != nil {
			return nil, err
		}
		got = append(got, v)
		return nil, nil
	})

	h.Next("ignored-first")
	h.Next(1)
	h.Next(2)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("resume values = %v, want [1 2]", got)
	}
}

func TestHandle_ReturnRunsCleanupExactlyOnce(t *testing.T) {
	cleanups := 0
	h := NewHandle(FromSeq(func(yield func(crank.Renderable) bool) {
		defer func() { cleanups++ }()
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	}))

	h.Next(nil)
	step, err := h.Return("bye")
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if !step.Done || step.Value != "bye" {
		t.Fatalf("Return step = %+v", step)
	}
	if cleanups != 1 {
		t.Fatalf("cleanup ran %d times, want 1", cleanups)
	}
	if h.State() != StateClosed {
		t.Fatalf("state = %s, want closed", h.State())
	}

	// Idempotent: further Return calls do not re-run cleanup.
	h.Return(nil)
	if cleanups != 1 {
		t.Fatalf("cleanup re-ran on second Return: %d", cleanups)
	}
}

func TestHandle_ReturnThenNextNeverResumes(t *testing.T) {
	resumed := 0
	h := NewHandle(FromSeq(func(yield func(crank.Renderable) bool) {
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
			resumed++
		}
	}))

	h.Next(nil)
	h.Return(nil)

	if _, err := h.Next(nil); err == nil {
		t.Fatal("expected error from Next after Return")
	}
	if resumed != 0 {
		t.Fatalf("body resumed %d times after close", resumed)
	}
}

func TestHandle_ReturnOnFresh(t *testing.T) {
	ran := false
	h := NewHandle(func(y *Yielder) (any, error) {
		ran = true
		return nil, nil
	})

	step, err := h.Return("v")
	if err != nil || !step.Done || step.Value != "v" {
		t.Fatalf("Return on fresh = (%+v, %v)", step, err)
	}
	if ran {
		t.Fatal("body must not run when closed before the first Next")
	}
}

func TestHandle_ReturnAfterInputClosed(t *testing.T) {
	// A body parked on an input pull cannot observe the close signal;
	// Return is safe once the input stream has ended.
	in := make(chan int, 1)
	in <- 1
	cleaned := false
	h := NewHandle(FromSeq(func(yield func(crank.Renderable) bool) {
		defer func() { cleaned = true }()
		for v := range in {
			if !yield(v) {
				return
			}
		}
	}))

	step, err := h.Next(nil)
	if err != nil || step.Value != 1 {
		t.Fatalf("first step = %+v, %v", step, err)
	}

	// The body is about to block pulling the next input. End the stream
	// first, then close the handle.
	close(in)
	step, err = h.Return("done")
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if !step.Done || step.Value != "done" {
		t.Fatalf("unexpected close step: %+v", step)
	}
	if h.State() != StateClosed {
		t.Fatalf("state = %s, want closed", h.State())
	}
	if !cleaned {
		t.Fatal("deferred cleanup did not run")
	}
}

func TestHandle_ThrowPropagatesFromSeq(t *testing.T) {
	cleanups := 0
	h := NewHandle(FromSeq(func(yield func(crank.Renderable) bool) {
		defer func() { cleanups++ }()
		yield("x")
	}))
	h.Next(nil)

	boom := stderrors.New("boom")
	_, err := h.Throw(boom)
	if !stderrors.Is(err, boom) {
		t.Fatalf("thrown error must propagate unchanged, got %v", err)
	}
	if h.State() != StateErrored {
		t.Fatalf("state = %s, want errored", h.State())
	}
	if cleanups != 1 {
		t.Fatalf("seq cleanup ran %d times, want 1", cleanups)
	}
}

func TestHandle_ThrowCaughtByBody(t *testing.T) {
	h := NewHandle(func(y *Yielder) (any, error) {
		for {
			_, err := y.Yield("ok")
			if err != nil && !stderrors.Is(err, ErrClosed) {
				// Handled: keep yielding with a recovery value.
				if _, err := y.Yield("recovered"); err != nil {
					return nil, err
				}
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	})

	h.Next(nil)
	step, err := h.Throw(stderrors.New("transient"))
	if err != nil {
		t.Fatalf("caught throw must behave like Next, got %v", err)
	}
	if step.Done || step.Value != "recovered" {
		t.Fatalf("step after caught throw = %+v", step)
	}
	if h.State() != StateActive {
		t.Fatalf("state = %s, want active", h.State())
	}
}

func TestHandle_ThrowOnFresh(t *testing.T) {
	ran := false
	h := NewHandle(func(y *Yielder) (any, error) {
		ran = true
		return nil, nil
	})

	boom := stderrors.New("boom")
	if _, err := h.Throw(boom); !stderrors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ran {
		t.Fatal("body must not run on fresh throw")
	}
	if h.State() != StateErrored {
		t.Fatalf("state = %s, want errored", h.State())
	}
}

func TestHandle_BodyErrorPropagates(t *testing.T) {
	boom := stderrors.New("boom")
	h := NewHandle(func(y *Yielder) (any, error) {
		return nil, boom
	})

	_, err := h.Next(nil)
	if !stderrors.Is(err, boom) {
		t.Fatalf("body error must propagate unchanged, got %v", err)
	}
	if h.State() != StateErrored {
		t.Fatalf("state = %s, want errored", h.State())
	}
}

func TestHandle_BodyPanicRepanics(t *testing.T) {
	h := NewHandle(func(y *Yielder) (any, error) {
		panic("component bug")
	})

	defer func() {
		if r := recover(); r != "component bug" {
			t.Fatalf("recovered %v, want original panic value", r)
		}
		if h.State() != StateErrored {
			t.Errorf("state = %s, want errored", h.State())
		}
	}()
	h.Next(nil)
	t.Fatal("expected panic")
}

func TestWrap_ShortCircuits(t *testing.T) {
	h := NewHandle(FromSeq(countingSeq(1)))
	if Wrap(h) != h {
		t.Fatal("re-wrapping a handle must return the same handle")
	}
}

func TestWrap_Shapes(t *testing.T) {
	if Wrap(countingSeq(1)) == nil {
		t.Error("Seq must wrap")
	}
	if Wrap(func(yield func(crank.Renderable) bool) {}) == nil {
		t.Error("raw seq-shaped func must wrap")
	}
	if Wrap("not a generator") != nil {
		t.Error("non-generator value must not wrap")
	}
}
