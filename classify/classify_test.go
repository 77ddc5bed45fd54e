package classify

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/errors"
	"github.com/bikeshaving/crank-go/runtimecap"
)

type fakeCtx struct{}

func TestStatic_PlainShapes(t *testing.T) {
	full := runtimecap.Full()

	cases := []struct {
		name  string
		fn    any
		arity int
		kind  Kind
	}{
		{"zero-arg", func() any { return nil }, 0, KindPlain},
		{"one-arg", func(ctx *fakeCtx) any { return nil }, 1, KindPlain},
		{"two-arg", func(ctx *fakeCtx, p crank.Props) any { return nil }, 2, KindPlain},
		{"with-error", func() (any, error) { return nil, nil }, 0, KindPlain},
		{"error-only", func() error { return nil }, 0, KindPlain},
		{"no-result", func(ctx *fakeCtx) {}, 1, KindPlain},
		{"generator", func(ctx *fakeCtx) crank.Seq { return nil }, 1, KindGenerator},
		{"generator-two-arg", func(ctx *fakeCtx, p crank.Props) crank.Seq { return nil }, 2, KindGenerator},
		{"async-generator", func(ctx *fakeCtx) crank.AsyncSeq { return nil }, 1, KindAsyncGenerator},
		{"coroutine", func(stdctx context.Context, ctx *fakeCtx) (any, error) { return nil, nil }, 1, KindCoroutine},
		{"coroutine-zero", func(stdctx context.Context) any { return nil }, 0, KindCoroutine},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig, ok, err := Static(tc.fn, full)
			if err != nil {
				t.Fatalf("Static: %v", err)
			}
			if !ok {
				t.Fatal("expected static classification to succeed")
			}
			if sig.Arity != tc.arity || sig.Kind != tc.kind {
				t.Fatalf("got {arity:%d kind:%s}, want {arity:%d kind:%s}",
					sig.Arity, sig.Kind, tc.arity, tc.kind)
			}
		})
	}
}

func TestStatic_InvalidArity(t *testing.T) {
	_, _, err := Static(func(a, b, c any) any { return nil }, runtimecap.Full())
	if !stderrors.Is(err, errors.Match(errors.PhaseClassify, errors.KindInvalidSignature)) {
		t.Fatalf("expected invalid_signature, got %v", err)
	}
}

func TestStatic_BadSecondResult(t *testing.T) {
	_, _, err := Static(func() (any, int) { return nil, 0 }, runtimecap.Full())
	if !stderrors.Is(err, errors.Match(errors.PhaseClassify, errors.KindInvalidSignature)) {
		t.Fatalf("expected invalid_signature, got %v", err)
	}
}

func TestStatic_VariadicFallsBack(t *testing.T) {
	sig, ok, err := Static(func(args ...any) any { return nil }, runtimecap.Full())
	if err != nil {
		t.Fatalf("Static: %v", err)
	}
	if ok {
		t.Fatalf("variadic callable must defer to trial dispatch, got %+v", sig)
	}
}

func TestStatic_NonFunc(t *testing.T) {
	_, _, err := Static(42, runtimecap.Full())
	if err == nil {
		t.Fatal("expected error for non-callable")
	}
}

func TestStatic_DegradedProfile(t *testing.T) {
	compact := runtimecap.Compact()

	sig, ok, err := Static(func(ctx *fakeCtx) crank.AsyncSeq { return nil }, compact)
	if err != nil || !ok {
		t.Fatalf("Static: ok=%v err=%v", ok, err)
	}
	if sig.Kind != KindGenerator {
		t.Fatalf("async generator must degrade to generator, got %s", sig.Kind)
	}
}

func TestTrial_FindsArity(t *testing.T) {
	// A callable that only accepts exactly one argument.
	invoke := func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("f() takes 1 positional argument but %d were given", len(args))
		}
		return "rendered", nil
	}

	arity, result, err := Trial(invoke, [2]any{"ctx", "props"}, nil)
	if err != nil {
		t.Fatalf("Trial: %v", err)
	}
	if arity != 1 {
		t.Fatalf("arity = %d, want 1", arity)
	}
	if result != "rendered" {
		t.Fatalf("result = %v, want first invocation's result", result)
	}
}

func TestTrial_GenuineErrorPropagates(t *testing.T) {
	boom := stderrors.New("boom")
	calls := 0
	invoke := func(args ...any) (any, error) {
		calls++
		return nil, boom
	}

	_, _, err := Trial(invoke, [2]any{"ctx", "props"}, nil)
	if !stderrors.Is(err, boom) {
		t.Fatalf("genuine error must propagate unchanged, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("genuine error must stop the trial, got %d calls", calls)
	}
}

func TestTrial_Exhausted(t *testing.T) {
	invoke := func(args ...any) (any, error) {
		return nil, fmt.Errorf("wrong number of arguments (given %d, expected 7)", len(args))
	}

	_, _, err := Trial(invoke, [2]any{"ctx", "props"}, nil)
	if !stderrors.Is(err, errors.Match(errors.PhaseClassify, errors.KindArityMismatch)) {
		t.Fatalf("expected arity_mismatch after exhausted trials, got %v", err)
	}
}

func TestKindOfResult(t *testing.T) {
	full := runtimecap.Full()

	if k := KindOfResult(crank.Seq(func(func(crank.Renderable) bool) {}), full); k != KindGenerator {
		t.Errorf("Seq result = %s, want generator", k)
	}
	if k := KindOfResult(crank.AsyncSeq(func(context.Context, func(crank.Renderable) bool) {}), full); k != KindAsyncGenerator {
		t.Errorf("AsyncSeq result = %s, want async-generator", k)
	}
	if k := KindOfResult(func(func(any) bool) {}, full); k != KindGenerator {
		t.Errorf("raw seq-shaped func = %s, want generator", k)
	}
	if k := KindOfResult("renderable", full); k != KindPlain {
		t.Errorf("scalar result = %s, want plain", k)
	}

	compact := runtimecap.Compact()
	if k := KindOfResult(crank.AsyncSeq(func(context.Context, func(crank.Renderable) bool) {}), compact); k != KindGenerator {
		t.Errorf("degraded AsyncSeq result = %s, want generator", k)
	}
}
