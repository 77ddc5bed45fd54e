package classify

import (
	"context"
	"fmt"
	"reflect"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/errors"
	"github.com/bikeshaving/crank-go/hostapi"
	"github.com/bikeshaving/crank-go/runtimecap"
)

// Kind is the closed set of component callable shapes. It is produced once
// per descriptor; downstream code switches on the tag instead of
// re-inspecting the callable.
type Kind uint8

const (
	KindPlain Kind = iota
	KindCoroutine
	KindGenerator
	KindAsyncGenerator
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindCoroutine:
		return "coroutine"
	case KindGenerator:
		return "generator"
	case KindAsyncGenerator:
		return "async-generator"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Signature is a callable's cached classification.
type Signature struct {
	// Arity counts data parameters only: 0, 1 (context facade), or
	// 2 (context facade, props).
	Arity int

	Kind Kind

	// TakesStdContext reports a leading context.Context parameter, the
	// marker for coroutine-style bodies. It is not counted in Arity.
	TakesStdContext bool
}

var (
	stdContextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	seqType        = reflect.TypeOf(crank.Seq(nil))
	asyncSeqType   = reflect.TypeOf(crank.AsyncSeq(nil))
)

// Static classifies a callable by introspection without invoking it.
// The second result is false when static introspection cannot classify the
// callable (dynamic callables, variadic functions, or a profile without
// introspection support); the caller then falls back to trial dispatch on
// first invocation.
//
// A declared data arity outside {0,1,2} fails eagerly here, before first
// render.
func Static(callable any, profile runtimecap.Profile) (Signature, bool, error) {
	if callable == nil {
		return Signature{}, false, errors.InvalidInput(errors.PhaseClassify, "nil callable")
	}
	if _, ok := callable.(hostapi.DynamicCallable); ok {
		return Signature{}, false, nil
	}

	t := reflect.TypeOf(callable)
	if t.Kind() != reflect.Func {
		return Signature{}, false, errors.New(errors.PhaseClassify, errors.KindInvalidInput).
			Detail("callable must be a func or DynamicCallable, got %s", t).
			Build()
	}
	if t.IsVariadic() || !profile.StaticIntrospection {
		return Signature{}, false, nil
	}

	sig := Signature{}
	in := 0
	if t.NumIn() > 0 && t.In(0) == stdContextType {
		sig.TakesStdContext = true
		in = 1
	}
	sig.Arity = t.NumIn() - in
	if sig.Arity < 0 || sig.Arity > 2 {
		return Signature{}, false, errors.InvalidSignature(callableName(callable), sig.Arity)
	}

	switch t.NumOut() {
	case 0:
		sig.Kind = KindPlain
	case 1:
		sig.Kind = kindOfType(t.Out(0))
	case 2:
		if t.Out(1) != errorType {
			return Signature{}, false, errors.New(errors.PhaseClassify, errors.KindInvalidSignature).
				Callable(callableName(callable)).
				Detail("second result must be error, got %s", t.Out(1)).
				Build()
		}
		sig.Kind = kindOfType(t.Out(0))
	default:
		return Signature{}, false, errors.New(errors.PhaseClassify, errors.KindInvalidSignature).
			Callable(callableName(callable)).
			Detail("at most two results allowed, got %d", t.NumOut()).
			Build()
	}

	if sig.Kind == KindPlain && sig.TakesStdContext {
		sig.Kind = KindCoroutine
	}
	sig.Kind = degrade(sig.Kind, profile)
	return sig, true, nil
}

// Trial classifies by invocation, probing arities 2, 1, 0 against the
// prepared argument list. Only errors the matcher recognizes as
// arity-mismatch-shaped trigger the next lower arity; anything else is a
// genuine user error and propagates unchanged. On success the first
// invocation's result is returned so the caller does not invoke twice.
func Trial(invoke func(args ...any) (any, error), args [2]any, m *Matcher) (int, any, error) {
	if m == nil {
		m = DefaultMatcher
	}
	for arity := 2; arity >= 0; arity-- {
		result, err := invoke(args[:arity]...)
		if err == nil {
			return arity, result, nil
		}
		if !m.Match(err) {
			return arity, nil, err
		}
	}
	return 0, nil, errors.ArityMismatch("dynamic callable")
}

// KindOfResult infers the generator kind from a trial invocation's result.
func KindOfResult(v any, profile runtimecap.Profile) Kind {
	switch v.(type) {
	case crank.Seq:
		return degrade(KindGenerator, profile)
	case crank.AsyncSeq:
		return degrade(KindAsyncGenerator, profile)
	}
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Func {
		if t.ConvertibleTo(seqType) {
			return degrade(KindGenerator, profile)
		}
		if t.ConvertibleTo(asyncSeqType) {
			return degrade(KindAsyncGenerator, profile)
		}
	}
	return KindPlain
}

// degrade maps async kinds onto their synchronous counterparts on runtimes
// without async generator support.
func degrade(k Kind, profile runtimecap.Profile) Kind {
	if profile.AsyncGenerators {
		return k
	}
	switch k {
	case KindAsyncGenerator:
		return KindGenerator
	case KindCoroutine:
		return KindPlain
	default:
		return k
	}
}

func kindOfType(t reflect.Type) Kind {
	switch {
	case t == seqType || (t.Kind() == reflect.Func && t.ConvertibleTo(seqType)):
		return KindGenerator
	case t == asyncSeqType || (t.Kind() == reflect.Func && t.ConvertibleTo(asyncSeqType)):
		return KindAsyncGenerator
	default:
		return KindPlain
	}
}

func callableName(callable any) string {
	t := reflect.TypeOf(callable)
	if t == nil {
		return "<nil>"
	}
	if pc := reflect.ValueOf(callable); pc.Kind() == reflect.Func {
		return fmt.Sprintf("%s@%#x", t, pc.Pointer())
	}
	return t.String()
}
