package component

import (
	stdcontext "context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/async"
	"github.com/bikeshaving/crank-go/classify"
	"github.com/bikeshaving/crank-go/errors"
	"github.com/bikeshaving/crank-go/gen"
	"github.com/bikeshaving/crank-go/hostapi"
	"github.com/bikeshaving/crank-go/props"
	"github.com/bikeshaving/crank-go/proxy"
	"github.com/bikeshaving/crank-go/runtimecap"
)

var (
	ctxParamType   = reflect.TypeOf((*Context)(nil))
	propsParamType = reflect.TypeOf(crank.Props(nil))
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
)

// Option configures a Component at adaptation time.
type Option func(*Component)

// WithProfile overrides the detected runtime capability profile.
func WithProfile(p runtimecap.Profile) Option {
	return func(c *Component) { c.profile = p }
}

// WithMatcher overrides the arity-mismatch matcher used during trial
// dispatch.
func WithMatcher(m *classify.Matcher) Option {
	return func(c *Component) { c.matcher = m }
}

// WithLogger overrides this component's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Component) { c.log = l }
}

// Component is an adapted user callable: a fixed-contract render entry
// point over a callable of arbitrary shape. The classification is cached
// on the descriptor after it is first established and never re-probed, so
// a callable that would classify differently on a later call keeps its
// original treatment.
//
// One Component serves any number of mounted instances; per-instance state
// (the context facade and the proxy registry) is keyed by the foreign
// context handle.
type Component struct {
	callable any
	fn       reflect.Value
	dyn      hostapi.DynamicCallable

	profile runtimecap.Profile
	matcher *classify.Matcher
	log     *zap.Logger

	sig        classify.Signature
	classified bool

	mu        sync.Mutex
	instances map[hostapi.Context]*instance
}

type instance struct {
	id       uuid.UUID
	ctx      *Context
	registry *proxy.Registry
}

// Adapt wraps a user callable behind the host render contract. Statically
// classifiable callables are classified eagerly here, so a declared shape
// the adapter cannot serve fails before the first render. Dynamic and
// variadic callables defer classification to the first render's trial
// dispatch.
func Adapt(callable any, opts ...Option) (*Component, error) {
	c := &Component{
		callable:  callable,
		profile:   runtimecap.Detect(),
		matcher:   classify.DefaultMatcher,
		log:       Logger(),
		instances: map[hostapi.Context]*instance{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if d, ok := callable.(hostapi.DynamicCallable); ok {
		c.dyn = d
	} else if v := reflect.ValueOf(callable); v.Kind() == reflect.Func {
		c.fn = v
	}

	sig, ok, err := classify.Static(callable, c.profile)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := c.checkParams(sig); err != nil {
			return nil, err
		}
		c.sig = sig
		c.classified = true
		c.log.Debug("component classified statically",
			zap.String("callable", c.name()),
			zap.Int("arity", sig.Arity),
			zap.Stringer("kind", sig.Kind))
	}
	return c, nil
}

// Signature reports the cached classification. The second result is false
// until trial dispatch has run for callables that could not be classified
// statically.
func (c *Component) Signature() (classify.Signature, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sig, c.classified
}

// Render is the host-facing entry point. Props arrive as a foreign object
// and are bridged to native form before dispatch; the result is a
// renderable, a *gen.Handle, a *gen.AsyncHandle, or an *async.Task
// depending on the callable's kind.
func (c *Component) Render(foreign hostapi.Object, fctx hostapi.Context) (any, error) {
	inst := c.instanceFor(fctx)
	native := props.ToNative(foreign)

	c.mu.Lock()
	classified := c.classified
	c.mu.Unlock()
	if !classified {
		return c.renderByTrial(inst, native)
	}
	return c.dispatch(inst, native)
}

// Forget tears down the per-instance state for a foreign context. Hosts
// with an unmount hook do not need to call this; it is registered as an
// unmount cleanup when the instance is created.
func (c *Component) Forget(fctx hostapi.Context) {
	c.mu.Lock()
	inst, ok := c.instances[fctx]
	if ok {
		delete(c.instances, fctx)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	if n := inst.registry.Len(); n > 0 {
		c.log.Debug("releasing instance proxies",
			zap.String("instance", inst.id.String()),
			zap.Int("count", n))
	}
	inst.registry.Close()
}

func (c *Component) instanceFor(fctx hostapi.Context) *instance {
	c.mu.Lock()
	if inst, ok := c.instances[fctx]; ok {
		c.mu.Unlock()
		return inst
	}
	reg := proxy.NewRegistry(c.profile)
	inst := &instance{
		id:       uuid.New(),
		registry: reg,
		ctx:      NewContext(fctx, reg),
	}
	c.instances[fctx] = inst
	c.mu.Unlock()

	if fctx != nil {
		fctx.Cleanup(func() { c.Forget(fctx) })
	}
	return inst
}

// dispatch invokes an already-classified callable.
func (c *Component) dispatch(inst *instance, native crank.Props) (any, error) {
	args := c.buildArgs(inst, native)

	if c.sig.Kind == classify.KindCoroutine {
		return async.Go(func() (any, error) {
			result, err := c.invoke(args...)
			if err != nil {
				return nil, err
			}
			return c.marshal(inst, result), nil
		}), nil
	}

	result, err := c.invoke(args...)
	if err != nil {
		return nil, err
	}
	return c.bridge(inst, result)
}

// renderByTrial classifies by invocation: arities 2, 1, 0 are probed until
// one succeeds, the successful result is used for this render, and the
// discovered signature is cached for all later renders.
func (c *Component) renderByTrial(inst *instance, native crank.Props) (any, error) {
	arity, result, err := classify.Trial(c.invoke, [2]any{inst.ctx, native}, c.matcher)
	if err != nil {
		if stderrors.Is(err, errors.Match(errors.PhaseClassify, errors.KindArityMismatch)) {
			return nil, errors.ArityMismatch(c.name())
		}
		return nil, err
	}

	sig := classify.Signature{Arity: arity, Kind: classify.KindOfResult(result, c.profile)}
	c.mu.Lock()
	c.sig = sig
	c.classified = true
	c.mu.Unlock()
	c.log.Debug("component classified by trial",
		zap.String("callable", c.name()),
		zap.Int("arity", sig.Arity),
		zap.Stringer("kind", sig.Kind))

	return c.bridge(inst, result)
}

// bridge converts a raw invocation result into the handle the host steps,
// according to the cached kind. Sequence results are wrapped so every
// yielded frame crosses the boundary through the props bridge; already
// wrapped handles short-circuit unchanged.
func (c *Component) bridge(inst *instance, result any) (any, error) {
	switch c.sig.Kind {
	case classify.KindGenerator:
		if seq, ok := asSeq(result); ok {
			return gen.NewHandle(gen.FromSeq(c.marshalSeq(inst, seq))), nil
		}
		// Degraded async generators land here with an async sequence
		// body; drive it through the synchronous handle.
		if seq, ok := asAsyncSeq(result); ok {
			return gen.NewHandle(gen.FromAsyncSeq(stdcontext.Background(), c.marshalAsyncSeq(inst, seq))), nil
		}
		if h := gen.Wrap(result); h != nil {
			return h, nil
		}
		return nil, errors.New(errors.PhaseInvoke, errors.KindProtocolViolation).
			Callable(c.name()).
			Detail("generator component returned %T, not a sequence", result).
			Build()
	case classify.KindAsyncGenerator:
		if seq, ok := asAsyncSeq(result); ok {
			return gen.NewAsyncHandle(gen.FromAsyncSeq(stdcontext.Background(), c.marshalAsyncSeq(inst, seq))), nil
		}
		if h := gen.WrapAsync(stdcontext.Background(), result); h != nil {
			return h, nil
		}
		return nil, errors.New(errors.PhaseInvoke, errors.KindProtocolViolation).
			Callable(c.name()).
			Detail("async generator component returned %T, not a sequence", result).
			Build()
	default:
		// A plain result that is itself generator-shaped still gets an
		// iterator handle; hosts treat the returned sequence as the
		// component body.
		if seq, ok := asSeq(result); ok {
			return gen.NewHandle(gen.FromSeq(c.marshalSeq(inst, seq))), nil
		}
		if h, ok := result.(*gen.AsyncHandle); ok {
			if !c.profile.AsyncGenerators {
				return nil, errors.Unsupported(errors.PhaseInvoke,
					"async iterator handle on the "+c.profile.Name+" profile")
			}
			return h, nil
		}
		if h := gen.Wrap(result); h != nil {
			return h, nil
		}
		return c.marshal(inst, result), nil
	}
}

// marshal sends one frame through the props bridge. A frame is always
// delivered; a conversion failure is logged and the offending element
// crosses with empty props.
func (c *Component) marshal(inst *instance, v any) any {
	out, err := props.ForeignRenderable(v, inst.registry)
	if err != nil {
		c.log.Warn("frame marshaling failed",
			zap.String("callable", c.name()),
			zap.Error(err))
	}
	return out
}

func (c *Component) marshalSeq(inst *instance, seq crank.Seq) crank.Seq {
	return func(yield func(crank.Renderable) bool) {
		seq(func(v crank.Renderable) bool {
			return yield(c.marshal(inst, v))
		})
	}
}

func (c *Component) marshalAsyncSeq(inst *instance, seq crank.AsyncSeq) crank.AsyncSeq {
	return func(ctx stdcontext.Context, yield func(crank.Renderable) bool) {
		seq(ctx, func(v crank.Renderable) bool {
			return yield(c.marshal(inst, v))
		})
	}
}

// buildArgs assembles the call arguments for a statically classified
// callable: optional leading std context, then the data parameters the
// declared arity asks for.
func (c *Component) buildArgs(inst *instance, native crank.Props) []any {
	args := make([]any, 0, 3)
	if c.sig.TakesStdContext {
		args = append(args, stdcontext.Background())
	}
	if c.sig.Arity >= 1 {
		args = append(args, inst.ctx)
	}
	if c.sig.Arity >= 2 {
		args = append(args, native)
	}
	return args
}

// invoke calls the underlying callable with the given arguments. Reflect
// call panics surface as errors so the trial matcher can judge them;
// everything else re-panics.
func (c *Component) invoke(args ...any) (result any, err error) {
	if c.dyn != nil {
		return c.dyn.Invoke(args...)
	}
	if !c.fn.IsValid() {
		return nil, errors.InvalidInput(errors.PhaseInvoke, "callable is not invocable")
	}

	defer func() {
		if r := recover(); r != nil {
			if s, ok := r.(string); ok && strings.HasPrefix(s, "reflect:") {
				err = stderrors.New(s)
				return
			}
			panic(r)
		}
	}()

	ft := c.fn.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			if i < ft.NumIn() && !ft.IsVariadic() {
				in[i] = reflect.Zero(ft.In(i))
			} else {
				in[i] = reflect.Zero(reflect.TypeOf((*any)(nil)).Elem())
			}
			continue
		}
		in[i] = reflect.ValueOf(a)
	}

	outs := c.fn.Call(in)
	return splitOuts(outs)
}

// splitOuts separates a call's results into (value, error) per the
// at-most-two-results contract.
func splitOuts(outs []reflect.Value) (any, error) {
	switch len(outs) {
	case 0:
		return nil, nil
	case 1:
		if outs[0].Type().Implements(errorType) {
			err, _ := outs[0].Interface().(error)
			return nil, err
		}
		return outs[0].Interface(), nil
	default:
		var err error
		if e, ok := outs[len(outs)-1].Interface().(error); ok {
			err = e
		}
		if err != nil {
			return nil, err
		}
		return outs[0].Interface(), nil
	}
}

// checkParams verifies that the declared data parameters can actually
// receive the facade and props values dispatch will pass.
func (c *Component) checkParams(sig classify.Signature) error {
	if !c.fn.IsValid() {
		return nil
	}
	ft := c.fn.Type()
	off := 0
	if sig.TakesStdContext {
		off = 1
	}
	if sig.Arity >= 1 && !ctxParamType.AssignableTo(ft.In(off)) {
		return errors.New(errors.PhaseClassify, errors.KindInvalidSignature).
			Callable(c.name()).
			Detail("first data parameter must accept *component.Context, got %s", ft.In(off)).
			Build()
	}
	if sig.Arity >= 2 && !propsParamType.AssignableTo(ft.In(off+1)) {
		return errors.New(errors.PhaseClassify, errors.KindInvalidSignature).
			Callable(c.name()).
			Detail("second data parameter must accept crank.Props, got %s", ft.In(off+1)).
			Build()
	}
	return nil
}

func (c *Component) name() string {
	if c.callable == nil {
		return "<nil>"
	}
	if c.fn.IsValid() {
		return fmt.Sprintf("%s@%#x", c.fn.Type(), c.fn.Pointer())
	}
	return fmt.Sprintf("%T", c.callable)
}

func asSeq(v any) (crank.Seq, bool) {
	switch t := v.(type) {
	case crank.Seq:
		return t, true
	case func(func(crank.Renderable) bool):
		return t, true
	}
	return nil, false
}

func asAsyncSeq(v any) (crank.AsyncSeq, bool) {
	switch t := v.(type) {
	case crank.AsyncSeq:
		return t, true
	case func(stdcontext.Context, func(crank.Renderable) bool):
		return t, true
	}
	return nil, false
}
