package hosttest

import (
	stdcontext "context"
	"time"

	"go.uber.org/zap"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/async"
	"github.com/bikeshaving/crank-go/component"
	"github.com/bikeshaving/crank-go/gen"
)

// Engine drives mounted components the way a host render loop would:
// push props, step the iterator handle, collect the frame.
type Engine struct {
	log          *zap.Logger
	awaitTimeout time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithAwaitTimeout bounds how long the engine waits on async handles and
// coroutine tasks.
func WithAwaitTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.awaitTimeout = d }
}

// NewEngine creates an engine with a no-op logger and a five second await
// timeout.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{log: zap.NewNop(), awaitTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mounted is one live component instance under the engine.
type Mounted struct {
	engine *Engine
	comp   *component.Component
	Ctx    *FakeContext
	result any
	frames []crank.Renderable
}

// Mount renders a component for the first time against a fresh foreign
// context holding the initial props. The initial props are also queued so
// a generator's first props pull observes them.
func (e *Engine) Mount(c *component.Component, initial crank.Props) (*Mounted, error) {
	fctx := NewFakeContext(initial)
	fctx.Push(initial)
	out, err := c.Render(fctx.Props(), fctx)
	if err != nil {
		fctx.Close()
		return nil, err
	}
	e.log.Debug("mounted component")
	return &Mounted{engine: e, comp: c, Ctx: fctx, result: out}, nil
}

// RenderNext produces the next frame: for iterator handles it steps the
// handle, for coroutines it awaits the task, for plain components it
// returns the rendered value. The second result reports whether the
// component is done producing frames.
func (m *Mounted) RenderNext() (crank.Renderable, bool, error) {
	switch h := m.result.(type) {
	case *gen.Handle:
		step, err := h.Next(nil)
		if err != nil {
			return nil, false, err
		}
		return m.record(step.Value), step.Done, nil
	case *gen.AsyncHandle:
		v, err := m.await(h.Next(nil))
		if err != nil {
			return nil, false, err
		}
		step := v.(gen.Step)
		return m.record(step.Value), step.Done, nil
	case *async.Task:
		v, err := m.await(h)
		if err != nil {
			return nil, false, err
		}
		return m.record(v), true, nil
	default:
		return m.record(m.result), true, nil
	}
}

// UpdateProps delivers new props and produces the resulting frame. For
// iterator handles the update is queued and the handle stepped so the
// body's props pull observes it; plain and coroutine components are
// re-invoked through Render.
func (m *Mounted) UpdateProps(p crank.Props) (crank.Renderable, bool, error) {
	m.Ctx.Push(p)
	switch m.result.(type) {
	case *gen.Handle, *gen.AsyncHandle:
		return m.RenderNext()
	default:
		out, err := m.comp.Render(m.Ctx.Props(), m.Ctx)
		if err != nil {
			return nil, false, err
		}
		m.result = out
		return m.RenderNext()
	}
}

// Throw injects an error at the component's suspension point. Only
// iterator handles can observe it.
func (m *Mounted) Throw(err error) (crank.Renderable, bool, error) {
	switch h := m.result.(type) {
	case *gen.Handle:
		step, serr := h.Throw(err)
		return step.Value, step.Done, serr
	case *gen.AsyncHandle:
		v, serr := m.await(h.Throw(err))
		if serr != nil {
			return nil, false, serr
		}
		step := v.(gen.Step)
		return step.Value, step.Done, nil
	default:
		return nil, false, err
	}
}

// Result returns the raw render result: an iterator handle, a task, or a
// plain renderable.
func (m *Mounted) Result() any {
	return m.result
}

// Frames returns every frame produced so far, in order.
func (m *Mounted) Frames() []crank.Renderable {
	return m.frames
}

// Unmount ends the props stream, forces generator cleanup, and runs the
// recorded unmount callbacks. The stream is closed before the handle is
// returned so a body parked on a props pull unblocks first.
func (m *Mounted) Unmount() error {
	m.Ctx.Close()
	switch h := m.result.(type) {
	case *gen.Handle:
		if _, err := h.Return(nil); err != nil {
			return err
		}
	case *gen.AsyncHandle:
		if _, err := m.await(h.Return(nil)); err != nil {
			return err
		}
	}
	m.engine.log.Debug("unmounted component")
	return nil
}

func (m *Mounted) await(t *async.Task) (any, error) {
	ctx, cancel := stdcontext.WithTimeout(stdcontext.Background(), m.engine.awaitTimeout)
	defer cancel()
	return t.Await(ctx)
}

func (m *Mounted) record(v crank.Renderable) crank.Renderable {
	m.frames = append(m.frames, v)
	return v
}
