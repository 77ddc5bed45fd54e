package component

import (
	stdcontext "context"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/hostapi"
	"github.com/bikeshaving/crank-go/props"
	"github.com/bikeshaving/crank-go/proxy"
	"github.com/bikeshaving/crank-go/runtimecap"
)

// Context is the per-instance facade over one foreign context handle. It is
// built once on the instance's first render and reused across all
// subsequent renders until the host discards the underlying context.
type Context struct {
	foreign  hostapi.Context
	registry *proxy.Registry
}

// NewContext wraps a foreign context. The foreign handle may be nil for a
// pre-mount scope, in which case Refresh and the lifecycle hooks are
// no-ops. A nil registry gets a fresh one under the detected profile.
func NewContext(foreign hostapi.Context, reg *proxy.Registry) *Context {
	if reg == nil {
		reg = proxy.NewRegistry(runtimecap.Detect())
	}
	return &Context{foreign: foreign, registry: reg}
}

// Props returns the current props snapshot, converted through the props
// bridge on every access so it is never stale.
func (c *Context) Props() crank.Props {
	if c.foreign == nil {
		return crank.Props{}
	}
	return props.ToNative(c.foreign.Props())
}

// Iter yields a fresh props snapshot for every update the host supplies,
// in host order, until the instance unmounts. The host re-enters this
// iteration continuously; generator components are expected to loop over
// it indefinitely rather than treat it as single-shot. Breaking out of the
// loop ends the component's re-render participation.
func (c *Context) Iter() crank.PropsSeq {
	return func(yield func(crank.Props) bool) {
		if c.foreign == nil {
			return
		}
		for {
			obj, ok := c.foreign.NextProps()
			if !ok {
				return
			}
			if !yield(props.ToNative(obj)) {
				return
			}
		}
	}
}

// AsyncIter is Iter under a context: iteration additionally stops once
// stdctx is done.
func (c *Context) AsyncIter(stdctx stdcontext.Context) crank.PropsSeq {
	return func(yield func(crank.Props) bool) {
		if c.foreign == nil {
			return
		}
		for stdctx.Err() == nil {
			obj, ok := c.foreign.NextProps()
			if !ok {
				return
			}
			if !yield(props.ToNative(obj)) {
				return
			}
		}
	}
}

// Refresh triggers a re-render of this instance. It is a no-op when no
// foreign refresh is available yet (pre-mount scopes).
func (c *Context) Refresh() {
	if c.foreign == nil {
		return
	}
	c.foreign.Refresh()
}

// RefreshFunc wraps a state-mutating callable so the instance refreshes
// after it runs: the decorator form of Refresh.
func (c *Context) RefreshFunc(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
		c.Refresh()
	}
}

// Schedule registers fn to run before the next commit. Each call site
// registers independently; only identical callable identity deduplicates,
// via the proxy registry.
func (c *Context) Schedule(fn func()) {
	if fn == nil || c.foreign == nil {
		return
	}
	c.registry.Register(fn)
	c.foreign.Schedule(fn)
}

// After registers fn to run after the next commit.
func (c *Context) After(fn func()) {
	if fn == nil || c.foreign == nil {
		return
	}
	c.registry.Register(fn)
	c.foreign.After(fn)
}

// Cleanup registers fn to run on unmount.
func (c *Context) Cleanup(fn func()) {
	if fn == nil || c.foreign == nil {
		return
	}
	c.registry.Register(fn)
	c.foreign.Cleanup(fn)
}

// Provide writes a value visible to descendant components.
func (c *Context) Provide(key, value any) {
	if c.foreign == nil {
		return
	}
	c.foreign.Provide(key, value)
}

// Consume reads a value provided by an ancestor component, or nil.
func (c *Context) Consume(key any) any {
	if c.foreign == nil {
		return nil
	}
	return c.foreign.Consume(key)
}

// Foreign exposes the wrapped foreign context handle.
func (c *Context) Foreign() hostapi.Context {
	return c.foreign
}
