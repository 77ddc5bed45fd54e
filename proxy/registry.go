package proxy

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/bikeshaving/crank-go/runtimecap"
)

// Registry issues and deduplicates proxy handles for native callables
// crossing the boundary. One Registry exists per component instance; its
// state is mutated only by Register and Release, both idempotent, so it
// needs no locking under the host's single-threaded scheduling.
type Registry struct {
	profile    runtimecap.Profile
	byIdentity map[uintptr]*Handle
	table      map[ID]*Handle
	next       ID
	closed     bool
}

// NewRegistry creates a registry scoped to one component instance.
func NewRegistry(profile runtimecap.Profile) *Registry {
	return &Registry{
		profile:    profile,
		byIdentity: make(map[uintptr]*Handle),
		table:      make(map[ID]*Handle),
	}
}

// Register returns the proxy handle for fn, creating one on first sight.
// Registering the same callable identity again returns the existing handle;
// violating that invariant upstream shows up as unbounded handle growth on
// the compact runtime.
//
// Identity is the callable's code pointer. Closures created from the same
// function literal share an identity, which is what keeps a handler
// re-created on every render pass from minting a new handle each time.
func (r *Registry) Register(fn any) *Handle {
	if r.closed || fn == nil {
		return nil
	}

	key := identity(fn)
	if h, ok := r.byIdentity[key]; ok {
		return h
	}

	h := &Handle{callable: fn, tracked: r.profile.ManualProxyLifetime}
	if h.tracked {
		r.next++
		h.id = r.next
		r.table[h.id] = h
	}
	r.byIdentity[key] = h
	return h
}

// Release drops a handle. Releasing an already-released or never-registered
// handle is a no-op, not an error.
func (r *Registry) Release(h *Handle) {
	if h == nil || !h.tracked {
		return
	}
	if _, ok := r.table[h.id]; !ok {
		return
	}
	delete(r.table, h.id)
	delete(r.byIdentity, identity(h.callable))
	if d, ok := h.callable.(Dropper); ok {
		d.Drop()
	}
}

// Len returns the number of live tracked handles. Always zero under the
// passthrough strategy.
func (r *Registry) Len() int {
	return len(r.table)
}

// Close tears down the registry scope, releasing every live handle.
// Further Register calls return nil.
func (r *Registry) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if len(r.table) > 0 {
		// Handles still live at scope teardown were never released by
		// their call sites.
		Logger().Debug("releasing leaked proxy handles", zap.Int("count", len(r.table)))
	}
	for _, h := range r.table {
		if d, ok := h.callable.(Dropper); ok {
			d.Drop()
		}
	}
	r.table = map[ID]*Handle{}
	r.byIdentity = map[uintptr]*Handle{}
}

func identity(fn any) uintptr {
	v := reflect.ValueOf(fn)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Chan, reflect.Map, reflect.UnsafePointer:
		return v.Pointer()
	default:
		// Non-pointer callables (e.g. method values boxed in a struct)
		// fall back to a fresh identity each time.
		return uintptr(reflect.ValueOf(&fn).Pointer())
	}
}
