package proxy

// ID is an opaque reference to one tracked proxy within a registry scope.
// ID 0 is reserved and always invalid.
type ID uint32

// Handle is a stable cross-boundary stand-in for one native callable.
// For a given callable identity, at most one live Handle exists within one
// registry scope at any time.
type Handle struct {
	id       ID
	callable any
	tracked  bool
}

// ID returns the handle's registry identifier, or 0 for passthrough
// handles.
func (h *Handle) ID() ID {
	if h == nil {
		return 0
	}
	return h.id
}

// Callable returns the wrapped native callable.
func (h *Handle) Callable() any {
	if h == nil {
		return nil
	}
	return h.callable
}

// Foreign returns the value that crosses the boundary: the handle itself
// under manual lifetime management, the bare callable otherwise.
func (h *Handle) Foreign() any {
	if h == nil {
		return nil
	}
	if h.tracked {
		return h
	}
	return h.callable
}

// Dropper is optionally implemented by callables that need cleanup when
// their proxy is released.
type Dropper interface {
	Drop()
}
