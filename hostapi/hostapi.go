package hostapi

// Object is a foreign key-value object owned by the host engine. Keys are
// strings; values may be scalars, nested Objects, sequences, or callables
// that crossed the boundary as proxy handles.
type Object interface {
	// Keys returns the own enumerable keys in insertion order.
	Keys() []string

	// Get returns the value for key, or (nil, false) if absent.
	Get(key string) (any, bool)

	// Set stores a value under key.
	Set(key string, value any)

	// Len returns the number of keys.
	Len() int
}

// NativeConverter is optionally implemented by foreign objects that carry
// their own direct conversion to a native mapping. The props bridge prefers
// it over key enumeration.
type NativeConverter interface {
	ToNative() map[string]any
}

// DynamicCallable is a callable whose signature cannot be inspected
// statically, such as a function handle obtained from an embedded scripting
// engine. Classification of dynamic callables uses trial dispatch on first
// invocation.
type DynamicCallable interface {
	Invoke(args ...any) (any, error)
}

// Context is one foreign per-component context handle, owned by the host
// engine. One Context exists per component instance; the host discards it
// on unmount.
//
// Implementations must be comparable (pointer-like): the invocation adapter
// keys per-instance state by Context identity.
type Context interface {
	// Refresh requests a re-render of this instance.
	Refresh()

	// Schedule registers a callable to run before the next commit.
	Schedule(fn func())

	// After registers a callable to run after the next commit.
	After(fn func())

	// Cleanup registers a callable to run on unmount.
	Cleanup(fn func())

	// Provide writes a value keyed by an opaque token, visible to
	// descendant components.
	Provide(key, value any)

	// Consume reads a value provided by an ancestor component, or nil.
	Consume(key any) any

	// Props returns the current foreign props object.
	Props() Object

	// NextProps blocks until the host supplies the next props update,
	// returning (nil, false) once the instance unmounts.
	NextProps() (Object, bool)
}

// Element is a plain element descriptor as produced by the construction
// sugar and consumed by the host engine. This layer treats it as data only.
type Element struct {
	// Tag is a string tag name, a special tag symbol, or an adapted
	// component.
	Tag any

	Props    Object
	Children []any
}

// MapObject is the reference Object implementation backed by an ordered map.
type MapObject struct {
	keys   []string
	values map[string]any
}

// NewMapObject creates an empty foreign object.
func NewMapObject() *MapObject {
	return &MapObject{values: make(map[string]any)}
}

// FromMap creates a foreign object from a native mapping. Key order follows
// the order argument when given, map iteration order otherwise.
func FromMap(m map[string]any, order ...string) *MapObject {
	o := NewMapObject()
	if len(order) > 0 {
		for _, k := range order {
			if v, ok := m[k]; ok {
				o.Set(k, v)
			}
		}
		return o
	}
	for k, v := range m {
		o.Set(k, v)
	}
	return o
}

func (o *MapObject) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *MapObject) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *MapObject) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *MapObject) Len() int {
	return len(o.values)
}
