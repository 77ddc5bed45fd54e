package props

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/errors"
	"github.com/bikeshaving/crank-go/hostapi"
	"github.com/bikeshaving/crank-go/proxy"
)

// Reserved keys are internal to the host engine and never surface in a
// native snapshot.
var reservedKeys = map[string]bool{
	"children": true,
}

const internalPrefix = "_crank"

// ToNative converts a foreign props object into a fresh native snapshot.
// It never fails: a nil or unconvertible object yields an empty mapping.
// Callables are preserved as-is, never stringified.
func ToNative(obj hostapi.Object) crank.Props {
	if obj == nil {
		return crank.Props{}
	}

	if c, ok := obj.(hostapi.NativeConverter); ok {
		m := c.ToNative()
		if m == nil {
			return crank.Props{}
		}
		out := make(crank.Props, len(m))
		for k, v := range m {
			out[k] = nativeValue(v)
		}
		return out
	}

	out := make(crank.Props, obj.Len())
	for _, k := range obj.Keys() {
		if reservedKeys[k] || strings.HasPrefix(k, internalPrefix) {
			continue
		}
		v, ok := obj.Get(k)
		if !ok {
			continue
		}
		out[k] = nativeValue(v)
	}
	return out
}

func nativeValue(v any) any {
	switch t := v.(type) {
	case hostapi.Object:
		return ToNative(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = nativeValue(e)
		}
		return out
	default:
		return v
	}
}

// ToForeign converts a native mapping into a foreign object. Callables pass
// through the proxy registry, never bare. Embedding-side snake_case keys
// convert to the host's kebab-case convention; the conversion is
// one-directional and host keys are never converted back.
//
// A value that is neither scalar, mapping, sequence, nor callable is a
// conversion failure: nested failures propagate, and the top level recovers
// by returning an empty object alongside the error.
func ToForeign(p crank.Props, reg *proxy.Registry) (hostapi.Object, error) {
	obj, err := toForeignObject(p, reg, nil)
	if err != nil {
		return hostapi.NewMapObject(), err
	}
	return obj, nil
}

func toForeignObject(p crank.Props, reg *proxy.Registry, path []string) (hostapi.Object, error) {
	obj := hostapi.NewMapObject()
	for _, k := range sortedKeys(p) {
		fv, err := foreignValue(p[k], reg, append(path, k))
		if err != nil {
			return nil, err
		}
		obj.Set(ForeignKey(k), fv)
	}
	return obj, nil
}

func foreignValue(v any, reg *proxy.Registry, path []string) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t := v.(type) {
	case crank.Props:
		return toForeignObject(t, reg, path)
	case map[string]any:
		return toForeignObject(crank.Props(t), reg, path)
	case hostapi.Object:
		// Already foreign; hand it back untouched.
		return t, nil
	case *hostapi.Element:
		return t, nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		h := reg.Register(v)
		if h == nil {
			return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
				Path(path...).
				Detail("registry closed while marshaling callable").
				Build()
		}
		return h.Foreign(), nil
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			fv, err := foreignValue(rv.Index(i).Interface(), reg, append(path, indexSegment(i)))
			if err != nil {
				return nil, err
			}
			out[i] = fv
		}
		return out, nil
	}

	if _, ok := v.(hostapi.DynamicCallable); ok {
		h := reg.Register(v)
		if h == nil {
			return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
				Path(path...).
				Detail("registry closed while marshaling callable").
				Build()
		}
		return h.Foreign(), nil
	}

	return nil, errors.ConversionFailure(path, "unsupported value of type "+reflect.TypeOf(v).String())
}

// ForeignRenderable marshals a frame on its way to the host. Element props
// cross through ToForeign, so their callables are proxied and their keys
// follow the host convention; children and slices are walked recursively.
// Everything else passes through untouched.
//
// The returned frame is always deliverable: an element whose props fail to
// convert crosses with an empty props object, and the first failure is
// reported so the caller can log it.
func ForeignRenderable(v any, reg *proxy.Registry) (any, error) {
	switch t := v.(type) {
	case *hostapi.Element:
		out := &hostapi.Element{Tag: t.Tag}
		var firstErr error
		if t.Props != nil {
			obj, err := ToForeign(ToNative(t.Props), reg)
			if err != nil {
				firstErr = err
			}
			out.Props = obj
		}
		if len(t.Children) > 0 {
			out.Children = make([]any, len(t.Children))
			for i, ch := range t.Children {
				fv, err := ForeignRenderable(ch, reg)
				if err != nil && firstErr == nil {
					firstErr = err
				}
				out.Children[i] = fv
			}
		}
		return out, firstErr
	case []any:
		out := make([]any, len(t))
		var firstErr error
		for i, e := range t {
			fv, err := ForeignRenderable(e, reg)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			out[i] = fv
		}
		return out, firstErr
	}
	return v, nil
}

// ForeignKey converts an embedding-side key to the host's attribute
// convention: word separators become hyphens (data_test -> data-test).
func ForeignKey(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func sortedKeys(p crank.Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	// Deterministic key order for the foreign object.
	sort.Strings(keys)
	return keys
}

func indexSegment(i int) string {
	return strconv.Itoa(i)
}
