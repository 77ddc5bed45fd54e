package props

import (
	stderrors "errors"
	"testing"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/errors"
	"github.com/bikeshaving/crank-go/hostapi"
	"github.com/bikeshaving/crank-go/proxy"
	"github.com/bikeshaving/crank-go/runtimecap"
)

func TestToNative_NilObject(t *testing.T) {
	p := ToNative(nil)
	if p == nil || len(p) != 0 {
		t.Fatalf("nil object must yield empty mapping, got %v", p)
	}
}

func TestToNative_Enumerates(t *testing.T) {
	obj := hostapi.NewMapObject()
	obj.Set("id", "root")
	obj.Set("count", 3)

	p := ToNative(obj)
	if p["id"] != "root" || p["count"] != 3 {
		t.Fatalf("unexpected snapshot: %v", p)
	}
}

func TestToNative_SkipsReservedAndInternal(t *testing.T) {
	obj := hostapi.NewMapObject()
	obj.Set("children", []any{"x"})
	obj.Set("_crank_key", 1)
	obj.Set("visible", true)

	p := ToNative(obj)
	if len(p) != 1 || p["visible"] != true {
		t.Fatalf("reserved keys leaked into snapshot: %v", p)
	}
}

func TestToNative_PreservesCallables(t *testing.T) {
	onClick := func() {}
	obj := hostapi.NewMapObject()
	obj.Set("onclick", onClick)

	p := ToNative(obj)
	if _, ok := p["onclick"].(func()); !ok {
		t.Fatalf("callable was not preserved as-is: %T", p["onclick"])
	}
}

func TestToNative_NestedObjects(t *testing.T) {
	inner := hostapi.NewMapObject()
	inner.Set("color", "red")
	obj := hostapi.NewMapObject()
	obj.Set("style", inner)
	obj.Set("tags", []any{inner})

	p := ToNative(obj)
	style, ok := p["style"].(crank.Props)
	if !ok || style["color"] != "red" {
		t.Fatalf("nested object not converted: %#v", p["style"])
	}
	tags, ok := p["tags"].([]any)
	if !ok || len(tags) != 1 {
		t.Fatalf("nested sequence not converted: %#v", p["tags"])
	}
	if _, ok := tags[0].(crank.Props); !ok {
		t.Fatalf("object inside sequence not converted: %T", tags[0])
	}
}

type converting struct{}

func (converting) Keys() []string          { return []string{"raw"} }
func (converting) Get(string) (any, bool)  { return "raw", true }
func (converting) Set(string, any)         {}
func (converting) Len() int                { return 1 }
func (converting) ToNative() map[string]any {
	return map[string]any{"direct": true}
}

func TestToNative_PrefersDirectConversion(t *testing.T) {
	p := ToNative(converting{})
	if p["direct"] != true {
		t.Fatalf("direct conversion method not used: %v", p)
	}
	if _, ok := p["raw"]; ok {
		t.Fatal("enumeration used despite direct conversion method")
	}
}

func TestToForeign_KeyConvention(t *testing.T) {
	reg := proxy.NewRegistry(runtimecap.Full())
	obj, err := ToForeign(crank.Props{"data_test": "x"}, reg)
	if err != nil {
		t.Fatalf("ToForeign: %v", err)
	}

	if _, ok := obj.Get("data-test"); !ok {
		t.Fatalf("snake_case key not converted, keys: %v", obj.Keys())
	}
	if _, ok := obj.Get("data_test"); ok {
		t.Fatal("original key must not survive conversion")
	}

	// One-directional: the converted key comes back verbatim.
	back := ToNative(obj)
	if _, ok := back["data-test"]; !ok {
		t.Fatalf("host key was un-converted on the way in: %v", back)
	}
}

func TestToForeign_ProxiesCallables(t *testing.T) {
	reg := proxy.NewRegistry(runtimecap.Full())
	fn := func() {}

	obj, err := ToForeign(crank.Props{"onclick": fn}, reg)
	if err != nil {
		t.Fatalf("ToForeign: %v", err)
	}

	v, _ := obj.Get("onclick")
	if _, ok := v.(*proxy.Handle); !ok {
		t.Fatalf("callable crossed the boundary bare: %T", v)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 tracked proxy, got %d", reg.Len())
	}
}

func TestToForeign_DedupAcrossRenders(t *testing.T) {
	reg := proxy.NewRegistry(runtimecap.Full())
	fn := func() {}

	for i := 0; i < 5; i++ {
		if _, err := ToForeign(crank.Props{"onclick": fn}, reg); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}
	if reg.Len() != 1 {
		t.Fatalf("re-wrapping the same callable leaked handles: %d", reg.Len())
	}
}

func TestToForeign_NestedFailurePropagates(t *testing.T) {
	reg := proxy.NewRegistry(runtimecap.Full())
	bad := make(chan int)

	obj, err := ToForeign(crank.Props{"style": crank.Props{"weird": bad}}, reg)
	if !stderrors.Is(err, errors.Match(errors.PhaseConvert, errors.KindConversionFailure)) {
		t.Fatalf("expected conversion failure, got %v", err)
	}
	// Top level recovers with an empty object.
	if obj == nil || obj.Len() != 0 {
		t.Fatalf("expected empty fallback object, got %v", obj)
	}
	var ce *errors.Error
	if !stderrors.As(err, &ce) || len(ce.Path) == 0 {
		t.Fatalf("expected path on conversion failure, got %+v", err)
	}
}

func TestToForeign_ClosedRegistryRejectsCallables(t *testing.T) {
	reg := proxy.NewRegistry(runtimecap.Full())
	reg.Close()

	_, err := ToForeign(crank.Props{"onclick": func() {}}, reg)
	if !stderrors.Is(err, errors.Match(errors.PhaseRegistry, errors.KindInvalidInput)) {
		t.Fatalf("expected registry-phase error, got %v", err)
	}
}

func TestForeignRenderable_ElementProps(t *testing.T) {
	reg := proxy.NewRegistry(runtimecap.Full())
	el := &hostapi.Element{
		Tag:   "button",
		Props: hostapi.FromMap(map[string]any{"on_click": func() {}, "data_test": "x"}),
		Children: []any{
			"Save",
			&hostapi.Element{Tag: "span", Props: hostapi.FromMap(map[string]any{"aria_label": "icon"})},
		},
	}

	v, err := ForeignRenderable(el, reg)
	if err != nil {
		t.Fatalf("ForeignRenderable: %v", err)
	}
	out := v.(*hostapi.Element)

	if _, ok := out.Props.Get("on_click"); ok {
		t.Fatalf("unconverted key crossed the boundary, keys: %v", out.Props.Keys())
	}
	h, ok := out.Props.Get("on-click")
	if !ok {
		t.Fatalf("converted key missing, keys: %v", out.Props.Keys())
	}
	if _, ok := h.(*proxy.Handle); !ok {
		t.Fatalf("callable crossed the boundary bare: %T", h)
	}
	if dv, _ := out.Props.Get("data-test"); dv != "x" {
		t.Fatalf("scalar prop lost in conversion: %v", dv)
	}

	span := out.Children[1].(*hostapi.Element)
	if _, ok := span.Props.Get("aria-label"); !ok {
		t.Fatalf("nested element props not converted, keys: %v", span.Props.Keys())
	}

	// The source descriptor is left untouched.
	if _, ok := el.Props.Get("on_click"); !ok {
		t.Fatal("source element was mutated during marshaling")
	}
}

func TestForeignRenderable_Passthrough(t *testing.T) {
	reg := proxy.NewRegistry(runtimecap.Full())
	for _, v := range []any{"plain", 42, nil} {
		out, err := ForeignRenderable(v, reg)
		if err != nil || out != v {
			t.Fatalf("non-element frame must pass through, got %v err=%v", out, err)
		}
	}
}

func TestToForeign_Sequences(t *testing.T) {
	reg := proxy.NewRegistry(runtimecap.Full())
	obj, err := ToForeign(crank.Props{"items": []any{"a", 1, crank.Props{"k": "v"}}}, reg)
	if err != nil {
		t.Fatalf("ToForeign: %v", err)
	}

	v, _ := obj.Get("items")
	items, ok := v.([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("sequence not converted: %#v", v)
	}
	if _, ok := items[2].(hostapi.Object); !ok {
		t.Fatalf("mapping inside sequence not converted: %T", items[2])
	}
}
