package main

import (
	"fmt"
	"strings"

	"github.com/bikeshaving/crank-go/hostapi"
	"github.com/bikeshaving/crank-go/proxy"
)

// renderText flattens a frame to indented pseudo-markup for terminal
// output. Callable props render as <fn>.
func renderText(v any) string {
	var b strings.Builder
	writeNode(&b, v, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writeNode(b *strings.Builder, v any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := v.(type) {
	case nil:
		b.WriteString(indent + "<nil/>\n")
	case *hostapi.Element:
		tag := fmt.Sprintf("%v", n.Tag)
		if tag == "" {
			tag = "fragment"
		}
		b.WriteString(indent + "<" + tag + formatProps(n.Props) + ">\n")
		for _, child := range n.Children {
			writeNode(b, child, depth+1)
		}
		b.WriteString(indent + "</" + tag + ">\n")
	case string:
		b.WriteString(indent + n + "\n")
	default:
		fmt.Fprintf(b, "%s%v\n", indent, n)
	}
}

func formatProps(obj hostapi.Object) string {
	if obj == nil || obj.Len() == 0 {
		return ""
	}
	var parts []string
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		switch v.(type) {
		case func(), *proxy.Handle:
			parts = append(parts, k+"=<fn>")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%q", k, fmt.Sprintf("%v", v)))
	}
	return " " + strings.Join(parts, " ")
}
