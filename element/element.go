// Package element provides construction sugar for plain element
// descriptors. Syntax only: descriptors carry no behavior, and key-name
// conversion happens in the props bridge, not here.
package element

import (
	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/hostapi"
)

// FragmentTag marks an element that renders its children without a
// surrounding node.
const FragmentTag = ""

// New creates an element descriptor. The tag may be a string tag name or an
// adapted component.
func New(tag any, props crank.Props, children ...any) *hostapi.Element {
	var obj hostapi.Object
	if props != nil {
		obj = hostapi.FromMap(props)
	}
	return &hostapi.Element{Tag: tag, Props: obj, Children: children}
}

// Fragment creates a fragment descriptor wrapping children.
func Fragment(children ...any) *hostapi.Element {
	return &hostapi.Element{Tag: FragmentTag, Children: children}
}

// Builder accumulates an element fluently: H("div").With(props).Kids(...).
type Builder struct {
	tag   any
	props crank.Props
}

// H starts a builder for tag.
func H(tag any) Builder {
	return Builder{tag: tag}
}

// With sets the props for the element under construction.
func (b Builder) With(props crank.Props) Builder {
	b.props = props
	return b
}

// Kids finalizes the element with children.
func (b Builder) Kids(children ...any) *hostapi.Element {
	return New(b.tag, b.props, children...)
}
