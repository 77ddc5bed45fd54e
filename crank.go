package crank

import "context"

// Renderable is any value a component may hand to the host engine: an
// element descriptor, a string, a number, nil, or a slice of these. The
// engine owns interpretation; this layer only transports it.
type Renderable = any

// Props is the native per-render snapshot of a foreign props object.
// Keys are strings; values are scalars, nested Props, slices, or callables.
// A Props value is created fresh for each render pass and must not be
// mutated after creation.
type Props map[string]any

// Seq is the generator component shape: a single-use push sequence of
// renderables, drivable with range-over-func. A component returning Seq is
// classified as a generator and its result is wrapped in an iterator handle
// satisfying the host's pull protocol.
type Seq func(yield func(Renderable) bool)

// AsyncSeq is the asynchronous generator shape. The context carries
// cancellation across suspension points. On runtimes without async
// generator support the sequence is driven synchronously under a
// background context.
type AsyncSeq func(ctx context.Context, yield func(Renderable) bool)

// PropsSeq is a sequence of props snapshots, one per host-supplied update.
// Context iteration yields these continuously until the instance unmounts.
type PropsSeq func(yield func(Props) bool)
