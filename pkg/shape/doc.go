// Package shape provides the drawable primitives the visualizer is built
// from.
//
// Every shape reports a position, a size and an ordered list of vertices.
// Vertices are the anchor points connectors attach to; for the box family
// they are always the four corners in the order top-left, top-right,
// bottom-left, bottom-right, and they are recomputed on every mutation.
//
// The box family composes by embedding:
//
//	Box            outlined rectangle with optional translucent background
//	TextBox        Box sized to fit one or more lines of text
//	BoxContainer   TextBox label wrapped around one or more inner shapes
//
// [Arrow] and [Connector] draw directed edges. A Connector routes an Arrow
// between the two closest vertices of two shapes, computed once at
// construction.
//
// Shapes never hold a reference to a drawing surface. Draw takes the
// [canvas.Surface] explicitly, and text is sized with a [canvas.Measurer]
// supplied at construction.
package shape
