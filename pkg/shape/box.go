package shape

import (
	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/geometry"
)

// BackgroundAlpha is the opacity a box background is filled with.
const BackgroundAlpha = 0.3

// BoxOption configures a Box.
type BoxOption func(*Box)

// WithBackground fills the box with color after stroking its outline.
func WithBackground(color string) BoxOption {
	return func(b *Box) { b.background = color }
}

// WithStroke sets the outline color.
func WithStroke(color string) BoxOption {
	return func(b *Box) { b.stroke = color }
}

// Box is an axis-aligned outlined rectangle.
type Box struct {
	pos        geometry.Location
	dim        geometry.Dimension
	vertices   []geometry.Location
	background string
	stroke     string
}

// NewBox returns a box at pos with size dim.
func NewBox(pos geometry.Location, dim geometry.Dimension, opts ...BoxOption) *Box {
	b := &Box{}
	b.init(pos, dim, opts)
	return b
}

func (b *Box) init(pos geometry.Location, dim geometry.Dimension, opts []BoxOption) {
	b.stroke = canvas.DefaultStroke
	for _, opt := range opts {
		opt(b)
	}
	b.pos, b.dim = pos, dim
	b.vertices = geometry.Corners(pos, dim)
}

func (b *Box) Position() geometry.Location    { return b.pos }
func (b *Box) Dimensions() geometry.Dimension { return b.dim }

func (b *Box) Vertices() []geometry.Location {
	out := make([]geometry.Location, len(b.vertices))
	copy(out, b.vertices)
	return out
}

// Background returns the fill color, or "" when the box is unfilled.
func (b *Box) Background() string { return b.background }

// SetBackground changes the fill color. An empty color disables the fill.
func (b *Box) SetBackground(color string) { b.background = color }

// SetPosition moves the box and recomputes its vertices.
func (b *Box) SetPosition(pos geometry.Location) {
	b.pos = pos
	b.vertices = geometry.Corners(b.pos, b.dim)
}

// SetDimensions resizes the box and recomputes its vertices.
func (b *Box) SetDimensions(dim geometry.Dimension) {
	b.dim = dim
	b.vertices = geometry.Corners(b.pos, b.dim)
}

// Contains reports whether (x, y) lies strictly inside the box. Points on
// the outline are outside.
func (b *Box) Contains(x, y float64) bool {
	return b.pos.X < x && x < b.pos.X+b.dim.Width &&
		b.pos.Y < y && y < b.pos.Y+b.dim.Height
}

// Center returns the midpoint of the box.
func (b *Box) Center() geometry.Location {
	return b.pos.Add(b.dim.Width/2, b.dim.Height/2)
}

func (b *Box) Draw(s canvas.Surface) {
	s.BeginPath()
	s.SetStrokeStyle(b.stroke)
	s.Rect(b.pos.X, b.pos.Y, b.dim.Width, b.dim.Height)
	s.Stroke()
	if b.background != "" {
		s.SetFillStyle(b.background)
		s.SetGlobalAlpha(BackgroundAlpha)
		s.Fill()
		s.SetGlobalAlpha(1)
		s.SetFillStyle(canvas.DefaultFill)
	}
	s.ClosePath()
	s.SetStrokeStyle(canvas.DefaultStroke)
}
