package shape

import (
	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/geometry"
)

// BoxContainer wraps one or more inner shapes with padding and a label above
// them.
type BoxContainer struct {
	TextBox

	inner     []Shape
	showInner bool
}

// NewBoxContainer sizes a labeled container around inner. The label is
// measured with m.
func NewBoxContainer(m canvas.Measurer, inner []Shape, label string, opts ...BoxOption) *BoxContainer {
	c := &BoxContainer{}
	c.init(m, inner, label, opts)
	return c
}

func (c *BoxContainer) init(m canvas.Measurer, inner []Shape, label string, opts []BoxOption) {
	c.inner = inner
	c.showInner = true

	innerPos, innerDim := InnerBounds(inner)
	c.TextBox.init(m, innerPos, label, opts)

	l := c.lineHeight
	c.textOffset = 2 * l
	c.Box.pos = geometry.Location{X: innerPos.X - 2*l, Y: innerPos.Y - c.textHeight}
	c.SetDimensions(geometry.Dimension{
		Width:  max(innerDim.Width, c.textWidth) + 4*l,
		Height: innerDim.Height + c.textHeight + l,
	})
	c.textPos = c.Box.pos.Add(c.textOffset, 0)
}

// InnerBounds returns the rectangle enclosing shapes. A single shape is its
// own bounds; several shapes use the extremes of all their vertices.
func InnerBounds(shapes []Shape) (geometry.Location, geometry.Dimension) {
	switch len(shapes) {
	case 0:
		return geometry.Location{}, geometry.Dimension{}
	case 1:
		return shapes[0].Position(), shapes[0].Dimensions()
	}
	var all []geometry.Location
	for _, s := range shapes {
		all = append(all, s.Vertices()...)
	}
	return geometry.Bounds(all)
}

// Inner returns the wrapped shapes.
func (c *BoxContainer) Inner() []Shape { return c.inner }

// ShowInner reports whether inner shapes are drawn.
func (c *BoxContainer) ShowInner() bool { return c.showInner }

// SetShowInner controls whether inner shapes are drawn.
func (c *BoxContainer) SetShowInner(show bool) { c.showInner = show }

// SetPosition moves the container, its label and every movable inner shape.
func (c *BoxContainer) SetPosition(pos geometry.Location) {
	dx, dy := pos.X-c.Box.pos.X, pos.Y-c.Box.pos.Y
	c.TextBox.SetPosition(pos)
	for _, s := range c.inner {
		if mv, ok := s.(Mover); ok {
			mv.SetPosition(s.Position().Add(dx, dy))
		}
	}
}

func (c *BoxContainer) Draw(s canvas.Surface) {
	if c.showInner {
		for _, in := range c.inner {
			in.Draw(s)
		}
	}
	c.TextBox.Draw(s)
}
