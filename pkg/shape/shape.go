package shape

import (
	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/geometry"
)

// Shape is anything that can be placed, connected and drawn.
type Shape interface {
	Position() geometry.Location
	Dimensions() geometry.Dimension
	// Vertices returns the connector anchors in drawing order.
	Vertices() []geometry.Location
	Draw(s canvas.Surface)
}

// Mover is implemented by shapes that can be repositioned.
type Mover interface {
	SetPosition(pos geometry.Location)
}

// Point is a degenerate shape with a single vertex and no extent.
type Point struct {
	loc geometry.Location
}

// NewPoint returns a point at loc.
func NewPoint(loc geometry.Location) *Point { return &Point{loc: loc} }

func (p *Point) Position() geometry.Location       { return p.loc }
func (p *Point) Dimensions() geometry.Dimension    { return geometry.Dimension{} }
func (p *Point) Vertices() []geometry.Location     { return []geometry.Location{p.loc} }
func (p *Point) SetPosition(pos geometry.Location) { p.loc = pos }
func (p *Point) Draw(canvas.Surface)               {}
