package shape

import (
	"github.com/matzehuels/importviz/pkg/geometry"
)

// Connector is an Arrow routed between the closest vertices of two shapes.
// The route is fixed at construction; moving either shape afterwards does
// not update it.
type Connector struct {
	Arrow

	From, To Shape
}

// NewConnector routes an arrow from a to b.
func NewConnector(a, b Shape) *Connector {
	start, end, _ := geometry.ClosestVertices(a.Vertices(), b.Vertices())
	return &Connector{
		Arrow: NewArrow(start, end),
		From:  a,
		To:    b,
	}
}

// Length returns the routed distance between the endpoints.
func (c *Connector) Length() float64 { return geometry.Distance(c.Start, c.End) }
