package shape

import (
	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/geometry"
)

// Arrow head geometry.
const (
	ArrowHeadLength = 15.0
	ArrowHeadAngle  = 0.349 // ~20°
)

// Arrow is a line from Start to End with a filled triangular head at End.
type Arrow struct {
	Start, End geometry.Location
}

// NewArrow returns an arrow from start to end.
func NewArrow(start, end geometry.Location) Arrow {
	return Arrow{Start: start, End: end}
}

// Head returns the triangle {wing1, wing2, tip}. ok is false for a
// zero-length arrow, which has no direction.
func (a Arrow) Head() (head [3]geometry.Location, ok bool) {
	length := geometry.Distance(a.Start, a.End)
	if length == 0 {
		return head, false
	}
	t := ArrowHeadLength / length
	base := geometry.Location{
		X: a.End.X - (a.End.X-a.Start.X)*t,
		Y: a.End.Y - (a.End.Y-a.Start.Y)*t,
	}
	head[0] = geometry.Rotate(base, a.End, ArrowHeadAngle)
	head[1] = geometry.Rotate(base, a.End, -ArrowHeadAngle)
	head[2] = a.End
	return head, true
}

func (a Arrow) Draw(s canvas.Surface) {
	s.BeginPath()
	s.MoveTo(a.Start.X, a.Start.Y)
	s.LineTo(a.End.X, a.End.Y)
	s.Stroke()

	if head, ok := a.Head(); ok {
		s.BeginPath()
		s.MoveTo(head[0].X, head[0].Y)
		s.LineTo(head[1].X, head[1].Y)
		s.LineTo(head[2].X, head[2].Y)
		s.ClosePath()
		s.Fill()
	}
}
