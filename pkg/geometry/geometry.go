// Package geometry provides the point and vector math used by shapes,
// connectors and the layout engine.
//
// All functions are pure and total. Coordinates follow the drawing surface
// convention: x grows to the right and y grows downwards.
package geometry

import "math"

// Location is a point in canvas space.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimension is the size of an axis-aligned rectangle.
type Dimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Add returns l translated by (dx, dy).
func (l Location) Add(dx, dy float64) Location { return Location{X: l.X + dx, Y: l.Y + dy} }

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Location) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}

// Rotate rotates point about center by angle radians using the standard
// 2D rotation matrix.
func Rotate(point, center Location, angle float64) Location {
	sin, cos := math.Sincos(angle)
	dx := point.X - center.X
	dy := point.Y - center.Y

	return Location{
		X: dx*cos - dy*sin + center.X,
		Y: dx*sin + dy*cos + center.Y,
	}
}

// ClosestVertices scans the full cross product of a and b and returns the
// pair with the smallest distance. The first pair reaching the minimum in
// iteration order wins. If either slice is empty the distance is +Inf and
// both returned locations are zero.
func ClosestVertices(a, b []Location) (Location, Location, float64) {
	var closestA, closestB Location
	shortest := math.Inf(1)

	for _, va := range a {
		for _, vb := range b {
			if d := Distance(va, vb); d < shortest {
				shortest = d
				closestA, closestB = va, vb
			}
		}
	}
	return closestA, closestB, shortest
}

// Corners returns the four corners of the rectangle at pos with size dim in
// the fixed order top-left, top-right, bottom-left, bottom-right.
func Corners(pos Location, dim Dimension) []Location {
	return []Location{
		pos,
		{X: pos.X + dim.Width, Y: pos.Y},
		{X: pos.X, Y: pos.Y + dim.Height},
		{X: pos.X + dim.Width, Y: pos.Y + dim.Height},
	}
}

// Bounds returns the top-left corner and size of the smallest axis-aligned
// rectangle enclosing all points. An empty input yields zero values.
func Bounds(points []Location) (Location, Dimension) {
	if len(points) == 0 {
		return Location{}, Dimension{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Location{X: minX, Y: minY}, Dimension{Width: maxX - minX, Height: maxY - minY}
}
