package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestDistance(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Location
		want   float64
	}{
		{"same point", Location{3, 4}, Location{3, 4}, 0},
		{"3-4-5 triangle", Location{0, 0}, Location{3, 4}, 5},
		{"negative coords", Location{-1, -1}, Location{2, 3}, 5},
		{"horizontal", Location{1, 7}, Location{11, 7}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.p1, tt.p2); !near(got, tt.want) {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
			if got := Distance(tt.p2, tt.p1); !near(got, tt.want) {
				t.Errorf("Distance is not symmetric: got %v", got)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name          string
		point, center Location
		angle         float64
		want          Location
	}{
		{"quarter turn", Location{10, 0}, Location{0, 0}, math.Pi / 2, Location{0, 10}},
		{"half turn", Location{10, 0}, Location{0, 0}, math.Pi, Location{-10, 0}},
		{"negative quarter", Location{10, 0}, Location{0, 0}, -math.Pi / 2, Location{0, -10}},
		{"about offset center", Location{6, 5}, Location{5, 5}, math.Pi / 2, Location{5, 6}},
		{"zero angle", Location{3, 4}, Location{1, 1}, 0, Location{3, 4}},
		{"center stays put", Location{2, 2}, Location{2, 2}, 1.234, Location{2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(tt.point, tt.center, tt.angle)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("Rotate(%v, %v, %v) = %v, want %v", tt.point, tt.center, tt.angle, got, tt.want)
			}
		})
	}
}

func TestRotatePreservesDistance(t *testing.T) {
	center := Location{4, -2}
	p := Location{9, 7}
	for _, angle := range []float64{0.1, 0.349, 1, 2.5, -0.349} {
		r := Rotate(p, center, angle)
		if !near(Distance(center, r), Distance(center, p)) {
			t.Errorf("rotation by %v changed radius: %v vs %v", angle, Distance(center, r), Distance(center, p))
		}
	}
}

func TestClosestVertices(t *testing.T) {
	a := Corners(Location{0, 0}, Dimension{10, 10})
	b := Corners(Location{30, 0}, Dimension{10, 10})

	ca, cb, d := ClosestVertices(a, b)
	if ca != (Location{10, 0}) || cb != (Location{30, 0}) {
		t.Errorf("ClosestVertices = %v, %v; want {10 0}, {30 0} (first tie wins)", ca, cb)
	}
	if d != 20 {
		t.Errorf("distance = %v, want 20", d)
	}

	for _, va := range a {
		for _, vb := range b {
			if Distance(va, vb) < d {
				t.Errorf("pair %v-%v is closer than chosen pair", va, vb)
			}
		}
	}
}

func TestClosestVerticesEmpty(t *testing.T) {
	_, _, d := ClosestVertices(nil, []Location{{1, 1}})
	if !math.IsInf(d, 1) {
		t.Errorf("distance for empty input = %v, want +Inf", d)
	}
}

func TestCornersOrder(t *testing.T) {
	got := Corners(Location{5, 7}, Dimension{Width: 20, Height: 10})
	want := []Location{{5, 7}, {25, 7}, {5, 17}, {25, 17}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("corner[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBounds(t *testing.T) {
	pos, dim := Bounds([]Location{{5, 9}, {1, 3}, {8, 4}})
	if pos != (Location{1, 3}) {
		t.Errorf("pos = %v, want {1 3}", pos)
	}
	if dim != (Dimension{Width: 7, Height: 6}) {
		t.Errorf("dim = %v, want {7 6}", dim)
	}

	pos, dim = Bounds(nil)
	if pos != (Location{}) || dim != (Dimension{}) {
		t.Errorf("Bounds(nil) = %v, %v; want zero values", pos, dim)
	}
}
