package shape

import (
	"math"
	"testing"

	"github.com/matzehuels/importviz/pkg/canvas/canvastest"
	"github.com/matzehuels/importviz/pkg/geometry"
)

const l = canvastest.CharWidth

func assertCorners(t *testing.T, s Shape) {
	t.Helper()
	want := geometry.Corners(s.Position(), s.Dimensions())
	got := s.Vertices()
	if len(got) != 4 {
		t.Fatalf("got %d vertices, want 4", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBoxVertices(t *testing.T) {
	b := NewBox(geometry.Location{X: 10, Y: 20}, geometry.Dimension{Width: 30, Height: 40})
	want := []geometry.Location{{X: 10, Y: 20}, {X: 40, Y: 20}, {X: 10, Y: 60}, {X: 40, Y: 60}}
	for i, v := range b.Vertices() {
		if v != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, v, want[i])
		}
	}

	b.SetPosition(geometry.Location{X: 0, Y: 0})
	assertCorners(t, b)
	b.SetDimensions(geometry.Dimension{Width: 5, Height: 5})
	assertCorners(t, b)
}

func TestBoxContains(t *testing.T) {
	b := NewBox(geometry.Location{X: 0, Y: 0}, geometry.Dimension{Width: 10, Height: 10})
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 5, 5, true},
		{"left edge", 0, 5, false},
		{"right edge", 10, 5, false},
		{"top edge", 5, 0, false},
		{"bottom edge", 5, 10, false},
		{"outside", 11, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestBoxDrawBackground(t *testing.T) {
	rec := canvastest.New(100, 100)
	NewBox(geometry.Location{}, geometry.Dimension{Width: 1, Height: 1}).Draw(rec)
	if rec.Count("Fill") != 0 {
		t.Errorf("plain box filled")
	}

	rec.Reset()
	NewBox(geometry.Location{}, geometry.Dimension{Width: 1, Height: 1}, WithBackground("#f00")).Draw(rec)
	if rec.Count("Stroke") != 1 || rec.Count("Fill") != 1 {
		t.Fatalf("ops = %v", rec.Ops)
	}
	var sawAlpha bool
	for _, op := range rec.Find("SetGlobalAlpha") {
		if op.Args[0] == BackgroundAlpha {
			sawAlpha = true
		}
	}
	if !sawAlpha {
		t.Errorf("background not drawn at alpha %v", BackgroundAlpha)
	}
	if rec.Alpha != 1 {
		t.Errorf("alpha left at %v", rec.Alpha)
	}
}

func TestTextBoxSizing(t *testing.T) {
	rec := canvastest.New(100, 100)
	tb := NewTextBox(rec, geometry.Location{X: 5, Y: 7}, "ab\nabcd")

	if tb.LineHeight() != l {
		t.Errorf("LineHeight = %v, want %v", tb.LineHeight(), l)
	}
	if tb.TextWidth() != 4*l {
		t.Errorf("TextWidth = %v, want %v", tb.TextWidth(), 4*l)
	}
	wantH := l + 1.5*l*2
	if tb.TextHeight() != wantH {
		t.Errorf("TextHeight = %v, want %v", tb.TextHeight(), wantH)
	}
	if d := tb.Dimensions(); d.Width != 4*l+2*l || d.Height != wantH {
		t.Errorf("Dimensions = %v", d)
	}
	if p := tb.TextPosition(); p != (geometry.Location{X: 5 + l, Y: 7}) {
		t.Errorf("TextPosition = %v", p)
	}
	assertCorners(t, tb)

	tb.Draw(rec)
	texts := rec.Find("FillText")
	if len(texts) != 2 {
		t.Fatalf("drew %d lines", len(texts))
	}
	if y := texts[1].Args[1]; y != 7+2*1.5*l {
		t.Errorf("second line y = %v", y)
	}
}

func TestBoxContainerSingle(t *testing.T) {
	rec := canvastest.New(100, 100)
	inner := NewBox(geometry.Location{X: 100, Y: 100}, geometry.Dimension{Width: 50, Height: 20})
	c := NewBoxContainer(rec, []Shape{inner}, "label")

	labelH := l + 1.5*l
	if p := c.Position(); p != (geometry.Location{X: 100 - 2*l, Y: 100 - labelH}) {
		t.Errorf("Position = %v", p)
	}
	if d := c.Dimensions(); d.Width != 50+4*l || d.Height != 20+labelH+l {
		t.Errorf("Dimensions = %v", d)
	}
	if p := c.TextPosition(); p != c.Position().Add(2*l, 0) {
		t.Errorf("TextPosition = %v", p)
	}
	assertCorners(t, c)
}

func TestBoxContainerWideLabel(t *testing.T) {
	rec := canvastest.New(100, 100)
	inner := NewBox(geometry.Location{}, geometry.Dimension{Width: 10, Height: 10})
	c := NewBoxContainer(rec, []Shape{inner}, "a much longer label")
	if got, want := c.Dimensions().Width, c.TextWidth()+4*l; got != want {
		t.Errorf("Width = %v, want %v", got, want)
	}
}

func TestBoxContainerMultiple(t *testing.T) {
	rec := canvastest.New(100, 100)
	a := NewBox(geometry.Location{X: 0, Y: 50}, geometry.Dimension{Width: 10, Height: 10})
	b := NewBox(geometry.Location{X: 30, Y: 40}, geometry.Dimension{Width: 10, Height: 10})
	pos, dim := InnerBounds([]Shape{a, b})
	if pos != (geometry.Location{X: 0, Y: 40}) || dim != (geometry.Dimension{Width: 40, Height: 20}) {
		t.Errorf("InnerBounds = %v %v", pos, dim)
	}

	c := NewBoxContainer(rec, []Shape{a, b}, "x")
	c.SetPosition(c.Position().Add(10, 10))
	assertCorners(t, c)
	if a.Position() != (geometry.Location{X: 10, Y: 60}) {
		t.Errorf("inner shape not moved: %v", a.Position())
	}

	c.Draw(rec)
	if got := rec.Count("Rect"); got != 3 {
		t.Errorf("drew %d rects, want 3", got)
	}
	rec.Reset()
	c.SetShowInner(false)
	c.Draw(rec)
	if got := rec.Count("Rect"); got != 1 {
		t.Errorf("hidden inner: drew %d rects, want 1", got)
	}
}

func TestPoint(t *testing.T) {
	p := NewPoint(geometry.Location{X: 1, Y: 2})
	if v := p.Vertices(); len(v) != 1 || v[0] != p.Position() {
		t.Errorf("Vertices = %v", v)
	}
}

func TestArrowHead(t *testing.T) {
	a := NewArrow(geometry.Location{X: 0, Y: 0}, geometry.Location{X: 100, Y: 0})
	head, ok := a.Head()
	if !ok {
		t.Fatal("no head")
	}
	if head[2] != a.End {
		t.Errorf("tip = %v", head[2])
	}
	for _, w := range head[:2] {
		if d := geometry.Distance(w, a.End); math.Abs(d-ArrowHeadLength) > 1e-9 {
			t.Errorf("wing distance = %v", d)
		}
		if w.X >= a.End.X {
			t.Errorf("wing %v not behind tip", w)
		}
	}
	if math.Abs(head[0].Y+head[1].Y) > 1e-9 {
		t.Errorf("wings not symmetric: %v %v", head[0], head[1])
	}

	rec := canvastest.New(100, 100)
	a.Draw(rec)
	if rec.Count("Stroke") != 1 || rec.Count("Fill") != 1 {
		t.Errorf("ops = %v", rec.Ops)
	}
}

func TestArrowZeroLength(t *testing.T) {
	p := geometry.Location{X: 3, Y: 3}
	a := NewArrow(p, p)
	if _, ok := a.Head(); ok {
		t.Error("zero-length arrow has a head")
	}
	rec := canvastest.New(10, 10)
	a.Draw(rec)
	if rec.Count("Fill") != 0 {
		t.Errorf("zero-length arrow filled a head")
	}
}

func TestConnectorMinimal(t *testing.T) {
	a := NewBox(geometry.Location{X: 0, Y: 0}, geometry.Dimension{Width: 10, Height: 10})
	b := NewBox(geometry.Location{X: 30, Y: 0}, geometry.Dimension{Width: 10, Height: 10})
	c := NewConnector(a, b)

	if c.Start != (geometry.Location{X: 10, Y: 0}) || c.End != (geometry.Location{X: 30, Y: 0}) {
		t.Errorf("route = %v → %v", c.Start, c.End)
	}
	for _, va := range a.Vertices() {
		for _, vb := range b.Vertices() {
			if geometry.Distance(va, vb) < c.Length() {
				t.Errorf("pair %v %v shorter than route", va, vb)
			}
		}
	}

	b.SetPosition(geometry.Location{X: 100, Y: 100})
	if c.End != (geometry.Location{X: 30, Y: 0}) {
		t.Errorf("route updated after move")
	}
}
