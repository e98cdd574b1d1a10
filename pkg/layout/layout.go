// Package layout places boxes left to right in rows on a canvas whose width
// is fixed by the viewport and whose height grows to fit.
package layout

import "github.com/matzehuels/importviz/pkg/geometry"

// Default spacing, in canvas units.
const (
	DefaultMarginX      = 50.0
	DefaultMarginY      = 50.0
	DefaultWindowMargin = 20.0
)

// RowPolicy decides the height of a row when wrapping.
type RowPolicy int

const (
	// RowLast uses the height of the box placed last before the wrap.
	RowLast RowPolicy = iota
	// RowTallest uses the tallest box placed in the current row.
	RowTallest
)

// ParseRowPolicy maps "last" and "tallest" to a policy.
func ParseRowPolicy(s string) (RowPolicy, bool) {
	switch s {
	case "", "last":
		return RowLast, true
	case "tallest":
		return RowTallest, true
	}
	return RowLast, false
}

func (p RowPolicy) String() string {
	if p == RowTallest {
		return "tallest"
	}
	return "last"
}

// Option configures an Engine.
type Option func(*Engine)

// WithMargins sets the horizontal and vertical spacing between boxes.
func WithMargins(x, y float64) Option {
	return func(e *Engine) { e.marginX, e.marginY = x, y }
}

// WithWindowMargin sets how much of the viewport the canvas leaves unused.
func WithWindowMargin(m float64) Option { return func(e *Engine) { e.windowMargin = m } }

// WithTallestInRow wraps rows below their tallest box so boxes of unequal
// height never overlap the next row.
func WithTallestInRow() Option { return func(e *Engine) { e.policy = RowTallest } }

// WithRowPolicy sets the row policy explicitly.
func WithRowPolicy(p RowPolicy) Option { return func(e *Engine) { e.policy = p } }

// Engine is a flow layout cursor.
type Engine struct {
	viewport     geometry.Dimension
	marginX      float64
	marginY      float64
	windowMargin float64
	policy       RowPolicy

	cursor    geometry.Location
	bounds    geometry.Dimension
	rowHeight float64
}

// New returns an engine for the given viewport, reset to its origin.
func New(viewport geometry.Dimension, opts ...Option) *Engine {
	e := &Engine{
		viewport:     viewport,
		marginX:      DefaultMarginX,
		marginY:      DefaultMarginY,
		windowMargin: DefaultWindowMargin,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Reset moves the cursor to the origin margin and shrinks the canvas back to
// the viewport.
func (e *Engine) Reset() {
	e.cursor = e.Origin()
	e.bounds = geometry.Dimension{
		Width:  e.viewport.Width - e.windowMargin,
		Height: e.viewport.Height - e.windowMargin,
	}
	e.rowHeight = 0
}

// Origin is the first placement position.
func (e *Engine) Origin() geometry.Location {
	return geometry.Location{X: e.marginX, Y: e.marginY}
}

// Cursor is where the next box goes.
func (e *Engine) Cursor() geometry.Location { return e.cursor }

// Bounds is the current canvas size.
func (e *Engine) Bounds() geometry.Dimension { return e.bounds }

// Viewport is the size the engine was created for.
func (e *Engine) Viewport() geometry.Dimension { return e.viewport }

// Margins returns the horizontal and vertical spacing.
func (e *Engine) Margins() (x, y float64) { return e.marginX, e.marginY }

// WindowMargin returns the viewport margin.
func (e *Engine) WindowMargin() float64 { return e.windowMargin }

// Policy returns the row policy.
func (e *Engine) Policy() RowPolicy { return e.policy }

// Advance moves the cursor past a box of size placed that was just put at
// the cursor. It reports whether the canvas height grew.
func (e *Engine) Advance(placed geometry.Dimension) (grew bool) {
	e.rowHeight = max(e.rowHeight, placed.Height)
	rowHeight := placed.Height
	if e.policy == RowTallest {
		rowHeight = e.rowHeight
	}

	nextX := e.cursor.X + placed.Width + e.marginX
	nextRowY := e.cursor.Y + rowHeight + e.marginY

	if nextX+placed.Width > e.bounds.Width {
		e.cursor = geometry.Location{X: e.marginX, Y: nextRowY}
		e.rowHeight = 0
	} else {
		e.cursor = geometry.Location{X: nextX, Y: e.cursor.Y}
	}

	if nextRowY > e.bounds.Height {
		e.bounds.Height = nextRowY
		return true
	}
	return false
}
