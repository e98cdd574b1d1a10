// Package canvastest provides an in-memory canvas.Surface that records every
// call, for asserting on draw output in tests.
package canvastest

import (
	"fmt"
	"strings"
)

// CharWidth is the width the Recorder reports per character. The line
// height of shapes measured with a Recorder ("M") is therefore CharWidth.
const CharWidth = 10.0

// Op is a single recorded surface call.
type Op struct {
	Name string
	Args []float64
	Text string
}

// String renders the op in a compact form, e.g. "Rect(1,2,3,4)".
func (o Op) String() string {
	parts := make([]string, 0, len(o.Args)+1)
	if o.Text != "" {
		parts = append(parts, fmt.Sprintf("%q", o.Text))
	}
	for _, a := range o.Args {
		parts = append(parts, fmt.Sprintf("%g", a))
	}
	return o.Name + "(" + strings.Join(parts, ",") + ")"
}

// Recorder is a fake surface with a fixed-width font.
type Recorder struct {
	Ops         []Op
	W, H        float64
	FillStyle   string
	StrokeStyle string
	Alpha       float64
}

// New returns a recorder of the given size.
func New(w, h float64) *Recorder {
	return &Recorder{W: w, H: h, Alpha: 1}
}

func (r *Recorder) rec(name string, text string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args, Text: text})
}

func (r *Recorder) MeasureText(text string) float64 {
	return float64(len([]rune(text))) * CharWidth
}

func (r *Recorder) BeginPath()                        { r.rec("BeginPath", "") }
func (r *Recorder) ClosePath()                        { r.rec("ClosePath", "") }
func (r *Recorder) MoveTo(x, y float64)               { r.rec("MoveTo", "", x, y) }
func (r *Recorder) LineTo(x, y float64)               { r.rec("LineTo", "", x, y) }
func (r *Recorder) Rect(x, y, w, h float64)           { r.rec("Rect", "", x, y, w, h) }
func (r *Recorder) Arc(x, y, rad, start, end float64) { r.rec("Arc", "", x, y, rad, start, end) }
func (r *Recorder) Stroke()                           { r.rec("Stroke", "") }
func (r *Recorder) Fill()                             { r.rec("Fill", "") }
func (r *Recorder) FillText(text string, x, y float64) {
	r.rec("FillText", text, x, y)
}
func (r *Recorder) ClearRect(x, y, w, h float64) { r.rec("ClearRect", "", x, y, w, h) }
func (r *Recorder) SetFillStyle(c string)        { r.FillStyle = c; r.rec("SetFillStyle", c) }
func (r *Recorder) SetStrokeStyle(c string)      { r.StrokeStyle = c; r.rec("SetStrokeStyle", c) }
func (r *Recorder) SetGlobalAlpha(a float64)     { r.Alpha = a; r.rec("SetGlobalAlpha", "", a) }
func (r *Recorder) Width() float64               { return r.W }
func (r *Recorder) Height() float64              { return r.H }
func (r *Recorder) Resize(w, h float64) {
	r.W, r.H = w, h
	r.rec("Resize", "", w, h)
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() { r.Ops = nil }

// Count returns how many ops with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Texts returns the text of every FillText call in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Name == "FillText" {
			out = append(out, op.Text)
		}
	}
	return out
}

// Find returns the ops with the given name.
func (r *Recorder) Find(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}
