package shape

import (
	"strings"

	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/geometry"
)

// LineSpacing is the baseline distance between text lines, in line heights.
const LineSpacing = 1.5

// LineHeight is the line height used for text measured with m: the width
// of "M" in the active font.
func LineHeight(m canvas.Measurer) float64 { return m.MeasureText("M") }

// TextBox is a box sized to fit its text.
type TextBox struct {
	Box

	text       string
	lines      []string
	lineHeight float64
	textWidth  float64
	textHeight float64
	textOffset float64
	textPos    geometry.Location
}

// NewTextBox measures text with m and returns a box at pos that fits it.
// Lines are split on "\n".
func NewTextBox(m canvas.Measurer, pos geometry.Location, text string, opts ...BoxOption) *TextBox {
	t := &TextBox{}
	t.init(m, pos, text, opts)
	return t
}

func (t *TextBox) init(m canvas.Measurer, pos geometry.Location, text string, opts []BoxOption) {
	t.text = text
	t.lines = strings.Split(text, "\n")
	t.lineHeight = LineHeight(m)
	for _, line := range t.lines {
		t.textWidth = max(t.textWidth, m.MeasureText(line))
	}
	t.textHeight = t.lineHeight + LineSpacing*t.lineHeight*float64(len(t.lines))
	t.textOffset = t.lineHeight

	t.Box.init(pos, geometry.Dimension{
		Width:  t.textWidth + 2*t.lineHeight,
		Height: t.textHeight,
	}, opts)
	t.textPos = pos.Add(t.textOffset, 0)
}

func (t *TextBox) Text() string                    { return t.text }
func (t *TextBox) Lines() []string                 { return append([]string(nil), t.lines...) }
func (t *TextBox) LineHeight() float64             { return t.lineHeight }
func (t *TextBox) TextWidth() float64              { return t.textWidth }
func (t *TextBox) TextHeight() float64             { return t.textHeight }
func (t *TextBox) TextPosition() geometry.Location { return t.textPos }

// SetPosition moves the box and its text.
func (t *TextBox) SetPosition(pos geometry.Location) {
	t.Box.SetPosition(pos)
	t.textPos = pos.Add(t.textOffset, 0)
}

func (t *TextBox) Draw(s canvas.Surface) {
	t.Box.Draw(s)
	t.DrawText(s)
}

// DrawText paints only the text lines.
func (t *TextBox) DrawText(s canvas.Surface) {
	s.SetFillStyle(canvas.DefaultFill)
	for i, line := range t.lines {
		s.FillText(line, t.textPos.X, t.textPos.Y+float64(i+1)*LineSpacing*t.lineHeight)
	}
}
