// Package svg implements canvas.Surface by recording draw calls as SVG
// elements.
//
// Painting operations append elements in call order; a ClearRect covering
// the whole surface discards everything recorded so far. Text is measured
// with the Go Regular face from [fonts] so that layout is identical to the
// raster backend.
//
//	s, _ := svg.New(800, 600)
//	box.Draw(s)
//	os.WriteFile("out.svg", s.Bytes(), 0o644)
//
// [fonts]: github.com/matzehuels/importviz/pkg/fonts
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"

	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/fonts"
)

// Option configures a Surface.
type Option func(*Surface)

// WithFontSize sets the font size used for measuring and drawing text.
func WithFontSize(size float64) Option { return func(s *Surface) { s.fontSize = size } }

// WithLineWidth sets the stroke width.
func WithLineWidth(w float64) Option { return func(s *Surface) { s.lineWidth = w } }

// Surface records drawing commands as SVG.
type Surface struct {
	w, h      float64
	fontSize  float64
	lineWidth float64
	face      font.Face

	elems      []string
	path       strings.Builder
	hasCurrent bool

	fill   string
	stroke string
	alpha  float64
}

// New creates a surface of size w×h.
func New(w, h float64, opts ...Option) (*Surface, error) {
	s := &Surface{
		w: w, h: h,
		fontSize:  fonts.DefaultSize,
		lineWidth: 1,
		fill:      canvas.DefaultFill,
		stroke:    canvas.DefaultStroke,
		alpha:     1,
	}
	for _, opt := range opts {
		opt(s)
	}
	face, err := fonts.Face(s.fontSize)
	if err != nil {
		return nil, err
	}
	s.face = face
	return s, nil
}

func (s *Surface) MeasureText(text string) float64 { return fonts.Measure(s.face, text) }

func (s *Surface) BeginPath() {
	s.path.Reset()
	s.hasCurrent = false
}

func (s *Surface) ClosePath() {
	if s.path.Len() > 0 {
		s.path.WriteString("Z ")
	}
}

func (s *Surface) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%s %s ", num(x), num(y))
	s.hasCurrent = true
}

func (s *Surface) LineTo(x, y float64) {
	if !s.hasCurrent {
		s.MoveTo(x, y)
		return
	}
	fmt.Fprintf(&s.path, "L%s %s ", num(x), num(y))
}

func (s *Surface) Rect(x, y, w, h float64) {
	fmt.Fprintf(&s.path, "M%s %s h%s v%s h%s Z ", num(x), num(y), num(w), num(h), num(-w))
	s.hasCurrent = true
}

func (s *Surface) Arc(x, y, r, start, end float64) {
	sx, sy := x+r*math.Cos(start), y+r*math.Sin(start)
	if s.hasCurrent {
		s.LineTo(sx, sy)
	} else {
		s.MoveTo(sx, sy)
	}

	delta := end - start
	if delta >= 2*math.Pi {
		// A single SVG arc cannot describe a full circle.
		mx, my := x+r*math.Cos(start+math.Pi), y+r*math.Sin(start+math.Pi)
		fmt.Fprintf(&s.path, "A%s %s 0 1 1 %s %s ", num(r), num(r), num(mx), num(my))
		fmt.Fprintf(&s.path, "A%s %s 0 1 1 %s %s ", num(r), num(r), num(sx), num(sy))
		return
	}
	large := 0
	if delta > math.Pi {
		large = 1
	}
	ex, ey := x+r*math.Cos(end), y+r*math.Sin(end)
	fmt.Fprintf(&s.path, "A%s %s 0 %d 1 %s %s ", num(r), num(r), large, num(ex), num(ey))
}

func (s *Surface) Stroke() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	s.elems = append(s.elems, fmt.Sprintf(`  <path d="%s" fill="none" stroke="%s" stroke-width="%s"%s/>`,
		d, escape(s.stroke), num(s.lineWidth), opacity("stroke-opacity", s.alpha)))
}

func (s *Surface) Fill() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	s.elems = append(s.elems, fmt.Sprintf(`  <path d="%s" fill="%s"%s/>`,
		d, escape(s.fill), opacity("fill-opacity", s.alpha)))
}

func (s *Surface) FillText(text string, x, y float64) {
	s.elems = append(s.elems, fmt.Sprintf(`  <text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s" xml:space="preserve"%s>%s</text>`,
		num(x), num(y), escape(fonts.FallbackFontFamily), num(s.fontSize), escape(s.fill),
		opacity("fill-opacity", s.alpha), escape(text)))
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= s.w && y+h >= s.h {
		s.elems = s.elems[:0]
		return
	}
	s.elems = append(s.elems, fmt.Sprintf(`  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
		num(x), num(y), num(w), num(h), canvas.Background))
}

func (s *Surface) SetFillStyle(c string)    { s.fill = c }
func (s *Surface) SetStrokeStyle(c string)  { s.stroke = c }
func (s *Surface) SetGlobalAlpha(a float64) { s.alpha = a }
func (s *Surface) Width() float64           { return s.w }
func (s *Surface) Height() float64          { return s.h }

func (s *Surface) Resize(w, h float64) {
	s.w, s.h = w, h
	s.elems = s.elems[:0]
	s.BeginPath()
}

// Len returns the number of recorded elements.
func (s *Surface) Len() int { return len(s.elems) }

// Bytes returns the complete SVG document.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the complete SVG document to w.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.w, s.h, s.w, s.h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", canvas.Background)
	for _, e := range s.elems {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	buf.WriteString("</svg>\n")
	return buf.WriteTo(w)
}

func opacity(attr string, a float64) string {
	if a >= 1 {
		return ""
	}
	return fmt.Sprintf(` %s="%s"`, attr, num(a))
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var _ canvas.Surface = (*Surface)(nil)
