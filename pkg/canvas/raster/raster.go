// Package raster implements canvas.Surface on top of fogleman/gg and encodes
// the result as PNG.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
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

// Surface rasterises draw calls into an RGBA image.
type Surface struct {
	dc        *gg.Context
	face      font.Face
	fontSize  float64
	lineWidth float64

	fill   color.NRGBA
	stroke color.NRGBA
	alpha  float64
}

// New creates a white surface of size w×h pixels.
func New(w, h float64, opts ...Option) (*Surface, error) {
	s := &Surface{
		fontSize:  fonts.DefaultSize,
		lineWidth: 1,
		fill:      mustParse(canvas.DefaultFill),
		stroke:    mustParse(canvas.DefaultStroke),
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
	s.reset(w, h)
	return s, nil
}

func (s *Surface) reset(w, h float64) {
	dc := gg.NewContext(int(math.Ceil(max(w, 1))), int(math.Ceil(max(h, 1))))
	dc.SetFontFace(s.face)
	dc.SetLineWidth(s.lineWidth)
	dc.SetHexColor(canvas.Background)
	dc.Clear()
	s.dc = dc
}

func (s *Surface) MeasureText(text string) float64 { return fonts.Measure(s.face, text) }

func (s *Surface) BeginPath()                      { s.dc.ClearPath() }
func (s *Surface) ClosePath()                      { s.dc.ClosePath() }
func (s *Surface) MoveTo(x, y float64)             { s.dc.MoveTo(x, y) }
func (s *Surface) LineTo(x, y float64)             { s.dc.LineTo(x, y) }
func (s *Surface) Rect(x, y, w, h float64)         { s.dc.DrawRectangle(x, y, w, h) }
func (s *Surface) Arc(x, y, r, start, end float64) { s.dc.DrawArc(x, y, r, start, end) }

func (s *Surface) Stroke() {
	s.dc.SetColor(withAlpha(s.stroke, s.alpha))
	s.dc.StrokePreserve()
}

func (s *Surface) Fill() {
	s.dc.SetColor(withAlpha(s.fill, s.alpha))
	s.dc.FillPreserve()
}

func (s *Surface) FillText(text string, x, y float64) {
	s.dc.SetColor(withAlpha(s.fill, s.alpha))
	s.dc.DrawString(text, x, y)
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	img, ok := s.dc.Image().(draw.Image)
	if !ok {
		return
	}
	r := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	draw.Draw(img, r, image.NewUniform(mustParse(canvas.Background)), image.Point{}, draw.Src)
}

func (s *Surface) SetFillStyle(c string) {
	if v, err := ParseColor(c); err == nil {
		s.fill = v
	}
}

func (s *Surface) SetStrokeStyle(c string) {
	if v, err := ParseColor(c); err == nil {
		s.stroke = v
	}
}

func (s *Surface) SetGlobalAlpha(a float64) { s.alpha = min(max(a, 0), 1) }
func (s *Surface) Width() float64           { return float64(s.dc.Width()) }
func (s *Surface) Height() float64          { return float64(s.dc.Height()) }
func (s *Surface) Resize(w, h float64)      { s.reset(w, h) }

// Image returns the rasterised image.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the surface as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(c string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", c)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", c, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func mustParse(c string) color.NRGBA {
	v, err := ParseColor(c)
	if err != nil {
		panic(err)
	}
	return v
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * a))
	return c
}

var _ canvas.Surface = (*Surface)(nil)
