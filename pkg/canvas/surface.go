// Package canvas defines the primitive 2D drawing surface that shapes draw
// onto.
//
// The surface mirrors an immediate-mode path API: a path is started with
// BeginPath, extended with MoveTo/LineTo/Rect/Arc, and painted with Stroke or
// Fill. The current path survives painting, so a rectangle can be stroked
// and then filled without being rebuilt. Text is painted with FillText and
// measured with MeasureText using the surface's active font.
//
// Two backends live in subpackages:
//
//   - [svg]: records the commands and serialises them as an SVG document
//   - [raster]: rasterises onto an image and encodes PNG
//
// Shapes never hold on to a surface; it is passed into every Draw call.
//
// [svg]: github.com/matzehuels/importviz/pkg/canvas/svg
// [raster]: github.com/matzehuels/importviz/pkg/canvas/raster
package canvas

// Measurer reports the rendered width of a line of text in the active font.
type Measurer interface {
	MeasureText(text string) float64
}

// Surface is a growable drawing surface.
type Surface interface {
	Measurer

	BeginPath()
	ClosePath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rect(x, y, w, h float64)
	// Arc adds a circular arc centred at (x, y) from angle start to end
	// (radians, clockwise in y-down space).
	Arc(x, y, r, start, end float64)

	Stroke()
	Fill()
	FillText(text string, x, y float64)
	ClearRect(x, y, w, h float64)

	SetFillStyle(color string)
	SetStrokeStyle(color string)
	SetGlobalAlpha(alpha float64)

	Width() float64
	Height() float64
	// Resize changes the surface size and clears its content.
	Resize(w, h float64)
}

// Default colours used when nothing else is configured.
const (
	DefaultStroke = "#000000"
	DefaultFill   = "#000000"
	Background    = "#ffffff"
)

// Clear erases the whole surface.
func Clear(s Surface) {
	s.ClearRect(0, 0, s.Width(), s.Height())
}
