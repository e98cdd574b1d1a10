package visualizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/geometry"
	"github.com/matzehuels/importviz/pkg/modbox"
	"github.com/matzehuels/importviz/pkg/shape"
)

// Scatter plot geometry.
const (
	PlotRadius = 5.0
	PlotScale  = 10.0
	// plotPadding is the number of empty grid steps past the largest value.
	plotPadding = 4
)

// Axis labels.
const (
	PlotYLabel = "Imports Count"
	PlotXLabel = "Imported By Count"
)

type plotPoint struct {
	box       int
	importers int
	imports   int
	pt        *shape.Point
}

type plotState struct {
	points []plotPoint
	xMax   float64
	yMax   float64
}

// PlotPoint is a drawn point of the scatter plot.
type PlotPoint struct {
	Path      string            `json:"path"`
	Importers int               `json:"importers"`
	Imports   int               `json:"imports"`
	Center    geometry.Location `json:"center"`
}

// Plot replaces the graph drawing with a scatter plot of every placed
// local module, importer count on x and import count on y. Clicks then
// hit-test the plotted points.
func (c *Controller) Plot() error {
	if c.state == Idle {
		return errors.New(errors.ErrCodeInvalidState, "no dataset loaded")
	}
	marginX, marginY := c.engine.Margins()

	ps := &plotState{}
	maxX, maxY := 0, 0
	for i, b := range c.boxes {
		if !b.Info().IsLocal {
			continue
		}
		p := plotPoint{
			box:       i,
			importers: c.dataset.ImporterCount(b.Path()),
			imports:   c.dataset.ImportCount(b.Path()),
		}
		maxX, maxY = max(maxX, p.importers), max(maxY, p.imports)
		ps.points = append(ps.points, p)
	}
	ps.xMax = float64(maxX+plotPadding)*PlotScale + marginX
	ps.yMax = float64(maxY+plotPadding) * PlotScale
	for i := range ps.points {
		ps.points[i].pt = shape.NewPoint(geometry.Location{
			X: float64(ps.points[i].importers)*PlotScale + marginX,
			Y: ps.yMax - float64(ps.points[i].imports)*PlotScale,
		})
	}

	viewport := c.engine.Viewport()
	width := ps.xMax
	if viewport.Width > ps.xMax {
		width = viewport.Width - c.engine.WindowMargin()
	}
	height := math.Max(c.surface.Height(), ps.yMax+2*marginY)
	c.surface.Resize(width, height)

	for _, p := range ps.points {
		center := p.pt.Position()
		c.surface.BeginPath()
		c.surface.Arc(center.X, center.Y, PlotRadius, 0, 2*math.Pi)
		c.surface.Stroke()
	}

	c.surface.FillText(PlotYLabel, marginX, marginY-10)
	c.surface.FillText(PlotXLabel, viewport.Width/2+marginX, ps.yMax+marginY)

	origin := geometry.Location{X: marginX, Y: ps.yMax}
	shape.NewArrow(origin, geometry.Location{X: math.Max(viewport.Width-2*marginX, ps.xMax), Y: ps.yMax}).Draw(c.surface)
	shape.NewArrow(origin, geometry.Location{X: marginX, Y: marginY}).Draw(c.surface)

	c.plot = ps
	c.view.PlotEntries = nil
	c.state = Plotted
	c.mode = ClickPlot
	c.logger.Debug("plotted", "points", len(ps.points))
	return nil
}

// PlotPoints returns the points drawn by the last Plot.
func (c *Controller) PlotPoints() []PlotPoint {
	if c.plot == nil {
		return nil
	}
	out := make([]PlotPoint, 0, len(c.plot.points))
	for _, p := range c.plot.points {
		out = append(out, PlotPoint{
			Path:      c.boxes[p.box].Path(),
			Importers: p.importers,
			Imports:   p.imports,
			Center:    p.pt.Position(),
		})
	}
	return out
}

// clickPlot draws a module box at every point within PlotRadius of (x, y)
// on both axes and lists the matches in the detail panel.
func (c *Controller) clickPlot(x, y float64) ClickResult {
	if c.plot == nil {
		return ClickResult{}
	}
	var res ClickResult
	var entries []PlotEntry
	for _, p := range c.plot.points {
		center := p.pt.Position()
		if math.Abs(x-center.X) > PlotRadius || math.Abs(y-center.Y) > PlotRadius {
			continue
		}
		info := c.boxes[p.box].Info()
		plain := info
		plain.IsEntrypoint = false
		modbox.New(c.surface, center, plain,
			modbox.WithCounts(p.importers, p.imports),
			modbox.WithShowContent(c.showContent),
		).Draw(c.surface)

		detail := PlotDetail{
			Path:    info.Path,
			IsLocal: info.IsLocal,
			Info: PlotInfo{
				Path:           info.Info.Path,
				IsDir:          info.Info.IsDir,
				ImportsCount:   p.imports,
				ImportersCount: p.importers,
			},
		}
		entries = append(entries, PlotEntry{
			Title:  fmt.Sprintf("%d %s", len(entries)+1, lastSegment(info.Path)),
			Detail: detail,
			Lines:  jsonLines(detail, "  "),
		})
		res.Points = append(res.Points, info.Path)
	}

	c.view.PlotEntries = entries
	res.Hit = len(entries) > 0
	return res
}

func lastSegment(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
