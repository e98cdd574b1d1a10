package visualizer

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/geometry"
	"github.com/matzehuels/importviz/pkg/layout"
	"github.com/matzehuels/importviz/pkg/modbox"
	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/observability"
	"github.com/matzehuels/importviz/pkg/shape"
)

// Fetcher retrieves a dataset by identifier.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*module.Dataset, error)
}

// Style holds the colors the controller draws with.
type Style struct {
	Stroke     string `toml:"stroke" json:"stroke"`
	Entrypoint string `toml:"entrypoint" json:"entrypoint"`
	Highlight  string `toml:"highlight" json:"highlight"`
	Search     string `toml:"search" json:"search"`
}

// DefaultStyle returns the stock colors.
func DefaultStyle() Style {
	return Style{
		Stroke:     canvas.DefaultStroke,
		Entrypoint: modbox.DefaultEntrypointColor,
		Highlight:  "#00f",
		Search:     "#ff0",
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for debug events.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFetcher sets the dataset source used by the Load methods.
func WithFetcher(f Fetcher) Option { return func(c *Controller) { c.fetcher = f } }

// WithLayout passes options to the layout engine.
func WithLayout(opts ...layout.Option) Option {
	return func(c *Controller) { c.layoutOpts = append(c.layoutOpts, opts...) }
}

// WithStyle overrides the drawing colors. Empty fields keep their defaults.
func WithStyle(s Style) Option {
	return func(c *Controller) {
		if s.Stroke != "" {
			c.style.Stroke = s.Stroke
		}
		if s.Entrypoint != "" {
			c.style.Entrypoint = s.Entrypoint
		}
		if s.Highlight != "" {
			c.style.Highlight = s.Highlight
		}
		if s.Search != "" {
			c.style.Search = s.Search
		}
	}
}

// WithShowContent chooses full module boxes (true) or label-only boxes.
func WithShowContent(show bool) Option { return func(c *Controller) { c.showContent = show } }

// Controller places module boxes and connectors on a surface and reacts to
// input events.
type Controller struct {
	surface    canvas.Surface
	engine     *layout.Engine
	layoutOpts []layout.Option
	fetcher    Fetcher
	logger     *log.Logger
	style      Style

	showContent bool

	state   State
	mode    ClickMode
	dataset *module.Dataset

	boxes                          []*modbox.ModuleBox
	connectors                     []*shape.Connector
	moduleIndexByPath              map[string]int
	connectorIndicesByImporterPath map[string][]int
	connected                      map[module.Edge]bool

	plot *plotState
	view View
}

// New returns an idle controller drawing on s. The surface's size at this
// point is taken as the viewport.
func New(s canvas.Surface, opts ...Option) *Controller {
	c := &Controller{
		surface:     s,
		logger:      log.New(io.Discard),
		style:       DefaultStyle(),
		showContent: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine = layout.New(geometry.Dimension{Width: s.Width(), Height: s.Height()}, c.layoutOpts...)
	c.clear()
	c.syncBounds()
	return c
}

// clear drops the graph and panel state and restarts layout at the origin.
func (c *Controller) clear() {
	c.engine.Reset()
	c.boxes = nil
	c.connectors = nil
	c.moduleIndexByPath = make(map[string]int)
	c.connectorIndicesByImporterPath = make(map[string][]int)
	c.connected = make(map[module.Edge]bool)
	c.plot = nil
	c.mode = ClickNone

	panel := c.view.ToolPanel
	c.view = View{ToolPanel: panel, Selection: NoSelection}
}

// syncBounds resizes the surface to the layout bounds when they differ.
// Layout passes only grow the engine bounds; the surface follows once, just
// before the pass redraws.
func (c *Controller) syncBounds() {
	b := c.engine.Bounds()
	if c.surface.Width() != b.Width || c.surface.Height() != b.Height {
		c.surface.Resize(b.Width, b.Height)
	}
}

// Reset clears everything and returns to Idle.
func (c *Controller) Reset() {
	c.clear()
	c.syncBounds()
	canvas.Clear(c.surface)
	c.dataset = nil
	c.state = Idle
}

// LoadAndRenderAll fetches the dataset id and lays out every module. On a
// fetch error the controller is left unchanged.
func (c *Controller) LoadAndRenderAll(ctx context.Context, id string) error {
	ds, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, "all", ds.Len())
	c.RenderAll(ds)
	observability.Pipeline().OnLayoutComplete(ctx, "all", len(c.boxes), len(c.connectors), time.Since(start))
	return nil
}

// LoadAndRenderCollapsed fetches the dataset id and lays out only its
// entrypoints. On a fetch error the controller is left unchanged.
func (c *Controller) LoadAndRenderCollapsed(ctx context.Context, id string) error {
	ds, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, "collapsed", ds.Len())
	c.RenderCollapsed(ds)
	observability.Pipeline().OnLayoutComplete(ctx, "collapsed", len(c.boxes), len(c.connectors), time.Since(start))
	return nil
}

func (c *Controller) load(ctx context.Context, id string) (*module.Dataset, error) {
	if c.fetcher == nil {
		return nil, errors.New(errors.ErrCodeInvalidState, "no dataset fetcher configured")
	}
	ds, err := c.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("dataset loaded", "id", id, "modules", ds.Len(), "edges", ds.EdgeSource())
	return ds, nil
}

// RenderAll places every module in dataset order, connects every edge whose
// endpoints are both present and draws the result.
func (c *Controller) RenderAll(ds *module.Dataset) {
	c.clear()
	c.dataset = ds
	for _, p := range ds.Paths() {
		c.place(p)
	}
	c.connect(ds.Edges())

	c.state = FullyLaid
	c.mode = ClickDetails
	c.redrawBoxes()
	c.drawConnectors(c.style.Stroke, c.connectors...)
	c.logger.Debug("rendered all", "boxes", len(c.boxes), "connectors", len(c.connectors))
}

// RenderCollapsed places only the entrypoints. Imports are revealed by
// clicking.
func (c *Controller) RenderCollapsed(ds *module.Dataset) {
	c.clear()
	c.dataset = ds
	for _, p := range ds.Entrypoints() {
		c.place(p)
	}

	c.state = Collapsed
	c.mode = ClickExpand
	c.redrawBoxes()
	c.logger.Debug("rendered collapsed", "entrypoints", len(c.boxes))
}

// place creates the box for path at the layout cursor. Paths already placed
// or unknown to the dataset are ignored.
func (c *Controller) place(path string) (*modbox.ModuleBox, bool) {
	if _, ok := c.moduleIndexByPath[path]; ok {
		return nil, false
	}
	info, ok := c.dataset.Module(path)
	if !ok {
		return nil, false
	}
	box := modbox.New(c.surface, c.engine.Cursor(), info,
		modbox.WithCounts(c.dataset.ImporterCount(path), c.dataset.ImportCount(path)),
		modbox.WithEntrypoint(c.dataset.IsEntrypoint(path)),
		modbox.WithEntrypointColor(c.style.Entrypoint),
		modbox.WithShowContent(c.showContent),
	)
	c.boxes = append(c.boxes, box)
	c.moduleIndexByPath[path] = len(c.boxes) - 1

	if c.engine.Advance(box.Dimensions()) {
		c.logger.Debug("canvas grew", "height", c.engine.Bounds().Height)
	}
	return box, true
}

// connect adds one connector per edge not yet connected whose endpoints are
// both placed, and returns the number added.
func (c *Controller) connect(edges []module.Edge) int {
	added := 0
	for _, e := range edges {
		if c.connected[e] {
			continue
		}
		from, ok := c.moduleIndexByPath[e.From]
		if !ok {
			continue
		}
		to, ok := c.moduleIndexByPath[e.To]
		if !ok {
			continue
		}
		c.connectors = append(c.connectors, shape.NewConnector(c.boxes[from], c.boxes[to]))
		idx := len(c.connectors) - 1
		c.connectorIndicesByImporterPath[e.From] = append(c.connectorIndicesByImporterPath[e.From], idx)
		c.connected[e] = true
		added++
	}
	return added
}

func (c *Controller) redrawBoxes() {
	c.syncBounds()
	canvas.Clear(c.surface)
	for _, b := range c.boxes {
		b.Draw(c.surface)
	}
}

func (c *Controller) drawConnectors(color string, conns ...*shape.Connector) {
	c.surface.SetStrokeStyle(color)
	c.surface.SetFillStyle(color)
	for _, conn := range conns {
		conn.Draw(c.surface)
	}
	c.surface.SetStrokeStyle(canvas.DefaultStroke)
	c.surface.SetFillStyle(canvas.DefaultFill)
}

// drawModuleConnectors redraws the connectors leaving each of paths.
func (c *Controller) drawModuleConnectors(color string, paths ...string) {
	var conns []*shape.Connector
	for _, p := range paths {
		for _, idx := range c.connectorIndicesByImporterPath[p] {
			conns = append(conns, c.connectors[idx])
		}
	}
	c.drawConnectors(color, conns...)
}

// hit returns the first placed box strictly containing (x, y).
func (c *Controller) hit(x, y float64) (*modbox.ModuleBox, int) {
	for i, b := range c.boxes {
		if b.Contains(x, y) {
			return b, i
		}
	}
	return nil, -1
}

func (c *Controller) showDetails(info module.ModuleInfo) {
	c.view.Details = jsonLines(info, "  ")
}

func jsonLines(v any, indent string) []string {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}

// ToggleToolPanel flips the tool panel and returns its new state.
func (c *Controller) ToggleToolPanel() ToolPanel {
	if c.view.ToolPanel == ToolPanelExpanded {
		c.view.ToolPanel = ToolPanelCollapsed
	} else {
		c.view.ToolPanel = ToolPanelExpanded
	}
	return c.view.ToolPanel
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Mode returns the current click mode.
func (c *Controller) Mode() ClickMode { return c.mode }

// Dataset returns the loaded dataset, or nil when idle.
func (c *Controller) Dataset() *module.Dataset { return c.dataset }

// Surface returns the surface the controller draws on.
func (c *Controller) Surface() canvas.Surface { return c.surface }

// Bounds returns the current canvas size.
func (c *Controller) Bounds() geometry.Dimension {
	return geometry.Dimension{Width: c.surface.Width(), Height: c.surface.Height()}
}

// Boxes returns the placed boxes in placement order.
func (c *Controller) Boxes() []*modbox.ModuleBox {
	return append([]*modbox.ModuleBox(nil), c.boxes...)
}

// Connectors returns the connectors in creation order.
func (c *Controller) Connectors() []*shape.Connector {
	return append([]*shape.Connector(nil), c.connectors...)
}

// Box returns the box placed for path.
func (c *Controller) Box(path string) (*modbox.ModuleBox, bool) {
	idx, ok := c.moduleIndexByPath[path]
	if !ok {
		return nil, false
	}
	return c.boxes[idx], true
}

// ModuleIndexByPath returns a copy of the path → box index map.
func (c *Controller) ModuleIndexByPath() map[string]int {
	out := make(map[string]int, len(c.moduleIndexByPath))
	for k, v := range c.moduleIndexByPath {
		out[k] = v
	}
	return out
}

// ConnectorIndicesByImporterPath returns a copy of the importer path →
// connector indices map.
func (c *Controller) ConnectorIndicesByImporterPath() map[string][]int {
	out := make(map[string][]int, len(c.connectorIndicesByImporterPath))
	for k, v := range c.connectorIndicesByImporterPath {
		out[k] = append([]int(nil), v...)
	}
	return out
}

// View returns a copy of the panel state.
func (c *Controller) View() View { return c.view.clone() }
