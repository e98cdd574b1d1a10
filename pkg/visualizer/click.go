package visualizer

import (
	"strings"

	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/shape"
)

// ClickResult describes what a click did.
type ClickResult struct {
	Hit      bool     `json:"hit"`
	Path     string   `json:"path,omitempty"`
	Revealed []string `json:"revealed,omitempty"` // paths of boxes created by the click
	Added    int      `json:"connectorsAdded,omitempty"`
	Points   []string `json:"points,omitempty"` // paths of plot points hit
}

// Click handles a click at canvas coordinates (x, y) according to the
// current click mode. A miss changes nothing.
func (c *Controller) Click(x, y float64) ClickResult {
	switch c.mode {
	case ClickDetails:
		return c.clickDetails(x, y)
	case ClickExpand:
		return c.clickExpand(x, y)
	case ClickPlot:
		return c.clickPlot(x, y)
	}
	return ClickResult{}
}

// ClickModule clicks the centre of the box placed for path.
func (c *Controller) ClickModule(path string) (ClickResult, error) {
	box, ok := c.Box(path)
	if !ok {
		return ClickResult{}, errors.New(errors.ErrCodeModuleNotFound, "module %q is not placed", path)
	}
	center := box.Center()
	return c.Click(center.X, center.Y), nil
}

func (c *Controller) clickDetails(x, y float64) ClickResult {
	box, _ := c.hit(x, y)
	if box == nil {
		return ClickResult{}
	}
	c.redrawBoxes()
	c.drawModuleConnectors(c.style.Highlight, box.Path())
	c.showDetails(box.Info())
	return ClickResult{Hit: true, Path: box.Path()}
}

// clickExpand reveals the direct imports of the clicked module. Boxes are
// only created for paths not yet placed, so repeated clicks are no-ops
// apart from the redraw.
func (c *Controller) clickExpand(x, y float64) ClickResult {
	box, _ := c.hit(x, y)
	if box == nil {
		return ClickResult{}
	}
	c.state = Expanding
	defer func() { c.state = Collapsed }()

	res := ClickResult{Hit: true, Path: box.Path()}
	imported := c.dataset.ImportsOf(box.Path())
	for _, p := range imported {
		if _, ok := c.place(p); ok {
			res.Revealed = append(res.Revealed, p)
		}
	}

	var edges []module.Edge
	for _, p := range imported {
		for _, importer := range c.dataset.ImportersOf(p) {
			edges = append(edges, module.Edge{From: importer, To: p})
		}
	}
	res.Added = c.connect(edges)

	c.redrawBoxes()
	c.drawModuleConnectors(c.style.Highlight, append(imported, box.Path())...)
	c.showDetails(box.Info())

	c.logger.Debug("expanded module", "path", box.Path(), "revealed", len(res.Revealed), "connectors", res.Added)
	return res
}

// Search lists the placed boxes whose label contains query, ignoring case,
// in placement order. A non-empty result opens the tool panel.
func (c *Controller) Search(query string) []SearchResult {
	q := strings.ToLower(query)
	var results []SearchResult
	for i, b := range c.boxes {
		if strings.Contains(strings.ToLower(b.Name()), q) {
			results = append(results, SearchResult{Index: i, Path: b.Path(), Label: b.Name()})
		}
	}

	c.view.Query = query
	c.view.Results = results
	c.view.Selection = NoSelection
	if len(results) > 0 {
		c.view.ToolPanel = ToolPanelExpanded
	}
	return append([]SearchResult(nil), results...)
}

// SelectSearchResult selects result i of the last search, redraws the boxes
// with a highlight over the match and returns the y offset to scroll to.
func (c *Controller) SelectSearchResult(i int) (float64, error) {
	if i < 0 || i >= len(c.view.Results) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "search result %d out of range (have %d)", i, len(c.view.Results))
	}
	r := c.view.Results[i]
	if r.Index >= len(c.boxes) {
		return 0, errors.New(errors.ErrCodeInvalidState, "search result %d is stale", i)
	}
	box := c.boxes[r.Index]

	c.view.Selection = SearchSelection(i)
	c.redrawBoxes()
	shape.NewBox(box.Position(), box.Dimensions(), shape.WithBackground(c.style.Search)).Draw(c.surface)
	return box.TextPosition().Y, nil
}
