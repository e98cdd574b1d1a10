package visualizer

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/importviz/pkg/canvas/canvastest"
	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/module"
)

func newController(t *testing.T, opts ...Option) (*Controller, *canvastest.Recorder) {
	t.Helper()
	rec := canvastest.New(1000, 800)
	return New(rec, opts...), rec
}

// abDataset is A (entrypoint) importing B.
func abDataset() *module.Dataset {
	return module.New(
		[]module.ModuleInfo{{Path: "src/A", IsLocal: true, Info: module.Info{Imports: []string{"src/B"}}}},
		[]module.ModuleInfo{{Path: "src/B", IsLocal: true}},
	)
}

type fakeFetcher struct {
	ds  *module.Dataset
	err error
	ids []string
}

func (f *fakeFetcher) Fetch(_ context.Context, id string) (*module.Dataset, error) {
	f.ids = append(f.ids, id)
	return f.ds, f.err
}

func TestRenderAllScenario(t *testing.T) {
	c, rec := newController(t)
	c.RenderAll(abDataset())

	if got := len(c.Boxes()); got != 2 {
		t.Fatalf("boxes = %d, want 2", got)
	}
	if got := len(c.Connectors()); got != 1 {
		t.Fatalf("connectors = %d, want 1", got)
	}
	if got := c.ConnectorIndicesByImporterPath()["src/A"]; !slices.Equal(got, []int{0}) {
		t.Errorf("connector indices for A = %v, want [0]", got)
	}
	if idx := c.ModuleIndexByPath(); idx["src/A"] != 0 || idx["src/B"] != 1 {
		t.Errorf("module index = %v", idx)
	}
	if c.State() != FullyLaid || c.Mode() != ClickDetails {
		t.Errorf("state = %v, mode = %v", c.State(), c.Mode())
	}

	conn := c.Connectors()[0]
	a, _ := c.Box("src/A")
	b, _ := c.Box("src/B")
	if conn.From != a || conn.To != b {
		t.Error("connector does not run importer → imported")
	}
	if !slices.Contains(rec.Texts(), "A") || !slices.Contains(rec.Texts(), "B") {
		t.Errorf("labels not drawn: %v", rec.Texts())
	}
}

func TestRenderAllSkipsMissingModules(t *testing.T) {
	c, _ := newController(t)
	c.RenderAll(module.New([]module.ModuleInfo{{Path: "a", Info: module.Info{Imports: []string{"ghost"}}}}, nil))
	if len(c.Boxes()) != 1 || len(c.Connectors()) != 0 {
		t.Errorf("boxes = %d, connectors = %d", len(c.Boxes()), len(c.Connectors()))
	}
}

func TestRenderAllImportersDirection(t *testing.T) {
	ds, err := module.Parse([]byte(`{
		"entrypoints": {"a": {"IsLocal": true, "Info": {"Importers": []}}},
		"imports": {"b": {"IsLocal": true, "Info": {"Importers": [{"Path": "a"}]}}}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := newController(t)
	c.RenderAll(ds)
	if got := c.ConnectorIndicesByImporterPath()["a"]; !slices.Equal(got, []int{0}) {
		t.Errorf("connector indices for a = %v", got)
	}
}

func TestCollapsedReveal(t *testing.T) {
	c, _ := newController(t)
	c.RenderCollapsed(abDataset())

	if c.State() != Collapsed || c.Mode() != ClickExpand {
		t.Fatalf("state = %v, mode = %v", c.State(), c.Mode())
	}
	if len(c.Boxes()) != 1 || len(c.Connectors()) != 0 {
		t.Fatalf("collapsed: boxes = %d, connectors = %d", len(c.Boxes()), len(c.Connectors()))
	}

	res, err := c.ClickModule("src/A")
	if err != nil {
		t.Fatalf("ClickModule: %v", err)
	}
	if !res.Hit || !slices.Equal(res.Revealed, []string{"src/B"}) || res.Added != 1 {
		t.Errorf("first click = %+v", res)
	}
	if len(c.Boxes()) != 2 || len(c.Connectors()) != 1 {
		t.Fatalf("after reveal: boxes = %d, connectors = %d", len(c.Boxes()), len(c.Connectors()))
	}
	if c.State() != Collapsed {
		t.Errorf("state after reveal = %v", c.State())
	}

	res, _ = c.ClickModule("src/A")
	if len(res.Revealed) != 0 || res.Added != 0 {
		t.Errorf("second click = %+v", res)
	}
	if len(c.Boxes()) != 2 || len(c.Connectors()) != 1 {
		t.Errorf("re-click changed graph: boxes = %d, connectors = %d", len(c.Boxes()), len(c.Connectors()))
	}
	if got := c.ConnectorIndicesByImporterPath()["src/A"]; !slices.Equal(got, []int{0}) {
		t.Errorf("connector indices = %v", got)
	}
}

func TestRevealConnectsOtherPlacedImporters(t *testing.T) {
	// a and b are entrypoints, both import c.
	ds := module.New(
		[]module.ModuleInfo{
			{Path: "a", Info: module.Info{Imports: []string{"c"}}},
			{Path: "b", Info: module.Info{Imports: []string{"c"}}},
		},
		[]module.ModuleInfo{{Path: "c"}},
	)
	c, _ := newController(t)
	c.RenderCollapsed(ds)
	res, err := c.ClickModule("a")
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 2 {
		t.Errorf("connectors added = %d, want 2", res.Added)
	}
	if _, err := c.ClickModule("b"); err != nil {
		t.Fatal(err)
	}
	if len(c.Connectors()) != 2 {
		t.Errorf("connectors = %d, want 2", len(c.Connectors()))
	}
}

func TestClickZeroImports(t *testing.T) {
	c, _ := newController(t)
	c.RenderCollapsed(module.New([]module.ModuleInfo{{Path: "A"}}, nil))
	res, err := c.ClickModule("A")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Hit || len(res.Revealed) != 0 {
		t.Errorf("click = %+v", res)
	}
	if len(c.Boxes()) != 1 {
		t.Errorf("boxes = %d, want 1", len(c.Boxes()))
	}
}

func TestClickMiss(t *testing.T) {
	c, rec := newController(t)
	c.RenderCollapsed(abDataset())
	rec.Reset()

	if res := c.Click(-5, -5); res.Hit {
		t.Errorf("miss reported a hit: %+v", res)
	}
	if len(rec.Ops) != 0 {
		t.Errorf("miss drew %d ops", len(rec.Ops))
	}
	if _, err := c.ClickModule("nope"); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("ClickModule(nope) error = %v", err)
	}
}

func TestBoxBoundaryIsNotAHit(t *testing.T) {
	c, _ := newController(t)
	c.RenderCollapsed(abDataset())
	a, _ := c.Box("src/A")
	p := a.Position()
	if res := c.Click(p.X, p.Y+1); res.Hit {
		t.Error("click on left edge hit the box")
	}
}

func TestClickDetails(t *testing.T) {
	c, rec := newController(t)
	c.RenderAll(abDataset())
	rec.Reset()

	res, err := c.ClickModule("src/A")
	if err != nil || !res.Hit {
		t.Fatalf("ClickModule = %+v, %v", res, err)
	}
	if !slices.Contains(c.View().Details, `  "Path": "src/A",`) {
		t.Errorf("details = %v", c.View().Details)
	}
	if rec.Count("ClearRect") != 1 {
		t.Errorf("boxes not redrawn")
	}
	var highlighted bool
	for _, op := range rec.Find("SetStrokeStyle") {
		if op.Text == DefaultStyle().Highlight {
			highlighted = true
		}
	}
	if !highlighted {
		t.Error("connectors not highlighted")
	}
}

func TestResetClearsEverything(t *testing.T) {
	c, _ := newController(t)
	c.RenderAll(abDataset())
	first := c.Boxes()[0].Position()

	c.Reset()
	if c.State() != Idle || c.Dataset() != nil {
		t.Errorf("state = %v", c.State())
	}
	if len(c.Boxes()) != 0 || len(c.Connectors()) != 0 ||
		len(c.ModuleIndexByPath()) != 0 || len(c.ConnectorIndicesByImporterPath()) != 0 {
		t.Error("reset left graph state behind")
	}

	c.RenderAll(abDataset())
	if got := c.Boxes()[0].Position(); got != first {
		t.Errorf("layout did not restart at origin: %v, want %v", got, first)
	}
}

func TestCanvasGrows(t *testing.T) {
	rec := canvastest.New(400, 200)
	c := New(rec)
	var mods []module.ModuleInfo
	for _, p := range []string{"a", "b", "c", "d"} {
		mods = append(mods, module.ModuleInfo{Path: p})
	}
	c.RenderAll(module.New(nil, mods))

	if rec.Height() <= 180 {
		t.Errorf("height = %v, want growth past 180", rec.Height())
	}
	if rec.Width() != 380 {
		t.Errorf("width = %v, want 380", rec.Width())
	}
	last := c.Boxes()[3]
	if bottom := last.Position().Y + last.Dimensions().Height; bottom > rec.Height() {
		t.Errorf("last box bottom %v outside canvas %v", bottom, rec.Height())
	}
}

func TestCanvasResizedOncePerPass(t *testing.T) {
	rec := canvastest.New(400, 200)
	c := New(rec)
	var mods []module.ModuleInfo
	for i := 0; i < 40; i++ {
		mods = append(mods, module.ModuleInfo{Path: "mod" + string(rune('a'+i%26)) + string(rune('a'+i/26))})
	}
	rec.Reset()
	c.RenderAll(module.New(nil, mods))

	if got := rec.Count("Resize"); got != 1 {
		t.Errorf("RenderAll resized %d times, want 1", got)
	}
	grown := rec.Height()
	if grown <= 180 {
		t.Fatalf("height = %v, want growth", grown)
	}

	// Redraws that do not move the bounds leave the surface alone.
	rec.Reset()
	c.Click(-1, -1)
	if _, err := c.ClickModule("modaa"); err != nil {
		t.Fatal(err)
	}
	if got := rec.Count("Resize"); got != 0 {
		t.Errorf("detail click resized %d times, want 0", got)
	}

	// A reveal pass that wraps several rows resizes once as well.
	ds := module.New(
		[]module.ModuleInfo{{Path: "root", Info: module.Info{Imports: []string{"x1", "x2", "x3", "x4", "x5", "x6"}}}},
		[]module.ModuleInfo{{Path: "x1"}, {Path: "x2"}, {Path: "x3"}, {Path: "x4"}, {Path: "x5"}, {Path: "x6"}},
	)
	c.RenderCollapsed(ds)
	rec.Reset()
	if _, err := c.ClickModule("root"); err != nil {
		t.Fatal(err)
	}
	if got := rec.Count("Resize"); got != 1 {
		t.Errorf("reveal resized %d times, want 1", got)
	}
	if b := c.engine.Bounds(); rec.Height() != b.Height {
		t.Errorf("surface height %v != layout height %v", rec.Height(), b.Height)
	}
}

func TestSearch(t *testing.T) {
	c, rec := newController(t)
	c.RenderAll(abDataset())

	if got := c.Search("zzz"); len(got) != 0 {
		t.Errorf("Search(zzz) = %v", got)
	}
	if c.View().ToolPanel != ToolPanelCollapsed {
		t.Error("empty result opened the tool panel")
	}

	got := c.Search("b")
	if len(got) != 1 || got[0].Path != "src/B" || got[0].Index != 1 {
		t.Fatalf("Search(b) = %v", got)
	}
	if c.View().ToolPanel != ToolPanelExpanded {
		t.Error("tool panel not opened")
	}
	if c.View().Selection.Selected() {
		t.Error("selection set before SelectSearchResult")
	}

	rec.Reset()
	y, err := c.SelectSearchResult(0)
	if err != nil {
		t.Fatalf("SelectSearchResult: %v", err)
	}
	b, _ := c.Box("src/B")
	if y != b.TextPosition().Y {
		t.Errorf("scroll y = %v, want %v", y, b.TextPosition().Y)
	}
	if c.View().Selection != 0 {
		t.Errorf("selection = %v", c.View().Selection)
	}
	if !slices.ContainsFunc(rec.Find("SetFillStyle"), func(op canvastest.Op) bool { return op.Text == DefaultStyle().Search }) {
		t.Error("match not highlighted")
	}
	if len(c.Boxes()) != 2 || len(c.Connectors()) != 1 {
		t.Error("selection changed the graph")
	}

	if _, err := c.SelectSearchResult(5); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("out of range error = %v", err)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	c, _ := newController(t)
	c.RenderAll(module.New(nil, []module.ModuleInfo{{Path: "lib/Button.tsx"}, {Path: "lib/button.css"}, {Path: "lib/x"}}))
	if got := c.Search("BUTTON"); len(got) != 2 {
		t.Errorf("Search(BUTTON) = %v", got)
	}
}

func TestToggleToolPanel(t *testing.T) {
	c, _ := newController(t)
	if p := c.ToggleToolPanel(); p != ToolPanelExpanded || p.Glyph() != ">" {
		t.Errorf("first toggle = %v %q", p, p.Glyph())
	}
	if p := c.ToggleToolPanel(); p != ToolPanelCollapsed || p.Glyph() != "<" {
		t.Errorf("second toggle = %v %q", p, p.Glyph())
	}
}

func TestPlot(t *testing.T) {
	c, rec := newController(t)
	if err := c.Plot(); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Plot while idle error = %v", err)
	}

	ds := module.New(
		[]module.ModuleInfo{{Path: "src/A", IsLocal: true, Info: module.Info{Imports: []string{"src/B", "react"}}}},
		[]module.ModuleInfo{{Path: "src/B", IsLocal: true}, {Path: "react"}},
	)
	c.RenderAll(ds)
	rec.Reset()
	if err := c.Plot(); err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if c.State() != Plotted || c.Mode() != ClickPlot {
		t.Errorf("state = %v, mode = %v", c.State(), c.Mode())
	}

	points := c.PlotPoints()
	if len(points) != 2 {
		t.Fatalf("points = %v, want 2 local modules", points)
	}
	// A: 0 importers, 2 imports. B: 1 importer, 0 imports. yMax = (2+4)*10.
	if points[0].Center.X != 50 || points[0].Center.Y != 40 {
		t.Errorf("A center = %v", points[0].Center)
	}
	if points[1].Center.X != 60 || points[1].Center.Y != 60 {
		t.Errorf("B center = %v", points[1].Center)
	}
	if rec.Count("Arc") != 2 {
		t.Errorf("circles = %d", rec.Count("Arc"))
	}
	for _, label := range []string{PlotXLabel, PlotYLabel} {
		if !slices.Contains(rec.Texts(), label) {
			t.Errorf("missing axis label %q", label)
		}
	}

	res := c.Click(63, 57)
	if !res.Hit || !slices.Equal(res.Points, []string{"src/B"}) {
		t.Fatalf("plot click = %+v", res)
	}
	entries := c.View().PlotEntries
	if len(entries) != 1 || entries[0].Title != "1 B" {
		t.Fatalf("entries = %+v", entries)
	}
	if d := entries[0].Detail; d.Info.ImportersCount != 1 || d.Info.ImportsCount != 0 || !d.IsLocal {
		t.Errorf("detail = %+v", d)
	}
	if !strings.Contains(strings.Join(entries[0].Lines, "\n"), `"ImportersCount": 1`) {
		t.Errorf("lines = %v", entries[0].Lines)
	}

	if res := c.Click(54, 60); res.Hit {
		t.Errorf("click outside radius hit: %+v", res)
	}
	// The hit square around a point includes its edge.
	if res := c.Click(60+PlotRadius, 60-PlotRadius); !res.Hit {
		t.Errorf("click on radius edge missed: %+v", res)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	f := &fakeFetcher{err: errors.New(errors.ErrCodeNetwork, "boom")}
	c, _ := newController(t, WithFetcher(f))
	if err := c.LoadAndRenderAll(ctx, "graph.json"); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v", err)
	}
	if c.State() != Idle {
		t.Errorf("state after failed load = %v", c.State())
	}

	f.err, f.ds = nil, abDataset()
	if err := c.LoadAndRenderCollapsed(ctx, "graph.json"); err != nil {
		t.Fatalf("LoadAndRenderCollapsed: %v", err)
	}
	if c.State() != Collapsed || len(c.Boxes()) != 1 {
		t.Errorf("state = %v, boxes = %d", c.State(), len(c.Boxes()))
	}

	f.err, f.ds = errors.New(errors.ErrCodeNetwork, "boom"), nil
	if err := c.LoadAndRenderAll(ctx, "other.json"); err == nil {
		t.Fatal("expected error")
	}
	if c.State() != Collapsed || len(c.Boxes()) != 1 {
		t.Error("failed load changed a loaded controller")
	}

	noFetch, _ := newController(t)
	if err := noFetch.LoadAndRenderAll(ctx, "x"); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("no fetcher error = %v", err)
	}
}

func TestCompactBoxes(t *testing.T) {
	c, _ := newController(t, WithShowContent(false))
	c.RenderAll(abDataset())
	for _, b := range c.Boxes() {
		if b.ShowContent() {
			t.Errorf("box %s shows content", b.Path())
		}
	}
}

func TestStateStrings(t *testing.T) {
	want := map[State]string{Idle: "idle", FullyLaid: "fully-laid", Collapsed: "collapsed", Expanding: "expanding", Plotted: "plotted"}
	for s, w := range want {
		if s.String() != w {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), w)
		}
	}
}

func TestEnumText(t *testing.T) {
	for s := Idle; s <= Plotted; s++ {
		text, _ := s.MarshalText()
		var got State
		if err := got.UnmarshalText(text); err != nil || got != s {
			t.Errorf("State %v round trip = %v, %v", s, got, err)
		}
	}
	for m := ClickNone; m <= ClickPlot; m++ {
		text, _ := m.MarshalText()
		var got ClickMode
		if err := got.UnmarshalText(text); err != nil || got != m {
			t.Errorf("ClickMode %v round trip = %v, %v", m, got, err)
		}
	}
	var p ToolPanel
	if err := p.UnmarshalText([]byte("expanded")); err != nil || p != ToolPanelExpanded {
		t.Errorf("ToolPanel = %v, %v", p, err)
	}
	if err := p.UnmarshalText([]byte("sideways")); err == nil {
		t.Error("unknown panel state accepted")
	}
}
