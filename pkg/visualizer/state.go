package visualizer

import "fmt"

// State is the controller's lifecycle state.
type State int

const (
	// Idle means no dataset is loaded.
	Idle State = iota
	// FullyLaid means every module and connector is placed.
	FullyLaid
	// Collapsed means only entrypoints and revealed imports are placed.
	Collapsed
	// Expanding is held while a click reveals a module's imports.
	Expanding
	// Plotted means the surface shows the scatter plot.
	Plotted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FullyLaid:
		return "fully-laid"
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case Plotted:
		return "plotted"
	}
	return "unknown"
}

// ClickMode decides how a click on the surface is interpreted.
type ClickMode int

const (
	ClickNone ClickMode = iota
	// ClickDetails highlights the clicked module's connectors.
	ClickDetails
	// ClickExpand reveals the clicked module's imports.
	ClickExpand
	// ClickPlot hit-tests scatter plot points.
	ClickPlot
)

func (m ClickMode) String() string {
	switch m {
	case ClickDetails:
		return "details"
	case ClickExpand:
		return "expand"
	case ClickPlot:
		return "plot"
	}
	return "none"
}

// ToolPanel is the visibility of the search and plot tools.
type ToolPanel int

const (
	ToolPanelCollapsed ToolPanel = iota
	ToolPanelExpanded
)

// Glyph is the toggle label shown for the panel state.
func (p ToolPanel) Glyph() string {
	if p == ToolPanelExpanded {
		return ">"
	}
	return "<"
}

func (p ToolPanel) String() string {
	if p == ToolPanelExpanded {
		return "expanded"
	}
	return "collapsed"
}

// NoSelection marks that no search result is selected.
const NoSelection SearchSelection = -1

// SearchSelection is the index of the selected search result, or
// NoSelection.
type SearchSelection int

// Selected reports whether a result is selected.
func (s SearchSelection) Selected() bool { return s >= 0 }

// SearchResult is one module matching a search query.
type SearchResult struct {
	Index int    `json:"index"` // placement index of the box
	Path  string `json:"path"`
	Label string `json:"label"`
}

// PlotInfo is the per-module summary shown for a clicked plot point.
type PlotInfo struct {
	Path           string `json:"Path"`
	IsDir          bool   `json:"IsDir"`
	ImportsCount   int    `json:"ImportsCount"`
	ImportersCount int    `json:"ImportersCount"`
}

// PlotDetail is the detail record of a clicked plot point.
type PlotDetail struct {
	Path    string   `json:"Path"`
	IsLocal bool     `json:"IsLocal"`
	Info    PlotInfo `json:"Info"`
}

// PlotEntry is one numbered entry in the plot detail panel.
type PlotEntry struct {
	Title  string     `json:"title"`
	Detail PlotDetail `json:"detail"`
	Lines  []string   `json:"lines"`
}

// View is the panel state next to the graph.
type View struct {
	ToolPanel   ToolPanel       `json:"toolPanel"`
	Query       string          `json:"query"`
	Results     []SearchResult  `json:"results"`
	Selection   SearchSelection `json:"selection"`
	Details     []string        `json:"details"`
	PlotEntries []PlotEntry     `json:"plotEntries"`
}

func (v View) clone() View {
	out := v
	out.Results = append([]SearchResult(nil), v.Results...)
	out.Details = append([]string(nil), v.Details...)
	out.PlotEntries = append([]PlotEntry(nil), v.PlotEntries...)
	return out
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText encodes the mode by name.
func (m ClickMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// MarshalText encodes the panel state by name.
func (p ToolPanel) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for v := Idle; v <= Plotted; v++ {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// UnmarshalText decodes a click mode name.
func (m *ClickMode) UnmarshalText(text []byte) error {
	for v := ClickNone; v <= ClickPlot; v++ {
		if v.String() == string(text) {
			*m = v
			return nil
		}
	}
	return fmt.Errorf("unknown click mode %q", text)
}

// UnmarshalText decodes a panel state name.
func (p *ToolPanel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "collapsed":
		*p = ToolPanelCollapsed
	case "expanded":
		*p = ToolPanelExpanded
	default:
		return fmt.Errorf("unknown tool panel state %q", text)
	}
	return nil
}
