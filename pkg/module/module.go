// Package module models the dependency dataset the visualizer consumes.
//
// A dataset is an ordered set of modules keyed by path. Each module carries
// its direct imports, its importers, or both; whichever direction the
// dataset actually populates is treated as authoritative and the other is
// derived from it, so every edge is reported as importer → imported.
//
// Two JSON layouts are accepted:
//
//	{"entrypoints": {path: ModuleInfo, ...}, "imports": {path: ModuleInfo, ...}}
//	{path: ModuleInfo, ...}
//
// Key order is preserved. In the split layout the two maps are merged
// entrypoints first: a path present in both keeps its first position and
// takes the later value, and every path listed under "entrypoints" is an
// entrypoint.
package module

// Importer references a module that imports another.
type Importer struct {
	Path string `json:"Path"`
}

// Info is the filesystem-level description of a module.
type Info struct {
	Path      string     `json:"Path"`
	IsDir     bool       `json:"IsDir"`
	Imports   []string   `json:"Imports"`
	Importers []Importer `json:"Importers"`
}

// ModuleInfo describes a single module. It is treated as immutable input;
// nil Imports and Importers are equivalent to empty.
type ModuleInfo struct {
	Path         string `json:"Path"`
	IsLocal      bool   `json:"IsLocal"`
	IsEntrypoint bool   `json:"IsEntrypoint,omitempty"`
	Info         Info   `json:"Info"`
}

// ImporterPaths returns the paths of m's importers.
func (m ModuleInfo) ImporterPaths() []string {
	out := make([]string, 0, len(m.Info.Importers))
	for _, imp := range m.Info.Importers {
		out = append(out, imp.Path)
	}
	return out
}

// Edge is a directed import edge.
type Edge struct {
	From string // importer
	To   string // imported
}

// EdgeSource names the list a dataset's edges were read from.
type EdgeSource string

const (
	FromImporters EdgeSource = "importers"
	FromImports   EdgeSource = "imports"
)
