// Package nodelink renders the modules placed on a canvas as a node-link
// diagram.
//
// # Overview
//
// The canvas controller lays modules out in rows, which gets hard to read
// once many connectors cross. This package exports the same placed boxes
// and connectors as a Graphviz digraph instead, letting dot route the
// edges. Only what is currently placed is exported: in collapsed mode the
// diagram grows as modules are revealed.
//
// # Usage
//
//	g := nodelink.FromPlacement(ctrl.Boxes(), ctrl.Connectors())
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// Nodes are rounded boxes labeled with the module's display name.
// Entrypoints are outlined in the entrypoint colour and external modules
// are dashed. Edges run importer → imported with rankdir=TB.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
