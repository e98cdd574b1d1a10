package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/importviz/pkg/modbox"
	"github.com/matzehuels/importviz/pkg/shape"
)

// Node is one placed module.
type Node struct {
	ID         string
	Label      string
	Entrypoint bool
	Local      bool
	Importers  int
	Imports    int
}

// Edge runs from an importer to the module it imports.
type Edge struct {
	From, To string
}

// Graph is a node-link view of a placement.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Options configures diagram generation.
type Options struct {
	// Detailed adds locality and connector counts to node labels.
	Detailed bool
	// EntrypointColor outlines entrypoint modules. Defaults to
	// [modbox.DefaultEntrypointColor].
	EntrypointColor string
}

// FromPlacement builds a graph from placed module boxes and the connectors
// between them, in placement order. Connectors whose ends are not module
// boxes are ignored.
func FromPlacement(boxes []*modbox.ModuleBox, conns []*shape.Connector) Graph {
	g := Graph{Nodes: make([]Node, 0, len(boxes))}
	index := make(map[string]int, len(boxes))
	for _, b := range boxes {
		index[b.Path()] = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{
			ID:         b.Path(),
			Label:      b.Name(),
			Entrypoint: b.IsEntrypoint(),
			Local:      b.Info().IsLocal,
		})
	}
	for _, c := range conns {
		from, ok1 := c.From.(*modbox.ModuleBox)
		to, ok2 := c.To.(*modbox.ModuleBox)
		if !ok1 || !ok2 {
			continue
		}
		fi, ok1 := index[from.Path()]
		ti, ok2 := index[to.Path()]
		if !ok1 || !ok2 {
			continue
		}
		g.Edges = append(g.Edges, Edge{From: from.Path(), To: to.Path()})
		g.Nodes[fi].Imports++
		g.Nodes[ti].Importers++
	}
	return g
}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g Graph, opts Options) string {
	entry := opts.EntrypointColor
	if entry == "" {
		entry = modbox.DefaultEntrypointColor
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.8];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed, entry), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n Node, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}
	locality := "external"
	if n.Local {
		locality = "local"
	}
	return fmt.Sprintf("%s\n%s\nimporters: %d\nimports: %d", label, locality, n.Importers, n.Imports)
}

func fmtAttrs(n Node, detailed bool, entry string) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed)), fmt.Sprintf("tooltip=%q", n.ID)}
	if n.Entrypoint {
		attrs = append(attrs, fmt.Sprintf("color=%q", entry), "penwidth=2")
	}
	if !n.Local {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the diagram scales like the canvas SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
