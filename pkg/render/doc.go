// Package render names the output artifacts importviz can produce.
//
// A visualization is either the canvas itself, drawn by the
// [github.com/matzehuels/importviz/pkg/visualizer] controller onto an SVG or
// raster surface, or a node-link diagram of the currently placed modules
// produced by the [nodelink] subpackage with Graphviz.
//
// [nodelink]: github.com/matzehuels/importviz/pkg/render/nodelink
package render
