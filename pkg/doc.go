// Package pkg provides the core libraries for importviz, which draws module
// import datasets as labelled boxes joined by connectors.
//
// # Overview
//
// A dataset lists entrypoint modules and imported modules, each with its
// imports or importers. The pkg directory is organized into these areas:
//
//  1. [module] - Dataset parsing and derived edge tables
//  2. [geometry], [shape], [modbox] - Points, boxes, arrows and connectors
//  3. [layout] - Row-wrapping placement of module boxes
//  4. [canvas] - The drawing Surface with SVG and raster backends
//  5. [visualizer] - Interactive controller: reveal, search, details, plot
//  6. [fetch], [cache] - Dataset sources (file, HTTP, MongoDB) and caching
//  7. [pipeline] - Orchestration (fetch → layout → render)
//  8. [render] - Output formats and the Graphviz node-link export
//  9. [session], [config], [errors], [observability] - Supporting services
//
// # Architecture
//
// The typical data flow:
//
//	file / http(s) URL / mongo:// id
//	         ↓
//	    [fetch] Loader (memo + cache.Cache)
//	         ↓
//	    [module] Dataset
//	         ↓
//	    [visualizer] Controller  →  [layout] Engine
//	         ↓
//	    [canvas] Surface (svg | raster)  or  [render/nodelink] DOT
//
// # Quick Start
//
//	loader := fetch.New(fetch.FileSource{})
//	runner := pipeline.NewRunner(loader, nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:    "deps.json",
//	    Collapsed: true,
//	    Expand:    []string{"src/index.ts"},
//	    Formats:   []render.Format{render.FormatSVG, render.FormatPNG},
//	})
//
// For interactive use, create a [visualizer.Controller] on a Surface and
// drive it with Click, Search, SelectSearchResult, Plot and ToggleToolPanel.
// The HTTP server in internal/server keeps one controller per session.
package pkg
