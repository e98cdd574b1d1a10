// Package pipeline runs the fetch → layout → render pipeline behind the
// importviz CLI and server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: load the dataset bytes through a [fetch.Loader]
//  2. Layout: drive a [visualizer.Controller] exactly as a user would:
//     render all modules or only the entrypoints, click the modules listed
//     in Expand, and optionally switch to the scatter plot
//  3. Render: encode the resulting canvas (SVG, PNG) or a node-link
//     diagram of the placed modules (SVG, DOT)
//
// Rendered artifacts are cached by the hash of the dataset bytes and the
// options that affect them.
//
// # Usage
//
//	runner := pipeline.NewRunner(loader, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:    "graph.json",
//	    Collapsed: true,
//	    Expand:    []string{"src/index.ts"},
//	    Formats:   []render.Format{render.FormatSVG},
//	})
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importviz/pkg/cache"
	"github.com/matzehuels/importviz/pkg/fonts"
	"github.com/matzehuels/importviz/pkg/layout"
	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/render"
	"github.com/matzehuels/importviz/pkg/visualizer"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 800.0

	// DefaultFontSize is the default label size in points.
	DefaultFontSize = fonts.DefaultSize

	// DefaultArtifactTTL is how long rendered artifacts stay cached.
	DefaultArtifactTTL = 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Fetch options
	Source  string `json:"source"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Collapsed    bool             `json:"collapsed,omitempty"`
	Expand       []string         `json:"expand,omitempty"`
	Plot         bool             `json:"plot,omitempty"`
	Width        float64          `json:"width,omitempty"`
	Height       float64          `json:"height,omitempty"`
	FontSize     float64          `json:"font_size,omitempty"`
	Compact      bool             `json:"compact,omitempty"`
	RowPolicy    layout.RowPolicy `json:"-"`
	MarginX      float64          `json:"margin_x,omitempty"`
	MarginY      float64          `json:"margin_y,omitempty"`
	WindowMargin float64          `json:"window_margin,omitempty"`
	Style        visualizer.Style `json:"style"`

	// Render options
	Type     render.Type     `json:"type,omitempty"`
	Formats  []render.Format `json:"formats,omitempty"`
	Detailed bool            `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the parsed dataset. It is nil when every artifact was
	// served from the cache.
	Dataset *module.Dataset

	// DatasetHash is the content hash of the dataset bytes.
	DatasetHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Clicks holds one result per expanded module, in order.
	Clicks []visualizer.ClickResult

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ModuleCount    int
	BoxCount       int
	ConnectorCount int
	FetchTime      time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return fmt.Errorf("source is required")
	}
	if len(o.Expand) > 0 && !o.Collapsed {
		return fmt.Errorf("expand requires collapsed mode")
	}
	if o.Type == "" {
		o.Type = render.TypeCanvas
	}
	if len(o.Formats) == 0 {
		o.Formats = []render.Format{render.FormatSVG}
	}
	for _, f := range o.Formats {
		if err := render.Validate(o.Type, f); err != nil {
			return err
		}
	}
	if o.Plot && o.Type == render.TypeNodelink {
		return fmt.Errorf("plot cannot be rendered as a nodelink diagram")
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("width and height must be positive")
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.MarginX == 0 {
		o.MarginX = layout.DefaultMarginX
	}
	if o.MarginY == 0 {
		o.MarginY = layout.DefaultMarginY
	}
	if o.WindowMargin == 0 {
		o.WindowMargin = layout.DefaultWindowMargin
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// FormatNames returns the requested formats as strings.
func (o *Options) FormatNames() []string {
	names := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		names[i] = string(f)
	}
	return names
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format render.Format) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      string(format),
		Type:        string(o.Type),
		Collapsed:   o.Collapsed,
		Expand:      o.Expand,
		Plot:        o.Plot,
		Width:       o.Width,
		Height:      o.Height,
		ShowContent: !o.Compact,
		RowPolicy:   o.RowPolicy.String(),
		Detailed:    o.Detailed,
		FontSize:    o.FontSize,
		Style:       [4]string{o.Style.Stroke, o.Style.Entrypoint, o.Style.Highlight, o.Style.Search},
		Margins:     [3]float64{o.MarginX, o.MarginY, o.WindowMargin},
	}
}

// ControllerOptions returns the visualizer options matching o.
func (o *Options) ControllerOptions() []visualizer.Option {
	return []visualizer.Option{
		visualizer.WithLogger(o.Logger),
		visualizer.WithStyle(o.Style),
		visualizer.WithShowContent(!o.Compact),
		visualizer.WithLayout(
			layout.WithMargins(o.MarginX, o.MarginY),
			layout.WithWindowMargin(o.WindowMargin),
			layout.WithRowPolicy(o.RowPolicy),
		),
	}
}
