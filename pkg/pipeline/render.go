package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/canvas/raster"
	"github.com/matzehuels/importviz/pkg/canvas/svg"
	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/observability"
	"github.com/matzehuels/importviz/pkg/render"
	"github.com/matzehuels/importviz/pkg/render/nodelink"
	"github.com/matzehuels/importviz/pkg/visualizer"
)

// =============================================================================
// Rendering
// =============================================================================

// Rendered is the output of [RenderDataset].
type Rendered struct {
	Artifacts map[render.Format][]byte
	Clicks    []visualizer.ClickResult
	Boxes     int
	Conns     int
}

// RenderDataset lays ds out and encodes every requested format. Canvas
// formats each get their own surface; the layout is deterministic so they
// agree.
func RenderDataset(ctx context.Context, ds *module.Dataset, opts Options) (*Rendered, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.FormatNames())
	out, err := renderDataset(ctx, ds, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.FormatNames(), time.Since(start), err)
	return out, err
}

func renderDataset(ctx context.Context, ds *module.Dataset, opts Options) (*Rendered, error) {
	out := &Rendered{Artifacts: make(map[render.Format][]byte, len(opts.Formats))}

	if opts.Type == render.TypeNodelink {
		s, err := svg.New(opts.Width, opts.Height, svg.WithFontSize(opts.FontSize))
		if err != nil {
			return nil, err
		}
		ctrl, clicks, err := Layout(ctx, s, ds, opts)
		if err != nil {
			return nil, err
		}
		out.record(ctrl, clicks)
		dot := nodelink.ToDOT(nodelink.FromPlacement(ctrl.Boxes(), ctrl.Connectors()), nodelink.Options{
			Detailed:        opts.Detailed,
			EntrypointColor: opts.Style.Entrypoint,
		})
		for _, f := range opts.Formats {
			switch f {
			case render.FormatDOT:
				out.Artifacts[f] = []byte(dot)
			case render.FormatSVG:
				data, err := nodelink.RenderSVG(ctx, dot)
				if err != nil {
					return nil, err
				}
				out.Artifacts[f] = data
			}
		}
		return out, nil
	}

	for _, f := range opts.Formats {
		s, encode, err := newSurface(f, opts)
		if err != nil {
			return nil, err
		}
		ctrl, clicks, err := Layout(ctx, s, ds, opts)
		if err != nil {
			return nil, err
		}
		out.record(ctrl, clicks)
		data, err := encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f, err)
		}
		out.Artifacts[f] = data
	}
	return out, nil
}

func (r *Rendered) record(ctrl *visualizer.Controller, clicks []visualizer.ClickResult) {
	r.Clicks = clicks
	r.Boxes = len(ctrl.Boxes())
	r.Conns = len(ctrl.Connectors())
}

// newSurface returns a canvas surface for format f and a function encoding
// its final contents.
func newSurface(f render.Format, opts Options) (canvas.Surface, func() ([]byte, error), error) {
	switch f {
	case render.FormatSVG:
		s, err := svg.New(opts.Width, opts.Height, svg.WithFontSize(opts.FontSize))
		if err != nil {
			return nil, nil, err
		}
		return s, func() ([]byte, error) { return s.Bytes(), nil }, nil
	case render.FormatPNG:
		s, err := raster.New(opts.Width, opts.Height, raster.WithFontSize(opts.FontSize))
		if err != nil {
			return nil, nil, err
		}
		return s, func() ([]byte, error) {
			var buf bytes.Buffer
			if err := s.EncodePNG(&buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}, nil
	}
	return nil, nil, fmt.Errorf("format %s is not a canvas format", f)
}
