package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/observability"
	"github.com/matzehuels/importviz/pkg/visualizer"
)

// =============================================================================
// Layout
// =============================================================================

// Layout draws ds onto s the way a user session would and returns the
// controller together with the result of each expand click.
//
// In collapsed mode each module in opts.Expand is clicked at its box centre
// in order; a module that was not placed by an earlier click is an error.
func Layout(ctx context.Context, s canvas.Surface, ds *module.Dataset, opts Options) (*visualizer.Controller, []visualizer.ClickResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	mode := "all"
	if opts.Collapsed {
		mode = "collapsed"
	}
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, mode, ds.Len())

	ctrl := visualizer.New(s, opts.ControllerOptions()...)
	var clicks []visualizer.ClickResult
	if opts.Collapsed {
		ctrl.RenderCollapsed(ds)
		for _, p := range opts.Expand {
			res, err := ctrl.ClickModule(p)
			if err != nil {
				return nil, nil, fmt.Errorf("expand %s: %w", p, err)
			}
			clicks = append(clicks, res)
		}
	} else {
		ctrl.RenderAll(ds)
	}

	if opts.Plot {
		if err := ctrl.Plot(); err != nil {
			return nil, nil, fmt.Errorf("plot: %w", err)
		}
	}

	observability.Pipeline().OnLayoutComplete(ctx, mode, len(ctrl.Boxes()), len(ctrl.Connectors()), time.Since(start))
	return ctrl, clicks, nil
}
