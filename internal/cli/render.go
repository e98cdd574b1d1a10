package cli

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importviz/pkg/layout"
	"github.com/matzehuels/importviz/pkg/pipeline"
	"github.com/matzehuels/importviz/pkg/render"
)

// renderFlags holds the command-line flags shared by render and plot.
type renderFlags struct {
	output    string
	formats   string
	vizType   string
	expand    string
	rowPolicy string
	collapsed bool
	compact   bool
	detailed  bool
	width     float64
	height    float64
	fontSize  float64
	noCache   bool
	refresh   bool
}

func (f *renderFlags) register(cmd *cobra.Command, full bool) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().Float64Var(&f.fontSize, "font-size", 0, "label font size (default from config)")
	cmd.Flags().StringVar(&f.rowPolicy, "row-policy", "", "row height when wrapping: last, tallest (default from config)")
	cmd.Flags().BoolVar(&f.compact, "compact", false, "draw module boxes without their detail lines")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable dataset and artifact caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-read the dataset, ignoring cached copies")
	if full {
		cmd.Flags().StringVarP(&f.vizType, "type", "t", "", "visualization type: canvas (default), nodelink")
		cmd.Flags().BoolVar(&f.collapsed, "collapsed", false, "start with entrypoints only")
		cmd.Flags().StringVar(&f.expand, "expand", "", "module paths to click in order, comma-separated (requires --collapsed)")
		cmd.Flags().BoolVar(&f.detailed, "detailed", false, "add counts to nodelink labels")
	}
}

// options converts the flags into pipeline options and layers the config
// underneath.
func (f *renderFlags) options(source string, plot bool, apply func(*pipeline.Options)) (pipeline.Options, error) {
	formats, err := parseFormats(f.formats)
	if err != nil {
		return pipeline.Options{}, err
	}
	vt, err := render.ParseType(f.vizType)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Source:    source,
		Refresh:   f.refresh,
		Collapsed: f.collapsed,
		Expand:    parseList(f.expand),
		Plot:      plot,
		Width:     f.width,
		Height:    f.height,
		FontSize:  f.fontSize,
		Compact:   f.compact,
		Type:      vt,
		Formats:   formats,
		Detailed:  f.detailed,
	}
	apply(&opts)
	if f.rowPolicy != "" {
		// Applied after the config so an explicit "last" wins too.
		p, ok := layout.ParseRowPolicy(f.rowPolicy)
		if !ok {
			return pipeline.Options{}, fmt.Errorf("invalid row policy: %s (must be 'last' or 'tallest')", f.rowPolicy)
		}
		opts.RowPolicy = p
	}
	return opts, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Render a module import dataset",
		Long: `Render a module import dataset as SVG, PNG or a Graphviz diagram.

The dataset may be a local file, an http(s) URL or a mongo:// identifier.
With --collapsed only entrypoints are drawn; --expand then clicks the named
modules in order, revealing their direct imports.`,
		Example: `  importviz render deps.json
  importviz render deps.json --collapsed --expand main.go,lib/util.go -f svg,png
  importviz render https://example.com/deps.json -t nodelink -f dot --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &flags, false)
		},
	}
	flags.register(cmd, true)
	return cmd
}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "plot [dataset]",
		Short: "Render the imports/importers scatter plot",
		Long: `Render a scatter plot with one point per module: imports count on the
x axis, importers count on the y axis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &flags, true)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, source string, flags *renderFlags, plot bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(source, plot, cfg.Apply)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, b, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return err
	}
	defer b.close(ctx)

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+source+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.StopWithSuccess("Rendered " + source)
	prog.done("Rendered " + source)

	paths, err := writeArtifacts(result.Artifacts, outputBase(flags.output, source), flags.output)
	if err != nil {
		return err
	}

	printStats(result.Stats.ModuleCount, result.Stats.BoxCount, result.Stats.ConnectorCount, result.CacheInfo.RenderHit)
	for _, click := range result.Clicks {
		if click.Hit && len(click.Revealed) > 0 {
			printDetail("%s revealed %d modules", click.Path, len(click.Revealed))
		}
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each artifact and returns the paths in format order.
// A single artifact goes to output verbatim when it is set.
func writeArtifacts(artifacts map[render.Format][]byte, base, output string) ([]string, error) {
	formats := make([]render.Format, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })

	var paths []string
	for _, f := range formats {
		p := base + "." + string(f)
		if len(formats) == 1 && output != "" {
			p = output
		}
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// outputBase derives the base output path. Without -o it is the last path
// segment of the dataset identifier minus its extension.
func outputBase(output, source string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	name := path.Base(strings.TrimRight(filepath.ToSlash(source), "/"))
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" {
		return appName
	}
	return name
}
