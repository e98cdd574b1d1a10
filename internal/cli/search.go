package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/importviz/pkg/canvas/svg"
	"github.com/matzehuels/importviz/pkg/pipeline"
)

type searchOpts struct {
	interactive bool
	output      string
	selectIndex int
	noCache     bool
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{selectIndex: -1}

	cmd := &cobra.Command{
		Use:   "search [dataset] [query]",
		Short: "Find modules whose label contains a query",
		Long: `Search the labels of all drawn modules, ignoring case.

With -i an interactive picker selects one result; with --select the result
is chosen by number. If -o is given the canvas is written as SVG with the
selected module highlighted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a result interactively")
	cmd.Flags().IntVar(&opts.selectIndex, "select", -1, "select result number n")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the highlighted canvas as SVG")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable dataset caching")

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, source, query string, opts searchOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	b, err := c.newBackend(ctx, cfg, cliSources, opts.noCache)
	if err != nil {
		return err
	}
	defer b.close(ctx)

	ds, err := b.loader.Fetch(ctx, source)
	if err != nil {
		return err
	}

	po := pipeline.Options{Source: source, Logger: c.Logger}
	cfg.Apply(&po)
	if err := po.ValidateAndSetDefaults(); err != nil {
		return err
	}
	surface, err := svg.New(po.Width, po.Height, svg.WithFontSize(po.FontSize))
	if err != nil {
		return err
	}
	ctrl, _, err := pipeline.Layout(ctx, surface, ds, po)
	if err != nil {
		return err
	}

	results := ctrl.Search(query)
	if len(results) == 0 {
		printWarning("No modules match %q", query)
		return nil
	}

	selected := opts.selectIndex
	if opts.interactive {
		final, err := tea.NewProgram(NewResultListModel(ds, query, results)).Run()
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		selected = final.(ResultListModel).Selected
		if selected < 0 {
			return nil
		}
	} else {
		fmt.Fprintln(stdout, resultTable(resultRows(ds, results, 0, len(results), selected), selected))
		printDetail("%d of %d modules match %q", len(results), ds.Len(), query)
	}

	if selected < 0 {
		return nil
	}
	y, err := ctrl.SelectSearchResult(selected)
	if err != nil {
		return err
	}
	printSuccess("Selected %s", results[selected].Path)
	printDetail("scroll to y=%.0f", y)

	if opts.output != "" {
		if err := os.WriteFile(opts.output, surface.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printFile(opts.output)
	}
	return nil
}
