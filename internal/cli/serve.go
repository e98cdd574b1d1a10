package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importviz/internal/server"
	"github.com/matzehuels/importviz/pkg/config"
)

type serveOpts struct {
	addr      string
	dataDir   string
	allowHTTP bool
	noCache   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve datasets and interactive sessions over HTTP",
		Long: `Start the HTTP server.

GET /?filename=<name> returns a dataset file from the data directory with
permissive CORS. The /sessions API keeps a live canvas per session that
clicks, searches and plot requests update.

Session sources are paths relative to the data directory, or mongo://
identifiers when MongoDB is configured. http(s) URLs are refused unless
--allow-http is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directory served by the dataset endpoint (default from config)")
	cmd.Flags().BoolVar(&opts.allowHTTP, "allow-http", false, "let sessions load datasets from http(s) URLs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable dataset caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.dataDir != "" {
		cfg.Server.DataDir = opts.dataDir
	}

	b, err := c.newBackend(ctx, cfg, serveSources(cfg, opts), opts.noCache)
	if err != nil {
		return err
	}
	defer b.close(context.Background())

	printInfo("Serving %s on %s", cfg.Server.DataDir, StyleHighlight.Render(cfg.Server.Addr))
	err = server.New(cfg, b.loader, c.Logger).ListenAndServe(ctx, cfg.Server.Addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveSources confines session datasets to the data directory. Remote URLs
// need --allow-http or server.allow_http.
func serveSources(cfg *config.Config, opts serveOpts) sources {
	return sources{
		fileRoot:  cfg.Server.DataDir,
		allowHTTP: opts.allowHTTP || cfg.Server.AllowHTTP,
	}
}
