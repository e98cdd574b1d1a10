// Package cli implements the importviz command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/importviz/pkg/buildinfo"
	"github.com/matzehuels/importviz/pkg/cache"
	"github.com/matzehuels/importviz/pkg/config"
	"github.com/matzehuels/importviz/pkg/fetch"
	"github.com/matzehuels/importviz/pkg/observability"
	"github.com/matzehuels/importviz/pkg/pipeline"
	"github.com/matzehuels/importviz/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "importviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Importviz draws module import graphs as boxes and connectors",
		Long:         `Importviz lays out a module import dataset as labelled boxes joined by connectors, with collapsed reveal, search and an import/importer scatter plot.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/importviz/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.pushCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.ConfigPath)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// backend bundles the loader and caches commands share. close releases the
// cache and any MongoDB connection.
type backend struct {
	loader *fetch.Loader
	cache  cache.Cache
	keyer  cache.Keyer
	mongo  *fetch.MongoSource
}

// sources selects which dataset sources a backend reads. An empty fileRoot
// leaves file paths unconfined.
type sources struct {
	fileRoot  string
	allowHTTP bool
}

// cliSources is what local commands may read: any file and any URL.
var cliSources = sources{allowHTTP: true}

func (b *backend) close(ctx context.Context) {
	if b.mongo != nil {
		_ = b.mongo.Close(ctx)
	}
	if b.cache != nil {
		_ = b.cache.Close()
	}
}

// newBackend builds a loader over files, HTTP URLs when src allows them and,
// when a MongoDB URI is configured, mongo:// identifiers.
func (c *CLI) newBackend(ctx context.Context, cfg *config.Config, src sources, noCache bool) (*backend, error) {
	observability.SetPipelineHooks(logHooks{c.Logger})
	observability.SetCacheHooks(logHooks{c.Logger})
	observability.SetHTTPHooks(logHooks{c.Logger})
	observability.SetSessionHooks(logHooks{c.Logger})

	b := &backend{keyer: keyerFor(cfg)}
	if src.fileRoot != "" {
		// Relative ids name different files under different roots.
		root, err := filepath.Abs(src.fileRoot)
		if err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		b.keyer = cache.NewScopedKeyer(b.keyer, "root="+root+":")
	}
	mux := fetch.Mux{File: fetch.FileSource{Root: src.fileRoot}}
	if src.allowHTTP {
		mux.HTTP = fetch.NewHTTPSource("")
	}
	if cfg.Mongo.URI != "" {
		m, err := fetch.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, err
		}
		b.mongo = m
		mux.Mongo = m
	}

	cc, err := newCache(ctx, cfg, noCache)
	if err != nil {
		b.close(ctx)
		return nil, err
	}
	b.cache = cc

	b.loader = fetch.New(mux,
		fetch.WithCache(cache.NewInstrumented(cc, "dataset"), cfg.Cache.TTL.Duration),
		fetch.WithKeyer(b.keyer),
		fetch.WithLogger(c.Logger),
	)
	return b, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, *backend, error) {
	b, err := c.newBackend(ctx, cfg, cliSources, noCache)
	if err != nil {
		return nil, nil, err
	}
	r := pipeline.NewRunner(b.loader, cache.NewInstrumented(b.cache, "artifact"), b.keyer, c.Logger)
	r.TTL = cfg.Cache.TTL.Duration
	return r, b, nil
}

// keyerFor prefixes every cache key with cfg.Cache.KeyPrefix, so several
// installations can share one Redis.
func keyerFor(cfg *config.Config) cache.Keyer {
	if cfg.Cache.KeyPrefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.KeyPrefix)
}

// newCache picks redis when an address is configured, the file cache
// otherwise, and the null cache for --no-cache.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	}
	dir, err := cacheDirFor(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/importviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// cacheDirFor honours the [cache] dir setting.
func cacheDirFor(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string.
func parseFormats(s string) ([]render.Format, error) {
	if s == "" {
		return []render.Format{render.FormatSVG}, nil
	}
	var out []render.Format
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// parseList splits a comma-separated flag value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
