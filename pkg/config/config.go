// Package config loads importviz settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/importviz/config.toml (falling back to
// ~/.config/importviz/config.toml). A missing file is not an error: every
// field has a default, and values present in the file override them.
//
//	[canvas]
//	width = 1600
//	height = 900
//
//	[layout]
//	row_policy = "tallest"
//
//	[server]
//	addr = ":8080"
//	session_ttl = "1h"
//	allow_http = false
//
//	[cache]
//	redis_addr = "localhost:6379"
//	key_prefix = "importviz:staging:"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/fetch"
	"github.com/matzehuels/importviz/pkg/layout"
	"github.com/matzehuels/importviz/pkg/pipeline"
	"github.com/matzehuels/importviz/pkg/session"
	"github.com/matzehuels/importviz/pkg/visualizer"
)

const appName = "importviz"

// Duration is a time.Duration written as a Go duration string ("30m").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the complete configuration.
type Config struct {
	Canvas Canvas           `toml:"canvas"`
	Layout Layout           `toml:"layout"`
	Style  visualizer.Style `toml:"style"`
	Server Server           `toml:"server"`
	Cache  Cache            `toml:"cache"`
	Mongo  Mongo            `toml:"mongo"`
}

// Canvas sizes the drawing surface.
type Canvas struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	WindowMargin float64 `toml:"window_margin"`
	FontSize     float64 `toml:"font_size"`
}

// Layout spaces the module boxes.
type Layout struct {
	MarginX   float64 `toml:"margin_x"`
	MarginY   float64 `toml:"margin_y"`
	RowPolicy string  `toml:"row_policy"`
}

// Server configures `importviz serve`. AllowHTTP lets sessions load
// datasets from http(s) URLs.
type Server struct {
	Addr        string   `toml:"addr"`
	DataDir     string   `toml:"data_dir"`
	SessionTTL  Duration `toml:"session_ttl"`
	MaxSessions int      `toml:"max_sessions"`
	AllowHTTP   bool     `toml:"allow_http"`
}

// Cache configures dataset and artifact caching. RedisAddr, when set,
// replaces the file cache.
type Cache struct {
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	KeyPrefix string   `toml:"key_prefix"`
}

// Mongo configures the mongo:// dataset source. An empty URI disables it.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: Canvas{
			Width:        pipeline.DefaultWidth,
			Height:       pipeline.DefaultHeight,
			WindowMargin: layout.DefaultWindowMargin,
			FontSize:     pipeline.DefaultFontSize,
		},
		Layout: Layout{
			MarginX:   layout.DefaultMarginX,
			MarginY:   layout.DefaultMarginY,
			RowPolicy: layout.RowLast.String(),
		},
		Style: visualizer.DefaultStyle(),
		Server: Server{
			Addr:        ":8080",
			DataDir:     ".",
			SessionTTL:  Duration{session.DefaultTTL},
			MaxSessions: session.DefaultMaxSessions,
		},
		Cache: Cache{
			TTL: Duration{24 * time.Hour},
		},
		Mongo: Mongo{
			Database:   fetch.DefaultMongoDatabase,
			Collection: fetch.DefaultMongoCollection,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means the
// default location. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas width and height must be positive")
	}
	if c.Canvas.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas font_size must be positive")
	}
	if c.Layout.MarginX < 0 || c.Layout.MarginY < 0 || c.Canvas.WindowMargin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margins cannot be negative")
	}
	if _, ok := layout.ParseRowPolicy(c.Layout.RowPolicy); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown row_policy %q (want last or tallest)", c.Layout.RowPolicy)
	}
	if c.Server.MaxSessions <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server max_sessions must be positive")
	}
	return nil
}

// RowPolicy returns the parsed layout row policy.
func (c *Config) RowPolicy() layout.RowPolicy {
	p, _ := layout.ParseRowPolicy(c.Layout.RowPolicy)
	return p
}

// Apply copies canvas, layout and style settings into o. Fields already set
// on o are kept.
func (c *Config) Apply(o *pipeline.Options) {
	if o.Width == 0 {
		o.Width = c.Canvas.Width
	}
	if o.Height == 0 {
		o.Height = c.Canvas.Height
	}
	if o.FontSize == 0 {
		o.FontSize = c.Canvas.FontSize
	}
	if o.WindowMargin == 0 {
		o.WindowMargin = c.Canvas.WindowMargin
	}
	if o.MarginX == 0 {
		o.MarginX = c.Layout.MarginX
	}
	if o.MarginY == 0 {
		o.MarginY = c.Layout.MarginY
	}
	if o.RowPolicy == layout.RowLast {
		o.RowPolicy = c.RowPolicy()
	}
	if o.Style == (visualizer.Style{}) {
		o.Style = c.Style
	}
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
