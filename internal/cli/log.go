// Package cli implements the importviz command-line interface.
//
// This package provides commands for rendering module import datasets as
// SVG, PNG or Graphviz output, searching and plotting them, serving them over
// HTTP, and managing the dataset and artifact cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Draw a dataset (all modules or collapsed with expand clicks)
//   - plot: Draw the imports/importers scatter plot
//   - search: Find modules by label, optionally with an interactive picker
//   - serve: Run the dataset and session HTTP server
//   - push: Store a dataset file in MongoDB
//   - cache: Inspect and clear the cache
//   - config: Print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Rendered 42 modules (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok && l != nil {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports pipeline, cache, HTTP and session events as debug log
// lines.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnFetchStart(_ context.Context, id string) {
	h.logger.Debug("fetch start", "id", id)
}

func (h logHooks) OnFetchComplete(_ context.Context, id string, modules int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "id", id, "duration", d, "err", err)
		return
	}
	h.logger.Debug("fetch done", "id", id, "modules", modules, "duration", d)
}

func (h logHooks) OnLayoutStart(_ context.Context, mode string, modules int) {
	h.logger.Debug("layout start", "mode", mode, "modules", modules)
}

func (h logHooks) OnLayoutComplete(_ context.Context, mode string, boxes, conns int, d time.Duration) {
	h.logger.Debug("layout done", "mode", mode, "boxes", boxes, "connectors", conns, "duration", d)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h logHooks) OnSessionCreate(_ context.Context, id, source string) {
	h.logger.Debug("session create", "id", id, "source", source)
}

func (h logHooks) OnSessionAction(_ context.Context, id, action string, d time.Duration, err error) {
	h.logger.Debug("session "+action, "id", id, "duration", d, "err", err)
}

func (h logHooks) OnSessionsExpired(_ context.Context, count int) {
	h.logger.Debug("sessions expired", "count", count)
}
