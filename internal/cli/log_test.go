package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("loaded", "modules", 3) }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("reveal") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("reveal") }, true},
		{"warn at info", log.InfoLevel, func(l *log.Logger) { l.Warn("edge skipped") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestCLISetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.Logger.Debug("hidden")
	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("log output = %q", out)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Rendered deps.json")

	if !strings.Contains(buf.String(), "Rendered deps.json") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"attached", withLogger(context.Background(), custom), custom},
		{"nil logger ignored", withLogger(context.Background(), nil), nil},
		{"empty context", context.Background(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loggerFromContext(tt.ctx)
			if got == nil {
				t.Fatal("loggerFromContext returned nil")
			}
			if tt.want != nil && got != tt.want {
				t.Error("loggerFromContext did not return the attached logger")
			}
		})
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnFetchStart(ctx, "graph.json")
	h.OnFetchComplete(ctx, "graph.json", 4, time.Millisecond, nil)
	h.OnLayoutComplete(ctx, "collapsed", 3, 2, time.Millisecond)
	h.OnCacheHit(ctx, "artifact")
	h.OnResponse(ctx, "GET", "example.com", "/graph.json", 200, time.Millisecond)
	h.OnSessionAction(ctx, "s1", "click", time.Millisecond, nil)

	for _, want := range []string{"fetch start", "fetch done", "modules=4", "layout done", "cache hit", "status=200", "session click"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("log output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{newLogger(&buf, log.InfoLevel)}
	h.OnCacheMiss(context.Background(), "dataset")
	if buf.Len() != 0 {
		t.Errorf("hooks should log at debug level only, got %q", buf.String())
	}
}
