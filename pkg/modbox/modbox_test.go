package modbox

import (
	"strings"
	"testing"

	"github.com/matzehuels/importviz/pkg/canvas/canvastest"
	"github.com/matzehuels/importviz/pkg/geometry"
	"github.com/matzehuels/importviz/pkg/module"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/components/Button.tsx", "Button.tsx"},
		{"src/components/index.ts", "components/"},
		{"src/components/", "components"},
		{"index.js", "index.js"},
		{"react", "react"},
		{"src/indexer.ts", "indexer.ts"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DisplayName(tt.path); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestInfoLabel(t *testing.T) {
	info := module.ModuleInfo{IsLocal: true, Info: module.Info{IsDir: false}}
	want := "{\n    \"IsLocal\": true,\n    \"IsDir\": false,\n    \"Importers\": 2,\n    \"Imports\": 3\n}"
	if got := InfoLabel(info, 2, 3); got != want {
		t.Errorf("InfoLabel =\n%s\nwant\n%s", got, want)
	}
}

func TestNewDefaults(t *testing.T) {
	rec := canvastest.New(500, 500)
	info := module.ModuleInfo{
		Path: "src/a.ts",
		Info: module.Info{Imports: []string{"x", "y"}, Importers: []module.Importer{{Path: "z"}}},
	}
	b := New(rec, geometry.Location{X: 50, Y: 50}, info)

	if b.Name() != "a.ts" {
		t.Errorf("Name = %q", b.Name())
	}
	if !strings.Contains(b.InfoBox().Text(), `"Importers": 1`) || !strings.Contains(b.InfoBox().Text(), `"Imports": 2`) {
		t.Errorf("counts not taken from lists: %s", b.InfoBox().Text())
	}
	if b.IsEntrypoint() || b.Background() != "" {
		t.Error("non-entrypoint highlighted")
	}
	if !b.ShowContent() {
		t.Error("content hidden by default")
	}
}

func TestEntrypointAndCounts(t *testing.T) {
	rec := canvastest.New(500, 500)
	b := New(rec, geometry.Location{}, module.ModuleInfo{Path: "a"}, WithEntrypoint(true), WithCounts(7, 9))
	if b.Background() != DefaultEntrypointColor {
		t.Errorf("Background = %q", b.Background())
	}
	if !strings.Contains(b.InfoBox().Text(), `"Importers": 7`) {
		t.Errorf("count override ignored: %s", b.InfoBox().Text())
	}

	b = New(rec, geometry.Location{}, module.ModuleInfo{Path: "a", IsEntrypoint: true}, WithEntrypointColor("#0f0"))
	if b.Background() != "#0f0" {
		t.Errorf("Background = %q", b.Background())
	}
}

func TestShowContentToggle(t *testing.T) {
	rec := canvastest.New(500, 500)
	b := New(rec, geometry.Location{X: 100, Y: 100}, module.ModuleInfo{Path: "lib/mod.go"})
	full := b.Dimensions()

	b.SetShowContent(false)
	l := canvastest.CharWidth
	want := geometry.Dimension{Width: b.TextWidth() + 4*l, Height: b.TextHeight() + l}
	if b.Dimensions() != want {
		t.Errorf("compact = %v, want %v", b.Dimensions(), want)
	}
	if v := b.Vertices(); v[3] != b.Position().Add(want.Width, want.Height) {
		t.Errorf("vertices not recomputed: %v", v)
	}

	rec.Reset()
	b.Draw(rec)
	if texts := rec.Texts(); len(texts) != 1 || texts[0] != "mod.go" {
		t.Errorf("compact draw texts = %v", texts)
	}

	b.SetShowContent(true)
	if b.Dimensions() != full {
		t.Errorf("full = %v, want %v", b.Dimensions(), full)
	}
	rec.Reset()
	b.Draw(rec)
	if texts := rec.Texts(); len(texts) != 7 {
		t.Errorf("full draw drew %d lines, want 7", len(texts))
	}
}

func TestNewWithCompact(t *testing.T) {
	rec := canvastest.New(500, 500)
	b := New(rec, geometry.Location{}, module.ModuleInfo{Path: "a"}, WithShowContent(false))
	if b.ShowContent() || b.ShowInner() {
		t.Error("WithShowContent(false) ignored")
	}
}
