// Package modbox renders a single module as a labeled box.
package modbox

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/matzehuels/importviz/pkg/canvas"
	"github.com/matzehuels/importviz/pkg/geometry"
	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/shape"
)

// DefaultEntrypointColor is the background applied to entrypoint boxes.
const DefaultEntrypointColor = "#f00"

type options struct {
	importers, imports int
	hasCounts          bool
	entrypoint         bool
	entrypointColor    string
	showContent        bool
}

// Option configures a ModuleBox.
type Option func(*options)

// WithCounts overrides the importer and import counts shown in the info
// label. By default the lengths of the module's own lists are used.
func WithCounts(importers, imports int) Option {
	return func(o *options) {
		o.importers, o.imports, o.hasCounts = importers, imports, true
	}
}

// WithEntrypoint marks the module as an entrypoint.
func WithEntrypoint(entry bool) Option { return func(o *options) { o.entrypoint = entry } }

// WithEntrypointColor sets the entrypoint background.
func WithEntrypointColor(color string) Option {
	return func(o *options) { o.entrypointColor = color }
}

// WithShowContent chooses between the full box and the label-only box.
func WithShowContent(show bool) Option { return func(o *options) { o.showContent = show } }

// ModuleBox is a BoxContainer labeled with a module's display name around a
// text box holding its info.
type ModuleBox struct {
	*shape.BoxContainer

	info       module.ModuleInfo
	infoBox    *shape.TextBox
	name       string
	entrypoint bool

	showContent bool
	full        geometry.Dimension
	compact     geometry.Dimension
}

// New builds the box for info with its info text anchored at pos.
func New(m canvas.Measurer, pos geometry.Location, info module.ModuleInfo, opts ...Option) *ModuleBox {
	o := options{
		entrypointColor: DefaultEntrypointColor,
		showContent:     true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasCounts {
		o.importers, o.imports = len(info.Info.Importers), len(info.Info.Imports)
	}

	entry := o.entrypoint || info.IsEntrypoint
	var boxOpts []shape.BoxOption
	if entry {
		boxOpts = append(boxOpts, shape.WithBackground(o.entrypointColor))
	}

	name := DisplayName(info.Path)
	infoBox := shape.NewTextBox(m, pos, InfoLabel(info, o.importers, o.imports))
	c := shape.NewBoxContainer(m, []shape.Shape{infoBox}, name, boxOpts...)

	b := &ModuleBox{
		BoxContainer: c,
		info:         info,
		infoBox:      infoBox,
		name:         name,
		entrypoint:   entry,
		full:         c.Dimensions(),
		compact: geometry.Dimension{
			Width:  c.TextWidth() + 4*c.LineHeight(),
			Height: c.TextHeight() + c.LineHeight(),
		},
	}
	b.SetShowContent(o.showContent)
	return b
}

// Info returns the module this box renders.
func (b *ModuleBox) Info() module.ModuleInfo { return b.info }

// Path returns the module path.
func (b *ModuleBox) Path() string { return b.info.Path }

// Name returns the display name drawn as the label.
func (b *ModuleBox) Name() string { return b.name }

// IsEntrypoint reports whether the box is highlighted as an entrypoint.
func (b *ModuleBox) IsEntrypoint() bool { return b.entrypoint }

// InfoBox returns the wrapped info text box.
func (b *ModuleBox) InfoBox() *shape.TextBox { return b.infoBox }

// ShowContent reports whether the info text is drawn.
func (b *ModuleBox) ShowContent() bool { return b.showContent }

// SetShowContent switches between the full and the label-only size.
// Vertices are recomputed immediately.
func (b *ModuleBox) SetShowContent(show bool) {
	b.showContent = show
	b.SetShowInner(show)
	if show {
		b.SetDimensions(b.full)
	} else {
		b.SetDimensions(b.compact)
	}
}

type infoLabel struct {
	IsLocal   bool
	IsDir     bool
	Importers int
	Imports   int
}

// InfoLabel formats the info text of a module box.
func InfoLabel(info module.ModuleInfo, importers, imports int) string {
	data, err := json.MarshalIndent(infoLabel{
		IsLocal:   info.IsLocal,
		IsDir:     info.Info.IsDir,
		Importers: importers,
		Imports:   imports,
	}, "", "    ")
	if err != nil {
		return ""
	}
	return string(data)
}

// DisplayName returns the label shown for a module path: the last path
// segment, or "<dir>/" when that segment is an index file.
func DisplayName(p string) string {
	segs := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	if len(segs) == 0 {
		return p
	}
	last := segs[len(segs)-1]
	if len(segs) > 1 && strings.TrimSuffix(last, path.Ext(last)) == "index" && path.Ext(last) != "" {
		return segs[len(segs)-2] + "/"
	}
	return last
}
