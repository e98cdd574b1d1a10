package module

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

// ErrInvalidDataset is returned when dataset JSON is not an object of
// modules.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is an ordered, merged collection of modules with derived edges.
type Dataset struct {
	order       []string
	modules     map[string]ModuleInfo
	entrypoints map[string]bool
	entryOrder  []string

	source    EdgeSource
	edges     []Edge
	imports   map[string][]string
	importers map[string][]string
}

// New builds a dataset from entrypoints followed by the remaining modules.
// Modules are keyed by their Path. Every module in entrypoints, and every
// module with IsEntrypoint set, is an entrypoint.
func New(entrypoints, imports []ModuleInfo) *Dataset {
	d := newDataset()
	for _, m := range entrypoints {
		d.add(m.Path, m, true)
	}
	for _, m := range imports {
		d.add(m.Path, m, m.IsEntrypoint)
	}
	d.derive()
	return d
}

func newDataset() *Dataset {
	return &Dataset{
		modules:     make(map[string]ModuleInfo),
		entrypoints: make(map[string]bool),
	}
}

func (d *Dataset) add(path string, m ModuleInfo, entry bool) {
	if m.Path == "" {
		m.Path = path
	}
	if _, ok := d.modules[path]; !ok {
		d.order = append(d.order, path)
	}
	if m.IsEntrypoint {
		entry = true
	}
	if entry && !d.entrypoints[path] {
		d.entrypoints[path] = true
		d.entryOrder = append(d.entryOrder, path)
	}
	m.IsEntrypoint = d.entrypoints[path]
	d.modules[path] = m
}

// derive picks the authoritative edge list and builds both adjacency maps.
func (d *Dataset) derive() {
	d.source = FromImports
	for _, p := range d.order {
		if d.modules[p].Info.Importers != nil {
			d.source = FromImporters
			break
		}
	}

	d.imports = make(map[string][]string)
	d.importers = make(map[string][]string)
	d.edges = nil
	seen := make(map[Edge]bool)
	addEdge := func(e Edge) {
		if seen[e] {
			return
		}
		seen[e] = true
		d.edges = append(d.edges, e)
		d.imports[e.From] = append(d.imports[e.From], e.To)
		d.importers[e.To] = append(d.importers[e.To], e.From)
	}

	for _, p := range d.order {
		m := d.modules[p]
		if d.source == FromImporters {
			for _, imp := range m.Info.Importers {
				addEdge(Edge{From: imp.Path, To: p})
			}
			continue
		}
		for _, target := range m.Info.Imports {
			addEdge(Edge{From: p, To: target})
		}
	}
}

// Len returns the number of modules.
func (d *Dataset) Len() int { return len(d.order) }

// Paths returns module paths in dataset order.
func (d *Dataset) Paths() []string { return slices.Clone(d.order) }

// Entrypoints returns entrypoint paths in the order they were first seen.
func (d *Dataset) Entrypoints() []string { return slices.Clone(d.entryOrder) }

// IsEntrypoint reports whether path is an entrypoint.
func (d *Dataset) IsEntrypoint(path string) bool { return d.entrypoints[path] }

// Module looks up a module by path.
func (d *Dataset) Module(path string) (ModuleInfo, bool) {
	m, ok := d.modules[path]
	return m, ok
}

// Modules returns every module in dataset order.
func (d *Dataset) Modules() []ModuleInfo {
	out := make([]ModuleInfo, 0, len(d.order))
	for _, p := range d.order {
		out = append(out, d.modules[p])
	}
	return out
}

// EdgeSource reports which list the edges were derived from.
func (d *Dataset) EdgeSource() EdgeSource { return d.source }

// Edges returns every distinct importer → imported edge. Edges may refer to
// paths that are not part of the dataset.
func (d *Dataset) Edges() []Edge { return slices.Clone(d.edges) }

// ImportsOf returns the direct imports of path.
func (d *Dataset) ImportsOf(path string) []string { return slices.Clone(d.imports[path]) }

// ImportersOf returns the direct importers of path.
func (d *Dataset) ImportersOf(path string) []string { return slices.Clone(d.importers[path]) }

// ImportCount returns the number of direct imports of path.
func (d *Dataset) ImportCount(path string) int { return len(d.imports[path]) }

// ImporterCount returns the number of direct importers of path.
func (d *Dataset) ImporterCount(path string) int { return len(d.importers[path]) }

// Parse decodes dataset JSON in either the split or the flat layout.
func Parse(data []byte) (*Dataset, error) {
	keys, values, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	d := newDataset()
	if isSplit(keys, values) {
		for _, section := range []string{"entrypoints", "imports"} {
			raw, ok := values[section]
			if !ok {
				continue
			}
			if err := d.addSection(raw, section == "entrypoints"); err != nil {
				return nil, fmt.Errorf("%s: %w", section, err)
			}
		}
	} else {
		for _, k := range keys {
			if err := d.addRaw(k, values[k], false); err != nil {
				return nil, err
			}
		}
	}
	d.derive()
	return d, nil
}

// ReadJSON reads and parses a dataset from r.
func ReadJSON(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (d *Dataset) addSection(raw json.RawMessage, entry bool) error {
	if isNull(raw) {
		return nil
	}
	keys, values, err := decodeObject(raw)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := d.addRaw(k, values[k], entry); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dataset) addRaw(path string, raw json.RawMessage, entry bool) error {
	var m ModuleInfo
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("%w: module %q: %v", ErrInvalidDataset, path, err)
	}
	d.add(path, m, entry)
	return nil
}

func isSplit(keys []string, values map[string]json.RawMessage) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if k != "entrypoints" && k != "imports" {
			return false
		}
		if v := bytes.TrimSpace(values[k]); !isNull(v) && (len(v) == 0 || v[0] != '{') {
			return false
		}
	}
	return true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeObject reads a JSON object keeping its key order.
func decodeObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("%w: expected object", ErrInvalidDataset)
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("%w: expected key", ErrInvalidDataset)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return keys, values, nil
}

// MarshalJSON encodes the dataset in the split layout, preserving order.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"entrypoints":`)
	if err := d.writeSection(&buf, true); err != nil {
		return nil, err
	}
	buf.WriteString(`,"imports":`)
	if err := d.writeSection(&buf, false); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Dataset) writeSection(buf *bytes.Buffer, entry bool) error {
	buf.WriteByte('{')
	first := true
	for _, p := range d.order {
		if d.entrypoints[p] != entry {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(p)
		if err != nil {
			return err
		}
		v, err := json.Marshal(d.modules[p])
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON decodes either layout into d.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}
