package render

import (
	"fmt"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// Type is a visualization style.
type Type string

const (
	// TypeCanvas is the box-and-arrow canvas drawn by the controller.
	TypeCanvas Type = "canvas"
	// TypeNodelink is a Graphviz node-link diagram of the placed modules.
	TypeNodelink Type = "nodelink"
)

// Formats lists every Format.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatSVG, FormatPNG, FormatDOT:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want svg, png or dot)", s)
}

// ParseType parses a visualization type. The empty string means canvas.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case "", TypeCanvas:
		return TypeCanvas, nil
	case TypeNodelink:
		return t, nil
	}
	return "", fmt.Errorf("unknown visualization type %q (want canvas or nodelink)", s)
}

// Validate reports whether f can be produced for t. DOT is only meaningful
// for node-link diagrams.
func Validate(t Type, f Format) error {
	if f == FormatDOT && t != TypeNodelink {
		return fmt.Errorf("format dot requires type nodelink")
	}
	if f == FormatPNG && t == TypeNodelink {
		return fmt.Errorf("format png is not supported for nodelink diagrams")
	}
	return nil
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}
