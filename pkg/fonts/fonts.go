// Package fonts provides the font used to measure and draw module labels.
//
// The Go Regular TrueType font ships with golang.org/x/image, so both the
// SVG and the raster surfaces measure text with identical metrics and no
// system fonts are required.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family written into SVG output.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers without the Go font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// DefaultSize is the default font size in points (72 DPI, so also pixels).
const DefaultSize = 12.0

var (
	parsed     *opentype.Font
	parseErr   error
	parseOnce  sync.Once
	faceMu     sync.Mutex
	faceBySize = map[float64]font.Face{}
)

// GoRegularTTF returns the raw TTF bytes.
func GoRegularTTF() []byte {
	return goregular.TTF
}

// Face returns a Go Regular face at size points. Faces are cached per size.
func Face(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultSize
	}
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("parse font: %w", parseErr)
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceBySize[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	faceBySize[size] = f
	return f, nil
}

// Measure returns the advance width of text in face, in pixels.
func Measure(face font.Face, text string) float64 {
	return float64(font.MeasureString(face, text)) / 64
}
