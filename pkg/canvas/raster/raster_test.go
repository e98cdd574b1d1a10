package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#000", color.NRGBA{0, 0, 0, 255}, false},
		{"#ff0", color.NRGBA{255, 255, 0, 255}, false},
		{"#102030", color.NRGBA{16, 32, 48, 255}, false},
		{"#10203080", color.NRGBA{16, 32, 48, 128}, false},
		{"red", color.NRGBA{}, true},
		{"#12", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFillRectPaintsPixels(t *testing.T) {
	s, err := New(20, 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetFillStyle("#ff0000")
	s.BeginPath()
	s.Rect(5, 5, 10, 10)
	s.Fill()

	r, g, b, _ := s.Image().At(10, 10).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("pixel inside rect = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = s.Image().At(1, 1).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("pixel outside rect = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestClearRect(t *testing.T) {
	s, err := New(10, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.BeginPath()
	s.Rect(0, 0, 10, 10)
	s.Fill()
	s.ClearRect(0, 0, s.Width(), s.Height())

	r, g, b, _ := s.Image().At(5, 5).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("cleared pixel = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestResizeAndEncode(t *testing.T) {
	s, err := New(10, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Resize(30, 40)
	if s.Width() != 30 || s.Height() != 40 {
		t.Errorf("size = %vx%v, want 30x40", s.Width(), s.Height())
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 40 {
		t.Errorf("decoded bounds = %v", b)
	}
}
