package render

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{" PNG ", FormatPNG, false},
		{"dot", FormatDOT, false},
		{"pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if got, err := ParseType(""); err != nil || got != TypeCanvas {
		t.Errorf("ParseType(\"\") = %q, %v", got, err)
	}
	if got, err := ParseType("NodeLink"); err != nil || got != TypeNodelink {
		t.Errorf("ParseType(NodeLink) = %q, %v", got, err)
	}
	if _, err := ParseType("tower"); err == nil {
		t.Error("ParseType(tower) succeeded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		typ     Type
		format  Format
		wantErr bool
	}{
		{TypeCanvas, FormatSVG, false},
		{TypeCanvas, FormatPNG, false},
		{TypeCanvas, FormatDOT, true},
		{TypeNodelink, FormatSVG, false},
		{TypeNodelink, FormatDOT, false},
		{TypeNodelink, FormatPNG, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+string(tt.format), func(t *testing.T) {
			if err := Validate(tt.typ, tt.format); (err != nil) != tt.wantErr {
				t.Errorf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	if FormatSVG.ContentType() != "image/svg+xml" || FormatPNG.ContentType() != "image/png" {
		t.Error("unexpected content types")
	}
}
