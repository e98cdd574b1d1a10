package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	prev := Version
	Version = "v9.9.9"
	defer func() { Version = prev }()

	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v9.9.9\n") {
		t.Errorf("Template() = %q", got)
	}
	if got := UserAgent(); got != "importviz/v9.9.9" {
		t.Errorf("UserAgent() = %q", got)
	}
}
