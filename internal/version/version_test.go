package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	if Info() == "" {
		t.Error("Info should never be empty")
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.Contains(full, Version) {
		t.Errorf("Full() should contain the version, got: %s", full)
	}
	if !strings.Contains(full, "Commit:") {
		t.Errorf("Full() should contain the commit line, got: %s", full)
	}
}
