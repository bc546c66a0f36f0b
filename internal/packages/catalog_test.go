package packages

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const catalogTOML = `[versions]
jackson = "2.15.2"

[libraries]
jackson-core = { module = "com.fasterxml.jackson.core:jackson-core", version.ref = "jackson" }
guava = { module = "com.google.guava:guava", version = "32.1.2-jre" }
slf4j = { group = "org.slf4j", name = "slf4j-api", version = "2.0.9" }
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "gradle")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "libs.versions.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadCatalogMissing(t *testing.T) {
	catalog, err := LoadCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if catalog != nil {
		t.Error("missing catalog should load as nil")
	}
}

func TestLoadCatalogMalformed(t *testing.T) {
	root := writeCatalog(t, "[versions\nbroken")
	if _, err := LoadCatalog(root); err == nil {
		t.Error("expected a parse error")
	}
}

func TestVersionOf(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t, catalogTOML))
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	tests := []struct {
		name     string
		group    string
		artifact string
		want     string
	}{
		{"version ref", "com.fasterxml.jackson.core", "jackson-core", "2.15.2"},
		{"inline version", "com.google.guava", "guava", "32.1.2-jre"},
		{"group and name form", "org.slf4j", "slf4j-api", "2.0.9"},
		{"unknown module", "org.nowhere", "missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := catalog.VersionOf(tt.group, tt.artifact); got != tt.want {
				t.Errorf("VersionOf(%q, %q) = %q, want %q", tt.group, tt.artifact, got, tt.want)
			}
		})
	}
}

func TestVersionOfNilCatalog(t *testing.T) {
	var catalog *Catalog
	if got := catalog.VersionOf("a", "b"); got != "" {
		t.Errorf("VersionOf() on nil catalog = %q, want empty", got)
	}
}

func TestModules(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t, catalogTOML))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"com.fasterxml.jackson.core:jackson-core",
		"com.google.guava:guava",
		"org.slf4j:slf4j-api",
	}
	if got := catalog.Modules(); !reflect.DeepEqual(got, want) {
		t.Errorf("Modules() = %v, want %v", got, want)
	}
}
