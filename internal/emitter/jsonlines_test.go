package emitter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"jxref/internal/lsif"
)

func TestJSONLinesWritesOneLinePerElement(t *testing.T) {
	var buf bytes.Buffer
	e := NewJSONLines(&buf)

	b := lsif.NewBuilder()
	doc := b.Document("file:///src/A.java")
	rng := b.Range(lsif.Span{Start: lsif.Position{Line: 1, Character: 2}, End: lsif.Position{Line: 1, Character: 5}})
	for _, el := range []lsif.Element{doc, rng, b.Contains(doc.ID(), rng.ID())} {
		if err := e.Emit(el); err != nil {
			t.Fatalf("Emit() error = %v", err)
		}
	}

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]interface{}
	for scanner.Scan() {
		var decoded map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", len(lines), err)
		}
		lines = append(lines, decoded)
	}
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}

	if lines[0]["label"] != "document" || lines[0]["uri"] != "file:///src/A.java" {
		t.Errorf("document line = %v", lines[0])
	}
	if lines[1]["label"] != "range" {
		t.Errorf("range line = %v", lines[1])
	}
	if lines[2]["type"] != "edge" || lines[2]["label"] != "contains" {
		t.Errorf("contains line = %v", lines[2])
	}
}

func TestOpenFileGzipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.lsif.gz")
	e, err := OpenFile(path, true)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}

	b := lsif.NewBuilder()
	if err := e.Emit(b.Document("file:///src/A.java")); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("output is not valid gzip: %v", err)
	}
	defer zr.Close()

	var decoded struct {
		Label string `json:"label"`
		URI   string `json:"uri"`
	}
	if err := json.NewDecoder(zr).Decode(&decoded); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if decoded.Label != "document" || decoded.URI != "file:///src/A.java" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestCollectorCount(t *testing.T) {
	c := NewCollector()
	b := lsif.NewBuilder()
	rs := b.ResultSet()
	m := b.Moniker(lsif.ExportMoniker, "jxref", "com.acme.Foo")
	for _, el := range []lsif.Element{rs, m, b.MonikerEdge(rs.ID(), m.ID())} {
		if err := c.Emit(el); err != nil {
			t.Fatal(err)
		}
	}

	// Moniker vertex and moniker edge share one label string.
	if n := c.Count(lsif.VertexElement, lsif.LabelMoniker); n != 1 {
		t.Errorf("moniker vertices = %d, want 1", n)
	}
	if n := c.Count(lsif.EdgeElement, lsif.LabelMonikerEdge); n != 1 {
		t.Errorf("moniker edges = %d, want 1", n)
	}
}

func TestTeeFansOut(t *testing.T) {
	a := NewCollector()
	bc := NewCollector()
	tee := NewTee(a, bc)

	b := lsif.NewBuilder()
	if err := tee.Emit(b.ResultSet()); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if err := tee.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if len(a.Elements()) != 1 || len(bc.Elements()) != 1 {
		t.Errorf("fan-out counts = %d, %d, want 1, 1", len(a.Elements()), len(bc.Elements()))
	}
}
