// Package export post-processes an emitted dump: conversion to SCIP and
// graph summaries. It works on the serialized form, not live run state,
// so it can run long after the indexing process exited.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"jxref/internal/errors"
	"jxref/internal/lsif"
)

// Element is one dump line in flattened form. Every vertex and edge kind
// shares this shape; absent fields stay zero.
type Element struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`

	// document
	URI string `json:"uri,omitempty"`

	// range
	Start *lsif.Position `json:"start,omitempty"`
	End   *lsif.Position `json:"end,omitempty"`

	// moniker
	Scheme     string `json:"scheme,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Kind       string `json:"kind,omitempty"`

	// packageInformation
	Name    string `json:"name,omitempty"`
	Manager string `json:"manager,omitempty"`
	Version string `json:"version,omitempty"`

	// metaData
	ProjectRoot string         `json:"projectRoot,omitempty"`
	ToolInfo    *lsif.ToolInfo `json:"toolInfo,omitempty"`

	// edges
	OutV     int64   `json:"outV,omitempty"`
	InV      int64   `json:"inV,omitempty"`
	InVs     []int64 `json:"inVs,omitempty"`
	Document int64   `json:"document,omitempty"`
	Property string  `json:"property,omitempty"`
}

// Targets collects both single and multi edge endpoints
func (e *Element) Targets() []int64 {
	if e.InV != 0 {
		return []int64{e.InV}
	}
	return e.InVs
}

// ReadDump parses a JSON-lines dump at path. A .gz suffix selects
// transparent decompression.
func ReadDump(path string) ([]Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.SourceUnreadable, fmt.Sprintf("open dump %s", path), err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.New(errors.SourceUnreadable, fmt.Sprintf("decompress dump %s", path), err)
		}
		defer zr.Close()
		r = zr
	}

	return readElements(r)
}

func readElements(r io.Reader) ([]Element, error) {
	var elements []Element
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var el Element
		if err := json.Unmarshal([]byte(raw), &el); err != nil {
			return nil, errors.New(errors.SourceUnreadable, fmt.Sprintf("parse dump line %d", line), err)
		}
		elements = append(elements, el)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(errors.SourceUnreadable, "read dump", err)
	}
	return elements, nil
}
