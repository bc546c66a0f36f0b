package emitter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"

	"jxref/internal/errors"
	"jxref/internal/lsif"
)

// JSONLines writes one JSON element per line, the standard LSIF dump
// format. Output is optionally gzip-compressed.
type JSONLines struct {
	mu     sync.Mutex
	out    io.Writer
	closer []io.Closer
	enc    *json.Encoder
}

// NewJSONLines creates an emitter writing to w
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{out: w, enc: json.NewEncoder(w)}
}

// OpenFile creates a JSON-lines emitter writing to path. When gzipped is
// set the stream is compressed and the file should carry a .gz suffix.
func OpenFile(path string, gzipped bool) (*JSONLines, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.New(errors.EmitFailed, fmt.Sprintf("create dump file %s", path), err)
	}

	e := &JSONLines{closer: []io.Closer{f}}
	if gzipped {
		zw := gzip.NewWriter(f)
		// gzip writer closes before the file it wraps
		e.closer = []io.Closer{zw, f}
		e.out = zw
	} else {
		e.out = f
	}
	e.enc = json.NewEncoder(e.out)
	return e, nil
}

// Emit writes one element as a JSON line
func (e *JSONLines) Emit(el lsif.Element) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(el); err != nil {
		return errors.New(errors.EmitFailed, "encode graph element", err)
	}
	return nil
}

// Close flushes and closes the underlying writers
func (e *JSONLines) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.closer {
		if err := c.Close(); err != nil {
			return errors.New(errors.EmitFailed, "close dump output", err)
		}
	}
	return nil
}
