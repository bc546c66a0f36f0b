// Package emitter turns the append-only stream of graph elements into a
// persisted representation. The enlist contracts upstream guarantee no
// element is ever emitted twice.
package emitter

import (
	"sync"

	"jxref/internal/lsif"
)

// Emitter consumes vertex and edge creation events
type Emitter interface {
	Emit(el lsif.Element) error
	Close() error
}

// Collector is an in-memory emitter used by tests and by exporters that
// post-process the whole graph.
type Collector struct {
	mu       sync.Mutex
	elements []lsif.Element
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Emit appends the element
func (c *Collector) Emit(el lsif.Element) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements = append(c.elements, el)
	return nil
}

// Close is a no-op
func (c *Collector) Close() error { return nil }

// Elements returns a snapshot of everything emitted so far
func (c *Collector) Elements() []lsif.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]lsif.Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Count returns how many emitted elements match the given type and label.
// Vertex and edge labels overlap for monikers, so both are needed.
func (c *Collector) Count(typ lsif.ElementType, label lsif.Label) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, el := range c.elements {
		if el.Type() == typ && el.ElementLabel() == label {
			n++
		}
	}
	return n
}
