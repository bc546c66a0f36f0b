package emitter

import (
	"sync"

	"jxref/internal/errors"
	"jxref/internal/logging"
	"jxref/internal/lsif"
	"jxref/internal/storage"
)

// SQLite persists the element stream into a graph database alongside,
// or instead of, the JSON dump.
type SQLite struct {
	mu    sync.Mutex
	db    *storage.DB
	store *storage.GraphStore
}

// OpenSQLite opens the graph database at path and returns an emitter
// feeding it
func OpenSQLite(path string, logger *logging.Logger) (*SQLite, error) {
	db, err := storage.Open(path, logger)
	if err != nil {
		return nil, errors.New(errors.EmitFailed, "open graph database", err)
	}
	return &SQLite{db: db, store: storage.NewGraphStore(db)}, nil
}

// Emit inserts one element
func (e *SQLite) Emit(el lsif.Element) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Insert(el); err != nil {
		return errors.New(errors.EmitFailed, "insert graph element", err)
	}
	return nil
}

// Close closes the database
func (e *SQLite) Close() error {
	return e.db.Close()
}

// Tee fans every element out to several emitters, failing on the first
// error.
type Tee struct {
	emitters []Emitter
}

// NewTee combines emitters
func NewTee(emitters ...Emitter) *Tee {
	return &Tee{emitters: emitters}
}

// Emit forwards to every emitter
func (t *Tee) Emit(el lsif.Element) error {
	for _, e := range t.emitters {
		if err := e.Emit(el); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every emitter, returning the first error
func (t *Tee) Close() error {
	var first error
	for _, e := range t.emitters {
		if err := e.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
