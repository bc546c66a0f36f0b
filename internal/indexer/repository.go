// Package indexer contains the graph-construction core: the entity
// repository that deduplicates vertices, the per-symbol record that
// accumulates edges, and the occurrence resolver that ties them together.
package indexer

import (
	"sync"

	"jxref/internal/emitter"
	"jxref/internal/logging"
	"jxref/internal/lsif"
)

// Repository is the single source of truth for entity identity within one
// indexing run. Every vertex is created and emitted through an enlist
// operation exactly once, no matter how many occurrences discover it.
//
// One coarse mutex covers each check-create-emit unit. Entity creation is
// cheap next to semantic resolution, so dedup correctness is worth far
// more here than fine-grained parallelism.
type Repository struct {
	mu      sync.Mutex
	builder *lsif.Builder
	emit    emitter.Emitter
	logger  *logging.Logger

	documents map[string]*lsif.Document
	openDocs  map[string]*lsif.Document
	ranges    map[string]map[lsif.Span]*lsif.Range
	symbols   map[string]*SymbolData
	hoverOnly map[int64]*lsif.ResultSet

	importPackages  map[string]*lsif.PackageInformation
	exportPackages  map[string]*lsif.PackageInformation
	emittedPackages map[string]bool
}

// NewRepository creates an empty repository bound to one run's builder and
// emitter. Lifetime is one indexing run, never process-wide.
func NewRepository(builder *lsif.Builder, emit emitter.Emitter, logger *logging.Logger) *Repository {
	return &Repository{
		builder:         builder,
		emit:            emit,
		logger:          logger,
		documents:       map[string]*lsif.Document{},
		openDocs:        map[string]*lsif.Document{},
		ranges:          map[string]map[lsif.Span]*lsif.Range{},
		symbols:         map[string]*SymbolData{},
		hoverOnly:       map[int64]*lsif.ResultSet{},
		importPackages:  map[string]*lsif.PackageInformation{},
		exportPackages:  map[string]*lsif.PackageInformation{},
		emittedPackages: map[string]bool{},
	}
}

// Builder exposes the run's element builder
func (r *Repository) Builder() *lsif.Builder { return r.builder }

// EnlistDocument returns the document for uri, creating and emitting it on
// first sight: the vertex, a begin event, and a containment edge from the
// owning project. The document stays open until CloseAll.
func (r *Repository) EnlistDocument(project *lsif.Project, uri string) (*lsif.Document, error) {
	uri = NormalizeURI(uri)

	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.documents[uri]; ok {
		return doc, nil
	}

	doc := r.builder.Document(uri)
	if err := r.emit.Emit(doc); err != nil {
		return nil, err
	}
	if err := r.emit.Emit(r.builder.Event(lsif.DocumentScope, lsif.BeginEvent, doc.ID())); err != nil {
		return nil, err
	}
	if err := r.emit.Emit(r.builder.Contains(project.ID(), doc.ID())); err != nil {
		return nil, err
	}

	r.documents[uri] = doc
	r.openDocs[uri] = doc
	return doc, nil
}

// EnlistRange returns the range for (document, span), creating and
// emitting it with its containment edge on first sight. Uniqueness is
// scoped per document.
func (r *Repository) EnlistRange(doc *lsif.Document, span lsif.Span) (*lsif.Range, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	spans, ok := r.ranges[doc.URI]
	if !ok {
		spans = map[lsif.Span]*lsif.Range{}
		r.ranges[doc.URI] = spans
	}
	if rng, ok := spans[span]; ok {
		return rng, nil
	}

	rng := r.builder.Range(span)
	if err := r.emit.Emit(rng); err != nil {
		return nil, err
	}
	if err := r.emit.Emit(r.builder.Contains(doc.ID(), rng.ID())); err != nil {
		return nil, err
	}

	spans[span] = rng
	return rng, nil
}

// EnlistSymbolData returns the symbol record for a definition key,
// creating an empty one on first sight. No edges are emitted here; the
// record accumulates them as occurrences resolve.
//
// Two distinct declarations sharing one definition location are not
// structurally prevented; the record keeps the first document and project
// it was enlisted under (first-writer-wins).
func (r *Repository) EnlistSymbolData(key string, doc *lsif.Document, project *lsif.Project) *SymbolData {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sd, ok := r.symbols[key]; ok {
		return sd
	}

	sd := newSymbolData(project, doc)
	r.symbols[key] = sd
	return sd
}

// EnlistHoverResultSet returns the standalone result set of a range whose
// occurrence carries hover text but no definition location. On first
// sight the result set and its next edge are created and emitted; a range
// holds at most one next edge, so repeats reuse the record. created tells
// the caller whether the hover annotation still needs emitting.
func (r *Repository) EnlistHoverResultSet(rng *lsif.Range) (resultSet *lsif.ResultSet, created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rs, ok := r.hoverOnly[rng.ID()]; ok {
		return rs, false, nil
	}

	rs := r.builder.ResultSet()
	if err := r.emit.Emit(rs); err != nil {
		return nil, false, err
	}
	if err := r.emit.Emit(r.builder.Next(rng.ID(), rs.ID())); err != nil {
		return nil, false, err
	}

	r.hoverOnly[rng.ID()] = rs
	return rs, true, nil
}

// EnlistImportPackage returns the import-direction package descriptor for
// an identity key, registering a new vertex when unseen. Managers outside
// the recognized set yield nil: no resolvable package identity. The vertex
// is not emitted here; MarkPackageEmitted guards emission.
func (r *Repository) EnlistImportPackage(key, name string, manager lsif.PackageManager, version, url string) *lsif.PackageInformation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pkg, ok := r.importPackages[key]; ok {
		return pkg
	}

	var pkg *lsif.PackageInformation
	switch manager {
	case lsif.Maven, lsif.Gradle:
		pkg = r.builder.PackageInformation(name, manager, version, url)
	case lsif.JDK:
		pkg = r.builder.PackageInformation(name, manager, version, "")
	default:
		return nil
	}

	r.importPackages[key] = pkg
	return pkg
}

// EnlistExportPackage is EnlistImportPackage for the export direction.
// The same logical package may hold one descriptor per direction.
func (r *Repository) EnlistExportPackage(key, name string, manager lsif.PackageManager, version, url string) *lsif.PackageInformation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pkg, ok := r.exportPackages[key]; ok {
		return pkg
	}

	var pkg *lsif.PackageInformation
	switch manager {
	case lsif.Maven:
		pkg = r.builder.PackageInformation(name, manager, version, url)
	case lsif.Gradle:
		pkg = r.builder.PackageInformation(name, manager, version, "")
	default:
		return nil
	}

	r.exportPackages[key] = pkg
	return pkg
}

// MarkPackageEmitted reports whether the identity was already marked
// emitted, marking it when not. This is the single authority keeping a
// package descriptor from reaching the graph twice.
func (r *Repository) MarkPackageEmitted(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emittedPackages[key] {
		return true
	}
	r.emittedPackages[key] = true
	return false
}

// CloseAll emits end events for every document still open and clears the
// open set. Called once at the end of a run.
func (r *Repository) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for uri, doc := range r.openDocs {
		if err := r.emit.Emit(r.builder.Event(lsif.DocumentScope, lsif.EndEvent, doc.ID())); err != nil {
			return err
		}
		delete(r.openDocs, uri)
	}
	return nil
}
