package indexer

import (
	"context"
	"sync"

	"jxref/internal/lsif"
	"jxref/internal/semantic"
)

// SymbolData aggregates the graph state of one uniquely-defined symbol.
// One record exists per defining location; every occurrence resolving to
// that location mutates the same record. Each edge kind is attached at
// most once, so re-resolving an occurrence never duplicates edges.
type SymbolData struct {
	mu sync.Mutex

	project  *lsif.Project
	document *lsif.Document

	resultSet    *lsif.ResultSet
	linkedRanges map[int64]bool

	definitionResolved bool
	typeDefResolved    bool
	implResolved       bool
	hoverResolved      bool
	monikerAttached    bool

	referenceResult  *lsif.ReferenceResult
	referencedRanges map[int64]bool
}

func newSymbolData(project *lsif.Project, document *lsif.Document) *SymbolData {
	return &SymbolData{
		project:          project,
		document:         document,
		linkedRanges:     map[int64]bool{},
		referencedRanges: map[int64]bool{},
	}
}

// EnsureResultSet creates the record's shared result set on first call
// and links the given range to it. Linking is idempotent per range.
func (s *SymbolData) EnsureResultSet(r *Repository, sourceRange *lsif.Range) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resultSet == nil {
		rs := r.builder.ResultSet()
		if err := r.emit.Emit(rs); err != nil {
			return err
		}
		s.resultSet = rs
	}

	if s.linkedRanges[sourceRange.ID()] {
		return nil
	}
	if err := r.emit.Emit(r.builder.Next(sourceRange.ID(), s.resultSet.ID())); err != nil {
		return err
	}
	s.linkedRanges[sourceRange.ID()] = true
	return nil
}

// ResolveDefinition attaches the definition edge once, pointing the
// result set at the defining range.
func (s *SymbolData) ResolveDefinition(r *Repository, def *semantic.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.definitionResolved || s.resultSet == nil {
		return nil
	}

	defDoc, err := r.EnlistDocument(s.project, def.URI)
	if err != nil {
		return err
	}
	defRange, err := r.EnlistRange(defDoc, def.Span)
	if err != nil {
		return err
	}

	result := r.builder.DefinitionResult()
	if err := r.emit.Emit(result); err != nil {
		return err
	}
	if err := r.emit.Emit(r.builder.DefinitionEdge(s.resultSet.ID(), result.ID())); err != nil {
		return err
	}
	if err := r.emit.Emit(r.builder.Item(result.ID(), defDoc.ID(), "", defRange.ID())); err != nil {
		return err
	}

	s.definitionResolved = true
	return nil
}

// ResolveTypeDefinition attaches the type-definition edge once. Absence
// of a type-definition target still marks the record resolved so the
// query is not repeated per occurrence.
func (s *SymbolData) ResolveTypeDefinition(ctx context.Context, r *Repository, analyzer semantic.Analyzer, doc *lsif.Document, span lsif.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typeDefResolved || s.resultSet == nil {
		return nil
	}
	s.typeDefResolved = true

	loc, err := analyzer.TypeDefinitionOf(ctx, doc.URI, span)
	if err != nil || loc == nil {
		return err
	}

	typeDoc, err := r.EnlistDocument(s.project, loc.URI)
	if err != nil {
		return err
	}
	typeRange, err := r.EnlistRange(typeDoc, loc.Span)
	if err != nil {
		return err
	}

	result := r.builder.TypeDefinitionResult()
	if err := r.emit.Emit(result); err != nil {
		return err
	}
	if err := r.emit.Emit(r.builder.TypeDefinitionEdge(s.resultSet.ID(), result.ID())); err != nil {
		return err
	}
	return r.emit.Emit(r.builder.Item(result.ID(), typeDoc.ID(), "", typeRange.ID()))
}

// ResolveImplementation attaches the implementation edge once, linking
// every overriding or implementing location known to the engine.
func (s *SymbolData) ResolveImplementation(ctx context.Context, r *Repository, analyzer semantic.Analyzer, doc *lsif.Document, span lsif.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.implResolved || s.resultSet == nil {
		return nil
	}
	s.implResolved = true

	locs, err := analyzer.ImplementationsOf(ctx, doc.URI, span)
	if err != nil || len(locs) == 0 {
		return err
	}

	result := r.builder.ImplementationResult()
	if err := r.emit.Emit(result); err != nil {
		return err
	}
	if err := r.emit.Emit(r.builder.ImplementationEdge(s.resultSet.ID(), result.ID())); err != nil {
		return err
	}

	for _, loc := range locs {
		implDoc, err := r.EnlistDocument(s.project, loc.URI)
		if err != nil {
			return err
		}
		implRange, err := r.EnlistRange(implDoc, loc.Span)
		if err != nil {
			return err
		}
		if err := r.emit.Emit(r.builder.Item(result.ID(), implDoc.ID(), "", implRange.ID())); err != nil {
			return err
		}
	}
	return nil
}

// ResolveReference accumulates reference edges. The reference result and
// the definition item are attached once; each distinct source range is
// added once as a reference item.
func (s *SymbolData) ResolveReference(r *Repository, doc *lsif.Document, def *semantic.Location, sourceRange *lsif.Range) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resultSet == nil {
		return nil
	}

	if s.referenceResult == nil {
		result := r.builder.ReferenceResult()
		if err := r.emit.Emit(result); err != nil {
			return err
		}
		if err := r.emit.Emit(r.builder.ReferencesEdge(s.resultSet.ID(), result.ID())); err != nil {
			return err
		}
		s.referenceResult = result

		defDoc, err := r.EnlistDocument(s.project, def.URI)
		if err != nil {
			return err
		}
		defRange, err := r.EnlistRange(defDoc, def.Span)
		if err != nil {
			return err
		}
		if err := r.emit.Emit(r.builder.Item(result.ID(), defDoc.ID(), lsif.DefinitionsProperty, defRange.ID())); err != nil {
			return err
		}
		s.referencedRanges[defRange.ID()] = true
	}

	if s.referencedRanges[sourceRange.ID()] {
		return nil
	}
	if err := r.emit.Emit(r.builder.Item(s.referenceResult.ID(), doc.ID(), lsif.ReferencesProperty, sourceRange.ID())); err != nil {
		return err
	}
	s.referencedRanges[sourceRange.ID()] = true
	return nil
}

// ResolveHover attaches resolved documentation once. Empty hover text
// still marks the record resolved.
func (s *SymbolData) ResolveHover(ctx context.Context, r *Repository, analyzer semantic.Analyzer, doc *lsif.Document, span lsif.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hoverResolved || s.resultSet == nil {
		return nil
	}
	s.hoverResolved = true

	text, err := analyzer.HoverText(ctx, doc.URI, span.Start)
	if err != nil || text == "" {
		return err
	}

	hover := r.builder.HoverResult(text)
	if err := r.emit.Emit(hover); err != nil {
		return err
	}
	return r.emit.Emit(r.builder.HoverEdge(s.resultSet.ID(), hover.ID()))
}

// AttachMoniker attaches exactly one moniker of the given kind to the
// record, with an optional package descriptor. The descriptor vertex is
// emitted only when the repository has not emitted that identity before;
// the attachment edge is emitted for this moniker regardless.
func (s *SymbolData) AttachMoniker(r *Repository, kind lsif.MonikerKind, identifier string, pkg *lsif.PackageInformation, pkgKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.monikerAttached || s.resultSet == nil {
		return nil
	}

	moniker := r.builder.Moniker(kind, "jxref", identifier)
	if err := r.emit.Emit(moniker); err != nil {
		return err
	}
	if err := r.emit.Emit(r.builder.MonikerEdge(s.resultSet.ID(), moniker.ID())); err != nil {
		return err
	}

	if pkg != nil {
		if !r.MarkPackageEmitted(pkgKey) {
			if err := r.emit.Emit(pkg); err != nil {
				return err
			}
		}
		if err := r.emit.Emit(r.builder.PackageEdge(moniker.ID(), pkg.ID())); err != nil {
			return err
		}
	}

	s.monikerAttached = true
	return nil
}

// HasMoniker reports whether a moniker is already attached
func (s *SymbolData) HasMoniker() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monikerAttached
}
