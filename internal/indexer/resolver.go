package indexer

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"jxref/internal/logging"
	"jxref/internal/lsif"
	"jxref/internal/packages"
	"jxref/internal/semantic"
)

// Occurrence is one syntactic appearance of an identifier, classified by
// the traversal layer before it reaches the resolver. The classification
// is computed once and immutable here.
type Occurrence struct {
	Span lsif.Span
	// NeedsImplementation is set exactly when the occurrence is a type
	// or method name used directly inside a declaration header, where an
	// overriding subtype binding is meaningful
	NeedsImplementation bool
	// MonikerRequired marks moniker occurrences; they carry a moniker
	// edge and nothing else
	MonikerRequired bool
	Classification  lsif.MonikerKind
}

// identifierCacheSize bounds the moniker identifier cache; symbol sets of
// large projects are far bigger, but hits concentrate on hot symbols
const identifierCacheSize = 4096

// Resolver turns one occurrence into fully-linked graph state: range
// enlistment, semantic resolution, symbol-record lookup, moniker and
// package attachment, and edge emission.
type Resolver struct {
	repo     *Repository
	analyzer semantic.Analyzer
	pkgs     *packages.Resolver
	logger   *logging.Logger
	project  *lsif.Project
	publish  bool

	identifiers *lru.Cache[string, string]
}

// NewResolver creates a resolver for one run
func NewResolver(repo *Repository, analyzer semantic.Analyzer, pkgs *packages.Resolver, project *lsif.Project, publish bool, logger *logging.Logger) *Resolver {
	cache, _ := lru.New[string, string](identifierCacheSize)
	return &Resolver{
		repo:        repo,
		analyzer:    analyzer,
		pkgs:        pkgs,
		logger:      logger,
		project:     project,
		publish:     publish,
		identifiers: cache,
	}
}

// ResolveOccurrence processes one occurrence against the given document.
// Failures are isolated: any error or panic is logged with context and
// the run continues with the next occurrence.
func (rs *Resolver) ResolveOccurrence(ctx context.Context, doc *lsif.Document, occ Occurrence) {
	defer func() {
		if p := recover(); p != nil {
			rs.logger.Error("panic while resolving occurrence", map[string]interface{}{
				"uri":   doc.URI,
				"line":  occ.Span.Start.Line,
				"char":  occ.Span.Start.Character,
				"panic": fmt.Sprint(p),
			})
		}
	}()

	if err := rs.resolve(ctx, doc, occ); err != nil {
		rs.logger.Error("failed to resolve occurrence", map[string]interface{}{
			"uri":   doc.URI,
			"line":  occ.Span.Start.Line,
			"char":  occ.Span.Start.Character,
			"error": err.Error(),
		})
	}
}

func (rs *Resolver) resolve(ctx context.Context, doc *lsif.Document, occ Occurrence) error {
	sourceRange, err := rs.repo.EnlistRange(doc, occ.Span)
	if err != nil {
		return err
	}

	element, err := rs.analyzer.ResolveOccurrence(ctx, doc.URI, occ.Span)
	if err != nil {
		return err
	}
	if element == nil {
		return nil
	}

	defLocation, err := rs.analyzer.LocationOf(element)
	if err != nil {
		return err
	}
	if defLocation == nil {
		// No target location: the occurrence still contributes hover
		// text when available, nothing else.
		return rs.resolveHoverOnly(ctx, doc, occ.Span, sourceRange)
	}

	origin := rs.analyzer.ElementOrigin(element)
	identity := rs.pkgs.Resolve(element, origin)

	key := SymbolKey(defLocation.URI, defLocation.Span)
	defDoc, err := rs.repo.EnlistDocument(rs.project, defLocation.URI)
	if err != nil {
		return err
	}
	symbolData := rs.repo.EnlistSymbolData(key, defDoc, rs.project)

	if err := symbolData.EnsureResultSet(rs.repo, sourceRange); err != nil {
		return err
	}

	if occ.MonikerRequired {
		return rs.attachMoniker(symbolData, occ.Classification, element, defLocation, origin, identity, key)
	}

	if err := symbolData.ResolveDefinition(rs.repo, defLocation); err != nil {
		return err
	}
	if err := symbolData.ResolveTypeDefinition(ctx, rs.repo, rs.analyzer, doc, occ.Span); err != nil {
		return err
	}
	if occ.NeedsImplementation {
		if err := symbolData.ResolveImplementation(ctx, rs.repo, rs.analyzer, doc, occ.Span); err != nil {
			return err
		}
	}
	if err := symbolData.ResolveReference(rs.repo, doc, defLocation, sourceRange); err != nil {
		return err
	}
	return symbolData.ResolveHover(ctx, rs.repo, rs.analyzer, doc, occ.Span)
}

// resolveHoverOnly attaches a standalone result set with a hover
// annotation to the range of an occurrence that resolves to no
// definition location. One result set per range, however many
// occurrences land on it.
func (rs *Resolver) resolveHoverOnly(ctx context.Context, doc *lsif.Document, span lsif.Span, sourceRange *lsif.Range) error {
	text, err := rs.analyzer.HoverText(ctx, doc.URI, span.Start)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	resultSet, created, err := rs.repo.EnlistHoverResultSet(sourceRange)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	b := rs.repo.Builder()
	hover := b.HoverResult(text)
	if err := rs.repo.emit.Emit(hover); err != nil {
		return err
	}
	return rs.repo.emit.Emit(b.HoverEdge(resultSet.ID(), hover.ID()))
}

func (rs *Resolver) attachMoniker(sd *SymbolData, kind lsif.MonikerKind, element *semantic.Element, defLocation *semantic.Location, origin semantic.Origin, identity packages.Identity, key string) error {
	if sd.HasMoniker() {
		return nil
	}

	identifier := rs.monikerIdentifier(key, element)

	switch kind {
	case lsif.ExportMoniker:
		// In publish mode an exported symbol is published as part of
		// this project's own package, not attributed to wherever its
		// bits were physically found.
		var pkg *lsif.PackageInformation
		pkgKey := ""
		if rs.publish {
			project := rs.pkgs.ProjectIdentity()
			if identity.Resolved() {
				project = rs.pkgs.OverrideManager(identity)
			}
			if project.Resolved() {
				pkgKey = "export:" + project.SchemeID
				pkg = rs.repo.EnlistExportPackage(pkgKey, project.Name, project.Manager, project.Version, project.URL)
			}
		}
		return sd.AttachMoniker(rs.repo, lsif.ExportMoniker, identifier, pkg, pkgKey)

	case lsif.LocalMoniker:
		return sd.AttachMoniker(rs.repo, lsif.LocalMoniker, identifier, nil, "")

	default:
		// Import monikers only make sense for symbols defined outside
		// project sources: binary locations or external roots.
		if origin == semantic.OriginProjectSource && !isBinaryURI(defLocation.URI) {
			return nil
		}
		var pkg *lsif.PackageInformation
		pkgKey := ""
		if identity.Resolved() {
			pkgKey = "import:" + identity.SchemeID
			pkg = rs.repo.EnlistImportPackage(pkgKey, identity.Name, identity.Manager, identity.Version, identity.URL)
		}
		return sd.AttachMoniker(rs.repo, lsif.ImportMoniker, identifier, pkg, pkgKey)
	}
}

// monikerIdentifier caches identifier computation per definition key;
// the parent walk is pure, so hits are always valid.
func (rs *Resolver) monikerIdentifier(key string, element *semantic.Element) string {
	if id, ok := rs.identifiers.Get(key); ok {
		return id
	}

	id, err := MonikerIdentifier(element)
	if err != nil {
		rs.logger.Debug("moniker identifier fallback", map[string]interface{}{
			"element": element.Name,
			"error":   err.Error(),
		})
		id = element.Name
	}

	rs.identifiers.Add(key, id)
	return id
}

// isBinaryURI reports whether a definition URI points into compiled
// contents rather than an on-disk source file.
func isBinaryURI(uri string) bool {
	return !strings.HasPrefix(uri, "file:")
}
