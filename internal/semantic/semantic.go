// Package semantic declares the narrow surface consumed from the semantic
// analysis engine. The engine resolves textual occurrences to the program
// elements they denote; it is assumed correct and is not reimplemented here.
package semantic

import (
	"context"

	"jxref/internal/lsif"
)

// ElementKind is a closed tagged variant describing what an element is.
// The resolver dispatches on it instead of chained type tests.
type ElementKind string

const (
	// KindType is a top-level or nested type declaration
	KindType ElementKind = "type"
	// KindField is a field of a type
	KindField ElementKind = "field"
	// KindMethod is a method or constructor
	KindMethod ElementKind = "method"
	// KindLocalVariable is a local variable or parameter
	KindLocalVariable ElementKind = "local"
	// KindUnresolved covers everything else; moniker identifiers fall
	// back to the bare simple name
	KindUnresolved ElementKind = "unresolved"
)

// Origin says which containing root an element was resolved from
type Origin string

const (
	// OriginProjectSource elements live in this project's own sources
	OriginProjectSource Origin = "project-source"
	// OriginLibrary elements come from a compiled dependency jar
	OriginLibrary Origin = "library"
	// OriginPlatform elements come from the platform runtime image
	OriginPlatform Origin = "platform"
)

// Element is one resolved program element. Parent is nil at a top-level
// type or compilation boundary, which terminates identifier recursion.
type Element struct {
	Kind          ElementKind
	Name          string // simple name
	QualifiedName string // fully-qualified name, types only
	Signature     string // JVM signature, methods only
	Parent        *Element
	// ArchivePath is the on-disk path of the containing jar or jmod,
	// empty for project-source elements
	ArchivePath string
}

// Location is an element's defining location
type Location struct {
	URI  string
	Span lsif.Span
}

// BuildDescriptor carries the fields extracted from a build manifest.
// How manifests are parsed is the engine's concern; only these fields
// are consumed.
type BuildDescriptor struct {
	GroupID    string
	ArtifactID string
	Version    string
	SCMURL     string
}

// PlatformManifest identifies a platform runtime module
type PlatformManifest struct {
	ModuleName            string
	ImplementationVersion string
}

// LibraryCoordinates are the package coordinates an engine recorded for
// a symbol defined in a dependency archive. Engines that only know
// archive locations leave them unset and the resolver searches build
// descriptors instead.
type LibraryCoordinates struct {
	Name    string // group/artifact
	Version string
}

// Analyzer is the semantic analysis engine surface. All calls are
// synchronous queries against an already-built semantic model; a failure
// now fails identically on retry, so callers never retry.
type Analyzer interface {
	// ResolveOccurrence resolves the occurrence at span to the element
	// it denotes, or nil when nothing resolves there
	ResolveOccurrence(ctx context.Context, uri string, span lsif.Span) (*Element, error)

	// LocationOf yields an element's declared location, or nil when the
	// element has no resolvable definition
	LocationOf(el *Element) (*Location, error)

	// HoverText renders documentation for the given position, empty
	// when none exists
	HoverText(ctx context.Context, uri string, pos lsif.Position) (string, error)

	// ElementOrigin reports which containing root the element lives in
	ElementOrigin(el *Element) Origin

	// ContainingBuildDescriptor searches pathHint recursively for the
	// nearest build descriptor, nil when absent
	ContainingBuildDescriptor(pathHint string) (*BuildDescriptor, error)

	// PlatformManifestOf reads the runtime manifest covering a platform
	// element, nil when unavailable
	PlatformManifestOf(el *Element) (*PlatformManifest, error)

	// LibraryCoordinatesOf reports the recorded package coordinates of
	// a library element, nil when the engine only knows archive paths
	LibraryCoordinatesOf(el *Element) (*LibraryCoordinates, error)

	// TypeDefinitionOf yields the defining location of an occurrence's
	// type, nil when it has none
	TypeDefinitionOf(ctx context.Context, uri string, span lsif.Span) (*Location, error)

	// ImplementationsOf yields overriding/implementing locations for a
	// type or method occurrence
	ImplementationsOf(ctx context.Context, uri string, span lsif.Span) ([]Location, error)
}
