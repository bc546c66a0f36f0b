package semantic

import (
	"context"
	"fmt"

	"jxref/internal/lsif"
)

// FakeAnalyzer is a deterministic in-memory Analyzer for tests. Occurrences
// are registered up front; every query is a map lookup.
type FakeAnalyzer struct {
	// Elements maps "uri@line:char" of an occurrence start to the element
	// it resolves to
	Elements map[string]*Element
	// Locations maps elements (by identity key) to defining locations
	Locations map[*Element]*Location
	// Hovers maps "uri@line:char" to hover text
	Hovers map[string]string
	// Origins maps elements to their containing root kind
	Origins map[*Element]Origin
	// Descriptors maps pathHint prefixes to build descriptors
	Descriptors map[string]*BuildDescriptor
	// Manifests maps elements to platform manifests
	Manifests map[*Element]*PlatformManifest
	// Coordinates maps elements to recorded library coordinates
	Coordinates map[*Element]*LibraryCoordinates
	// TypeDefs maps "uri@line:char" to type-definition locations
	TypeDefs map[string]*Location
	// Impls maps "uri@line:char" to implementation locations
	Impls map[string][]Location
}

// NewFakeAnalyzer creates an empty fake
func NewFakeAnalyzer() *FakeAnalyzer {
	return &FakeAnalyzer{
		Elements:    map[string]*Element{},
		Locations:   map[*Element]*Location{},
		Hovers:      map[string]string{},
		Origins:     map[*Element]Origin{},
		Descriptors: map[string]*BuildDescriptor{},
		Manifests:   map[*Element]*PlatformManifest{},
		Coordinates: map[*Element]*LibraryCoordinates{},
		TypeDefs:    map[string]*Location{},
		Impls:       map[string][]Location{},
	}
}

// Key builds the occurrence lookup key used by the fake's maps
func Key(uri string, pos lsif.Position) string {
	return fmt.Sprintf("%s@%d:%d", uri, pos.Line, pos.Character)
}

// ResolveOccurrence looks up the registered element for the span start
func (f *FakeAnalyzer) ResolveOccurrence(ctx context.Context, uri string, span lsif.Span) (*Element, error) {
	return f.Elements[Key(uri, span.Start)], nil
}

// LocationOf looks up the registered defining location
func (f *FakeAnalyzer) LocationOf(el *Element) (*Location, error) {
	return f.Locations[el], nil
}

// HoverText looks up registered hover text
func (f *FakeAnalyzer) HoverText(ctx context.Context, uri string, pos lsif.Position) (string, error) {
	return f.Hovers[Key(uri, pos)], nil
}

// ElementOrigin returns the registered origin, project source by default
func (f *FakeAnalyzer) ElementOrigin(el *Element) Origin {
	if o, ok := f.Origins[el]; ok {
		return o
	}
	return OriginProjectSource
}

// ContainingBuildDescriptor matches pathHint against registered prefixes
func (f *FakeAnalyzer) ContainingBuildDescriptor(pathHint string) (*BuildDescriptor, error) {
	return f.Descriptors[pathHint], nil
}

// PlatformManifestOf looks up the registered manifest
func (f *FakeAnalyzer) PlatformManifestOf(el *Element) (*PlatformManifest, error) {
	return f.Manifests[el], nil
}

// LibraryCoordinatesOf looks up registered library coordinates
func (f *FakeAnalyzer) LibraryCoordinatesOf(el *Element) (*LibraryCoordinates, error) {
	return f.Coordinates[el], nil
}

// TypeDefinitionOf looks up the registered type-definition location
func (f *FakeAnalyzer) TypeDefinitionOf(ctx context.Context, uri string, span lsif.Span) (*Location, error) {
	return f.TypeDefs[Key(uri, span.Start)], nil
}

// ImplementationsOf looks up registered implementation locations
func (f *FakeAnalyzer) ImplementationsOf(ctx context.Context, uri string, span lsif.Span) ([]Location, error) {
	return f.Impls[Key(uri, span.Start)], nil
}
