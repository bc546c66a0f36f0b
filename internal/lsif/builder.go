package lsif

import "sync/atomic"

// Builder constructs every vertex and edge of one run from a single
// atomic id counter. Nothing outside the builder assigns element ids.
type Builder struct {
	nextID atomic.Int64
}

// NewBuilder creates a builder whose first element gets id 1
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) vertex(label Label) Entry {
	return Entry{Id: b.nextID.Add(1), Typ: VertexElement, Lbl: label}
}

func (b *Builder) edge(label Label) Entry {
	return Entry{Id: b.nextID.Add(1), Typ: EdgeElement, Lbl: label}
}

// MetaData creates the dump's metadata vertex
func (b *Builder) MetaData(projectRoot, toolName, toolVersion string) *MetaData {
	return &MetaData{
		Entry:            b.vertex(LabelMetaData),
		Version:          "0.5.0",
		ProjectRoot:      projectRoot,
		PositionEncoding: "utf-16",
		ToolInfo:         ToolInfo{Name: toolName, Version: toolVersion},
	}
}

// Project creates the root project vertex
func (b *Builder) Project(kind string) *Project {
	return &Project{Entry: b.vertex(LabelProject), Kind: kind}
}

// Document creates a document vertex for a normalized URI
func (b *Builder) Document(uri string) *Document {
	return &Document{Entry: b.vertex(LabelDocument), URI: uri, LanguageID: "java"}
}

// Range creates a range vertex for one structural span
func (b *Builder) Range(span Span) *Range {
	return &Range{Entry: b.vertex(LabelRange), Start: span.Start, End: span.End}
}

// ResultSet creates the shared vertex for one symbol
func (b *Builder) ResultSet() *ResultSet {
	return &ResultSet{Entry: b.vertex(LabelResultSet)}
}

// Moniker creates a moniker vertex
func (b *Builder) Moniker(kind MonikerKind, scheme, identifier string) *Moniker {
	return &Moniker{Entry: b.vertex(LabelMoniker), Scheme: scheme, Identifier: identifier, Kind: kind}
}

// PackageInformation creates a package descriptor vertex. The repository
// attachment is only present when a source-control URL is known.
func (b *Builder) PackageInformation(name string, manager PackageManager, version, url string) *PackageInformation {
	pkg := &PackageInformation{
		Entry:   b.vertex(LabelPackageInformation),
		Name:    name,
		Manager: manager,
		Version: version,
	}
	if url != "" {
		pkg.Repository = &Repo{Type: "git", URL: url}
	}
	return pkg
}

// DefinitionResult creates an empty definition result vertex
func (b *Builder) DefinitionResult() *DefinitionResult {
	return &DefinitionResult{Entry: b.vertex(LabelDefinitionResult)}
}

// ReferenceResult creates an empty reference result vertex
func (b *Builder) ReferenceResult() *ReferenceResult {
	return &ReferenceResult{Entry: b.vertex(LabelReferenceResult)}
}

// TypeDefinitionResult creates an empty type-definition result vertex
func (b *Builder) TypeDefinitionResult() *TypeDefinitionResult {
	return &TypeDefinitionResult{Entry: b.vertex(LabelTypeDefResult)}
}

// ImplementationResult creates an empty implementation result vertex
func (b *Builder) ImplementationResult() *ImplementationResult {
	return &ImplementationResult{Entry: b.vertex(LabelImplResult)}
}

// HoverResult creates a hover vertex carrying markdown documentation
func (b *Builder) HoverResult(text string) *HoverResult {
	return &HoverResult{
		Entry:  b.vertex(LabelHoverResult),
		Result: Hover{Contents: MarkupContent{Kind: "markdown", Value: text}},
	}
}

// Event creates a begin/end event vertex for a document or project
func (b *Builder) Event(scope EventScope, kind EventKind, subject int64) *Event {
	return &Event{Entry: b.vertex(LabelEvent), Kind: kind, Scope: scope, Data: subject}
}

// Contains creates a containment edge from a project or document
func (b *Builder) Contains(outV int64, inVs ...int64) *MultiEdge {
	return &MultiEdge{Entry: b.edge(LabelContains), OutV: outV, InVs: inVs}
}

// Next links a range to its symbol's result set
func (b *Builder) Next(rangeID, resultSetID int64) *Edge {
	return &Edge{Entry: b.edge(LabelNext), OutV: rangeID, InV: resultSetID}
}

// MonikerEdge attaches a moniker to a result set
func (b *Builder) MonikerEdge(resultSetID, monikerID int64) *Edge {
	return &Edge{Entry: b.edge(LabelMonikerEdge), OutV: resultSetID, InV: monikerID}
}

// PackageEdge attaches package information to a moniker
func (b *Builder) PackageEdge(monikerID, packageID int64) *Edge {
	return &Edge{Entry: b.edge(LabelPackageEdge), OutV: monikerID, InV: packageID}
}

// DefinitionEdge links a result set to its definition result
func (b *Builder) DefinitionEdge(resultSetID, resultID int64) *Edge {
	return &Edge{Entry: b.edge(LabelDefinition), OutV: resultSetID, InV: resultID}
}

// ReferencesEdge links a result set to its reference result
func (b *Builder) ReferencesEdge(resultSetID, resultID int64) *Edge {
	return &Edge{Entry: b.edge(LabelReferences), OutV: resultSetID, InV: resultID}
}

// HoverEdge links a result set to a hover result
func (b *Builder) HoverEdge(resultSetID, hoverID int64) *Edge {
	return &Edge{Entry: b.edge(LabelHover), OutV: resultSetID, InV: hoverID}
}

// TypeDefinitionEdge links a result set to its type-definition result
func (b *Builder) TypeDefinitionEdge(resultSetID, resultID int64) *Edge {
	return &Edge{Entry: b.edge(LabelTypeDef), OutV: resultSetID, InV: resultID}
}

// ImplementationEdge links a result set to its implementation result
func (b *Builder) ImplementationEdge(resultSetID, resultID int64) *Edge {
	return &Edge{Entry: b.edge(LabelImplChildren), OutV: resultSetID, InV: resultID}
}

// Item attaches ranges to a result vertex, scoped to one document
func (b *Builder) Item(resultID int64, document int64, property ItemProperty, rangeIDs ...int64) *ItemEdge {
	return &ItemEdge{
		Entry:    b.edge(LabelItem),
		OutV:     resultID,
		InVs:     rangeIDs,
		Document: document,
		Property: property,
	}
}
