// Package lsif defines the vertex and edge model of the cross-reference
// graph and the builder that assigns stable ids to every element.
package lsif

// ElementType discriminates vertices from edges
type ElementType string

const (
	// VertexElement is a node in the graph
	VertexElement ElementType = "vertex"
	// EdgeElement is a typed relationship between two vertices
	EdgeElement ElementType = "edge"
)

// Label identifies the concrete kind of a vertex or edge
type Label string

// Vertex labels
const (
	LabelMetaData           Label = "metaData"
	LabelProject            Label = "project"
	LabelDocument           Label = "document"
	LabelRange              Label = "range"
	LabelResultSet          Label = "resultSet"
	LabelMoniker            Label = "moniker"
	LabelPackageInformation Label = "packageInformation"
	LabelDefinitionResult   Label = "definitionResult"
	LabelReferenceResult    Label = "referenceResult"
	LabelHoverResult        Label = "hoverResult"
	LabelTypeDefResult      Label = "typeDefinitionResult"
	LabelImplResult         Label = "implementationResult"
	LabelEvent              Label = "$event"
)

// Edge labels
const (
	LabelContains     Label = "contains"
	LabelNext         Label = "next"
	LabelItem         Label = "item"
	LabelMonikerEdge  Label = "moniker"
	LabelPackageEdge  Label = "packageInformation"
	LabelDefinition   Label = "textDocument/definition"
	LabelReferences   Label = "textDocument/references"
	LabelHover        Label = "textDocument/hover"
	LabelTypeDef      Label = "textDocument/typeDefinition"
	LabelImplChildren Label = "textDocument/implementation"
)

// Element is any vertex or edge in the graph
type Element interface {
	ID() int64
	Type() ElementType
	ElementLabel() Label
}

// Entry carries the fields shared by every element
type Entry struct {
	Id   int64       `json:"id"`
	Typ  ElementType `json:"type"`
	Lbl  Label       `json:"label"`
}

// ID returns the stable element id
func (e Entry) ID() int64 { return e.Id }

// Type returns vertex or edge
func (e Entry) Type() ElementType { return e.Typ }

// ElementLabel returns the concrete element kind
func (e Entry) ElementLabel() Label { return e.Lbl }

// Position is a structural (line, character) location, zero-based
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Span is a half-open structural interval within one document
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Project is the root vertex owning all documents of one run
type Project struct {
	Entry
	Kind string `json:"kind"`
}

// Document is one source or library file, keyed by normalized URI
type Document struct {
	Entry
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
}

// Range is one source-text span inside a document
type Range struct {
	Entry
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Span returns the range's structural interval
func (r *Range) Span() Span { return Span{Start: r.Start, End: r.End} }

// ResultSet is the shared vertex linking every range of one symbol
type ResultSet struct {
	Entry
}

// MonikerKind classifies a moniker as export, local, or import
type MonikerKind string

const (
	// ExportMoniker marks this project's own public symbol
	ExportMoniker MonikerKind = "export"
	// LocalMoniker marks a non-public symbol with no package attachment
	LocalMoniker MonikerKind = "local"
	// ImportMoniker marks an external symbol being referenced
	ImportMoniker MonikerKind = "import"
)

// Moniker is a stable cross-project identifier attached to a symbol
type Moniker struct {
	Entry
	Scheme     string      `json:"scheme"`
	Identifier string      `json:"identifier"`
	Kind       MonikerKind `json:"kind"`
}

// PackageManager identifies where a package descriptor came from
type PackageManager string

const (
	// Maven build descriptors
	Maven PackageManager = "maven"
	// Gradle build descriptors
	Gradle PackageManager = "gradle"
	// JDK platform runtime modules
	JDK PackageManager = "jdk"
)

// Repo is the source-control attachment of a package descriptor
type Repo struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// PackageInformation describes the package a moniker belongs to
type PackageInformation struct {
	Entry
	Name       string         `json:"name"`
	Manager    PackageManager `json:"manager"`
	Version    string         `json:"version,omitempty"`
	Repository *Repo          `json:"repository,omitempty"`
}

// DefinitionResult collects definition targets of a result set
type DefinitionResult struct {
	Entry
}

// ReferenceResult collects reference ranges of a result set
type ReferenceResult struct {
	Entry
}

// TypeDefinitionResult collects type-definition targets
type TypeDefinitionResult struct {
	Entry
}

// ImplementationResult collects implementation targets
type ImplementationResult struct {
	Entry
}

// MarkupContent is rendered hover documentation
type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Hover is the payload of a hover result
type Hover struct {
	Contents MarkupContent `json:"contents"`
}

// HoverResult carries resolved documentation text
type HoverResult struct {
	Entry
	Result Hover `json:"result"`
}

// EventKind is begin or end
type EventKind string

// EventScope is document or project
type EventScope string

const (
	// BeginEvent opens a scope
	BeginEvent EventKind = "begin"
	// EndEvent closes a scope
	EndEvent EventKind = "end"
	// DocumentScope events bracket one document's contents
	DocumentScope EventScope = "document"
	// ProjectScope events bracket the whole run
	ProjectScope EventScope = "project"
)

// Event brackets the lifetime of a document or project in the stream
type Event struct {
	Entry
	Kind  EventKind  `json:"kind"`
	Scope EventScope `json:"scope"`
	Data  int64      `json:"data"`
}

// ToolInfo names the producing tool in the metadata vertex
type ToolInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// MetaData is the first vertex of every dump
type MetaData struct {
	Entry
	Version          string   `json:"version"`
	ProjectRoot      string   `json:"projectRoot"`
	PositionEncoding string   `json:"positionEncoding"`
	ToolInfo         ToolInfo `json:"toolInfo"`
}

// Edge connects one out vertex to one in vertex
type Edge struct {
	Entry
	OutV int64 `json:"outV"`
	InV  int64 `json:"inV"`
}

// MultiEdge connects one out vertex to several in vertices
type MultiEdge struct {
	Entry
	OutV int64   `json:"outV"`
	InVs []int64 `json:"inVs"`
}

// ItemProperty distinguishes definition items from reference items
type ItemProperty string

const (
	// DefinitionsProperty marks definition items
	DefinitionsProperty ItemProperty = "definitions"
	// ReferencesProperty marks reference items
	ReferencesProperty ItemProperty = "references"
)

// ItemEdge attaches ranges to a result vertex within one document
type ItemEdge struct {
	Entry
	OutV     int64        `json:"outV"`
	InVs     []int64      `json:"inVs"`
	Document int64        `json:"document"`
	Property ItemProperty `json:"property,omitempty"`
}
