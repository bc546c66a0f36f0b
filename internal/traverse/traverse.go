//go:build cgo

// Package traverse walks Java syntax trees and produces the classified
// occurrence stream the resolver consumes. Classification happens here,
// once, before an occurrence reaches the resolver.
package traverse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"jxref/internal/indexer"
	"jxref/internal/lsif"
)

// Walker parses Java sources with tree-sitter and emits occurrences in
// depth-first order.
type Walker struct{}

// NewWalker creates a walker
func NewWalker() *Walker {
	return &Walker{}
}

// Occurrences parses one document and returns its occurrence stream
func (w *Walker) Occurrences(ctx context.Context, path string, source []byte) ([]indexer.Occurrence, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var occs []indexer.Occurrence
	walk(tree.RootNode(), source, &occs)
	return occs, nil
}

func walk(node *sitter.Node, source []byte, occs *[]indexer.Occurrence) {
	switch node.Type() {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"method_declaration", "constructor_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			*occs = append(*occs, declaration(name, exportKind(node)))
		}

	case "enum_constant":
		// Enum values are implicitly public static final
		if name := node.ChildByFieldName("name"); name != nil {
			*occs = append(*occs, declaration(name, lsif.ExportMoniker))
		}

	case "field_declaration", "local_variable_declaration":
		kind := exportKind(node)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() != "variable_declarator" {
				continue
			}
			if name := child.ChildByFieldName("name"); name != nil {
				*occs = append(*occs, declaration(name, kind))
			}
		}

	case "formal_parameter":
		if name := node.ChildByFieldName("name"); name != nil {
			*occs = append(*occs, declaration(name, lsif.LocalMoniker))
		}

	case "identifier", "type_identifier":
		*occs = append(*occs, indexer.Occurrence{
			Span:                span(node),
			NeedsImplementation: inDeclarationHeader(node),
			MonikerRequired:     false,
			Classification:      lsif.ImportMoniker,
		})
		return // leaves
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), source, occs)
	}
}

func declaration(name *sitter.Node, kind lsif.MonikerKind) indexer.Occurrence {
	return indexer.Occurrence{
		Span:            span(name),
		MonikerRequired: true,
		Classification:  kind,
	}
}

// exportKind classifies a declaration by its strongest visibility
// modifier: public means EXPORT, anything else LOCAL.
func exportKind(node *sitter.Node) lsif.MonikerKind {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if child.Child(j).Type() == "public" {
				return lsif.ExportMoniker
			}
		}
	}
	return lsif.LocalMoniker
}

// inDeclarationHeader reports whether the node is the name of a type or
// method declaration header, the one position where an overriding
// subtype binding is meaningful.
func inDeclarationHeader(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "class_declaration", "interface_declaration", "enum_declaration", "method_declaration":
		name := parent.ChildByFieldName("name")
		return name != nil && name.StartByte() == node.StartByte() && name.EndByte() == node.EndByte()
	}
	return false
}

func span(node *sitter.Node) lsif.Span {
	start := node.StartPoint()
	end := node.EndPoint()
	return lsif.Span{
		Start: lsif.Position{Line: int(start.Row), Character: int(start.Column)},
		End:   lsif.Position{Line: int(end.Row), Character: int(end.Column)},
	}
}

// IsAvailable reports whether tree-sitter traversal is available
func IsAvailable() bool {
	return true
}
