package indexer

import (
	"fmt"

	"jxref/internal/semantic"
)

// maxIdentifierDepth bounds the parent walk; real element chains are a
// handful of levels deep
const maxIdentifierDepth = 32

// MonikerIdentifier computes the stable cross-module identifier of an
// element by walking its parent chain:
//
//	type                com.acme.Foo
//	field or local      com.acme.Foo/x
//	method              com.acme.Foo/bar:(I)V
//
// The recursion terminates at a top-level type or compilation boundary.
// Unresolved kinds fall back to the bare simple name.
func MonikerIdentifier(el *semantic.Element) (string, error) {
	return monikerIdentifier(el, 0)
}

func monikerIdentifier(el *semantic.Element, depth int) (string, error) {
	if el == nil {
		return "", fmt.Errorf("nil element in identifier chain")
	}
	if depth > maxIdentifierDepth {
		return "", fmt.Errorf("identifier chain deeper than %d", maxIdentifierDepth)
	}

	switch el.Kind {
	case semantic.KindType:
		if el.QualifiedName != "" {
			return el.QualifiedName, nil
		}
		return el.Name, nil

	case semantic.KindField, semantic.KindLocalVariable:
		parent, err := monikerIdentifier(el.Parent, depth+1)
		if err != nil {
			return "", err
		}
		return parent + "/" + el.Name, nil

	case semantic.KindMethod:
		parent, err := monikerIdentifier(el.Parent, depth+1)
		if err != nil {
			return "", err
		}
		return parent + "/" + el.Name + ":" + el.Signature, nil

	default:
		return el.Name, nil
	}
}
