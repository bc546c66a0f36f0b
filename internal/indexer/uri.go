package indexer

import (
	"fmt"
	"net/url"
	"strings"

	"jxref/internal/lsif"
)

// NormalizeURI canonicalizes a document URI so that all spellings of the
// same file converge on one map key: backslashes become forward slashes,
// the scheme is lower-cased, and percent-encoding is collapsed.
func NormalizeURI(uri string) string {
	uri = strings.ReplaceAll(uri, "\\", "/")

	if i := strings.Index(uri, ":"); i > 0 {
		uri = strings.ToLower(uri[:i]) + uri[i:]
	}

	if decoded, err := url.PathUnescape(uri); err == nil {
		uri = decoded
	}
	return uri
}

// SymbolKey derives the stable identity of a symbol from its defining
// location. Overloaded or shadowed names at different locations stay
// distinct; every occurrence of one logical symbol converges here.
func SymbolKey(uri string, span lsif.Span) string {
	return fmt.Sprintf("%s:%d:%d:%d:%d",
		NormalizeURI(uri), span.Start.Line, span.Start.Character, span.End.Line, span.End.Character)
}
