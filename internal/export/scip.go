package export

import (
	"fmt"
	"os"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"jxref/internal/errors"
	"jxref/internal/lsif"
)

// ToSCIP converts the graph into a SCIP index. Ranges without a moniker
// chain carry no stable symbol and are left out; SCIP occurrences are
// symbol-keyed, unlike the id-keyed source graph.
func ToSCIP(g *Graph) *scippb.Index {
	index := &scippb.Index{
		Metadata: &scippb.Metadata{
			Version: scippb.ProtocolVersion_UnspecifiedProtocolVersion,
			ToolInfo: &scippb.ToolInfo{
				Name:    g.Tool.Name,
				Version: g.Tool.Version,
			},
			ProjectRoot:          g.ProjectRoot,
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}

	for _, doc := range g.Documents() {
		scipDoc := &scippb.Document{
			RelativePath: relativePath(g.ProjectRoot, doc.URI),
			Language:     "java",
		}
		seen := map[string]bool{}

		for _, rng := range g.RangesIn(doc.ID) {
			moniker := g.MonikerFor(rng.ID)
			if moniker == nil || rng.Start == nil || rng.End == nil {
				continue
			}

			symbol := symbolString(g, moniker)
			occ := &scippb.Occurrence{
				Range:  scipRange(*rng.Start, *rng.End),
				Symbol: symbol,
			}
			if g.IsDefinition(rng.ID) {
				occ.SymbolRoles = int32(scippb.SymbolRole_Definition)
				if !seen[symbol] {
					scipDoc.Symbols = append(scipDoc.Symbols, &scippb.SymbolInformation{Symbol: symbol})
					seen[symbol] = true
				}
			}
			scipDoc.Occurrences = append(scipDoc.Occurrences, occ)
		}

		index.Documents = append(index.Documents, scipDoc)
	}
	return index
}

// WriteSCIP converts and writes the index as length-prefixed protobuf
func WriteSCIP(g *Graph, path string) error {
	data, err := proto.Marshal(ToSCIP(g))
	if err != nil {
		return errors.New(errors.EmitFailed, "marshal scip index", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.EmitFailed, fmt.Sprintf("write scip index %s", path), err)
	}
	return nil
}

// symbolString renders a moniker as a SCIP symbol. Local monikers use
// the local form; the rest carry their package coordinates, with "."
// standing in for absent fields.
func symbolString(g *Graph, moniker *Element) string {
	if lsif.MonikerKind(moniker.Kind) == lsif.LocalMoniker {
		return "local " + moniker.Identifier
	}

	manager, name, version := ".", ".", "."
	if pkg := g.PackageFor(moniker.ID); pkg != nil {
		manager = orDot(pkg.Manager)
		name = orDot(pkg.Name)
		version = orDot(pkg.Version)
	}
	return strings.Join([]string{moniker.Scheme, manager, name, version, moniker.Identifier}, " ")
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

// scipRange encodes a span in SCIP's compact form: three elements when
// the range sits on one line, four otherwise.
func scipRange(start, end lsif.Position) []int32 {
	if start.Line == end.Line {
		return []int32{int32(start.Line), int32(start.Character), int32(end.Character)}
	}
	return []int32{int32(start.Line), int32(start.Character), int32(end.Line), int32(end.Character)}
}

func relativePath(projectRoot, uri string) string {
	rel := strings.TrimPrefix(uri, projectRoot)
	return strings.TrimPrefix(rel, "/")
}
