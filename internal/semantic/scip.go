package semantic

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"jxref/internal/errors"
	"jxref/internal/logging"
	"jxref/internal/lsif"
)

// SCIPAnalyzer answers semantic queries from a scip-java index built
// against the same sources. The index is the semantic model; this
// analyzer only reshapes its answers.
type SCIPAnalyzer struct {
	logger      *logging.Logger
	projectRoot string

	occurrences  map[string][]*scippb.Occurrence // relative path -> sorted occurrences
	symbols      map[string]*scippb.SymbolInformation
	definitions  map[string]*Location // symbol -> defining location
	implementors map[string][]string  // symbol -> implementing symbols

	mu             sync.Mutex
	elementSymbols map[*Element]string
}

// NewSCIPAnalyzer loads the index at path. projectRoot anchors relative
// document paths.
func NewSCIPAnalyzer(path, projectRoot string, logger *logging.Logger) (*SCIPAnalyzer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.SourceUnreadable, fmt.Sprintf("read semantic index %s", path), err)
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, errors.New(errors.SourceUnreadable, fmt.Sprintf("parse semantic index %s", path), err)
	}

	a := &SCIPAnalyzer{
		logger:         logger,
		projectRoot:    projectRoot,
		occurrences:    map[string][]*scippb.Occurrence{},
		symbols:        map[string]*scippb.SymbolInformation{},
		definitions:    map[string]*Location{},
		implementors:   map[string][]string{},
		elementSymbols: map[*Element]string{},
	}

	for _, doc := range index.Documents {
		occs := append([]*scippb.Occurrence(nil), doc.Occurrences...)
		sort.Slice(occs, func(i, j int) bool {
			return less(occs[i].Range, occs[j].Range)
		})
		a.occurrences[doc.RelativePath] = occs

		for _, sym := range doc.Symbols {
			a.register(sym)
		}
		for _, occ := range occs {
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) == 0 {
				continue
			}
			if _, ok := a.definitions[occ.Symbol]; ok {
				continue
			}
			a.definitions[occ.Symbol] = &Location{
				URI:  a.fileURI(doc.RelativePath),
				Span: decodeRange(occ.Range),
			}
		}
	}
	for _, sym := range index.ExternalSymbols {
		a.register(sym)
	}

	logger.Info("semantic index loaded", map[string]interface{}{
		"path":      path,
		"documents": len(index.Documents),
		"symbols":   len(a.symbols),
	})
	return a, nil
}

func (a *SCIPAnalyzer) register(sym *scippb.SymbolInformation) {
	a.symbols[sym.Symbol] = sym
	for _, rel := range sym.Relationships {
		if rel.IsImplementation {
			a.implementors[rel.Symbol] = append(a.implementors[rel.Symbol], sym.Symbol)
		}
	}
}

// ResolveOccurrence finds the indexed occurrence covering the span start
func (a *SCIPAnalyzer) ResolveOccurrence(ctx context.Context, uri string, span lsif.Span) (*Element, error) {
	occ := a.occurrenceAt(uri, span.Start)
	if occ == nil {
		return nil, nil
	}

	el := elementFromSymbol(occ.Symbol)
	if el == nil {
		return nil, nil
	}

	a.mu.Lock()
	a.elementSymbols[el] = occ.Symbol
	a.mu.Unlock()
	return el, nil
}

// LocationOf returns the symbol's defining location within the index.
// Symbols defined outside the indexed sources have none.
func (a *SCIPAnalyzer) LocationOf(el *Element) (*Location, error) {
	symbol, ok := a.symbolOf(el)
	if !ok {
		return nil, nil
	}
	return a.definitions[symbol], nil
}

// HoverText joins the indexed documentation sections
func (a *SCIPAnalyzer) HoverText(ctx context.Context, uri string, pos lsif.Position) (string, error) {
	occ := a.occurrenceAt(uri, pos)
	if occ == nil {
		return "", nil
	}
	sym, ok := a.symbols[occ.Symbol]
	if !ok {
		return "", nil
	}
	return strings.Join(sym.Documentation, "\n\n"), nil
}

// ElementOrigin classifies by where the symbol is defined: indexed
// sources, the platform package, or a library.
func (a *SCIPAnalyzer) ElementOrigin(el *Element) Origin {
	symbol, ok := a.symbolOf(el)
	if !ok {
		return OriginProjectSource
	}
	if _, defined := a.definitions[symbol]; defined {
		return OriginProjectSource
	}
	if parsed, err := scippb.ParseSymbol(symbol); err == nil && parsed.Package != nil {
		if isPlatformPackage(parsed.Package) {
			return OriginPlatform
		}
	}
	return OriginLibrary
}

// ContainingBuildDescriptor walks upward from pathHint until a Maven
// descriptor turns up: a pom.xml, or a *.pom next to the jar the way
// repository layouts keep them.
func (a *SCIPAnalyzer) ContainingBuildDescriptor(pathHint string) (*BuildDescriptor, error) {
	const maxAscent = 12

	dir := pathHint
	for i := 0; i < maxAscent && dir != "" && dir != "/" && dir != "."; i++ {
		if desc := readDescriptorIn(dir); desc != nil {
			return desc, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, nil
}

// PlatformManifestOf reports the platform module a symbol belongs to
func (a *SCIPAnalyzer) PlatformManifestOf(el *Element) (*PlatformManifest, error) {
	symbol, ok := a.symbolOf(el)
	if !ok {
		return nil, nil
	}
	parsed, err := scippb.ParseSymbol(symbol)
	if err != nil || parsed.Package == nil || !isPlatformPackage(parsed.Package) {
		return nil, nil
	}
	return &PlatformManifest{
		ModuleName:            parsed.Package.Name,
		ImplementationVersion: parsed.Package.Version,
	}, nil
}

// LibraryCoordinatesOf reads the package coordinates the index recorded
// for a library symbol. The index knows coordinates, never jar paths.
func (a *SCIPAnalyzer) LibraryCoordinatesOf(el *Element) (*LibraryCoordinates, error) {
	symbol, ok := a.symbolOf(el)
	if !ok {
		return nil, nil
	}
	if _, defined := a.definitions[symbol]; defined {
		return nil, nil
	}
	parsed, err := scippb.ParseSymbol(symbol)
	if err != nil || parsed.Package == nil || isPlatformPackage(parsed.Package) {
		return nil, nil
	}
	return &LibraryCoordinates{
		Name:    parsed.Package.Name,
		Version: parsed.Package.Version,
	}, nil
}

// TypeDefinitionOf follows the index's type-definition relationship
func (a *SCIPAnalyzer) TypeDefinitionOf(ctx context.Context, uri string, span lsif.Span) (*Location, error) {
	occ := a.occurrenceAt(uri, span.Start)
	if occ == nil {
		return nil, nil
	}
	sym, ok := a.symbols[occ.Symbol]
	if !ok {
		return nil, nil
	}
	for _, rel := range sym.Relationships {
		if rel.IsTypeDefinition {
			if loc, ok := a.definitions[rel.Symbol]; ok {
				return loc, nil
			}
		}
	}
	return nil, nil
}

// ImplementationsOf lists defining locations of every indexed symbol
// that implements or overrides the one at the given position.
func (a *SCIPAnalyzer) ImplementationsOf(ctx context.Context, uri string, span lsif.Span) ([]Location, error) {
	occ := a.occurrenceAt(uri, span.Start)
	if occ == nil {
		return nil, nil
	}

	var out []Location
	for _, impl := range a.implementors[occ.Symbol] {
		if loc, ok := a.definitions[impl]; ok {
			out = append(out, *loc)
		}
	}
	return out, nil
}

func (a *SCIPAnalyzer) symbolOf(el *Element) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	symbol, ok := a.elementSymbols[el]
	return symbol, ok
}

// occurrenceAt finds the occurrence whose range covers pos, preferring
// the innermost when ranges nest.
func (a *SCIPAnalyzer) occurrenceAt(uri string, pos lsif.Position) *scippb.Occurrence {
	occs, ok := a.occurrences[a.relativePath(uri)]
	if !ok {
		return nil
	}

	var best *scippb.Occurrence
	for _, occ := range occs {
		span := decodeRange(occ.Range)
		if !covers(span, pos) {
			continue
		}
		if best == nil || covers(decodeRange(best.Range), span.Start) {
			best = occ
		}
	}
	return best
}

func (a *SCIPAnalyzer) relativePath(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	rel, err := filepath.Rel(a.projectRoot, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (a *SCIPAnalyzer) fileURI(relativePath string) string {
	return "file://" + filepath.ToSlash(filepath.Join(a.projectRoot, relativePath))
}

// elementFromSymbol rebuilds the element chain from a symbol's
// descriptor list. Local and unparseable symbols degrade to flat
// elements; moniker identifiers then fall back to the bare name.
func elementFromSymbol(symbol string) *Element {
	if scippb.IsLocalSymbol(symbol) {
		return &Element{Kind: KindLocalVariable, Name: symbol}
	}

	parsed, err := scippb.ParseSymbol(symbol)
	if err != nil {
		return &Element{Kind: KindUnresolved, Name: symbol}
	}

	var namespaces []string
	var current *Element
	for _, desc := range parsed.Descriptors {
		switch desc.Suffix {
		case scippb.Descriptor_Namespace:
			namespaces = append(namespaces, desc.Name)
		case scippb.Descriptor_Type:
			qualified := desc.Name
			if current != nil && current.Kind == KindType {
				qualified = current.QualifiedName + "." + desc.Name
			} else if len(namespaces) > 0 {
				qualified = strings.Join(namespaces, ".") + "." + desc.Name
			}
			current = &Element{
				Kind:          KindType,
				Name:          desc.Name,
				QualifiedName: qualified,
				Parent:        current,
			}
		case scippb.Descriptor_Method:
			signature := desc.Disambiguator
			if signature == "" {
				signature = "()"
			}
			current = &Element{
				Kind:      KindMethod,
				Name:      desc.Name,
				Signature: signature,
				Parent:    current,
			}
		case scippb.Descriptor_Term:
			current = &Element{Kind: KindField, Name: desc.Name, Parent: current}
		case scippb.Descriptor_Parameter, scippb.Descriptor_Local:
			current = &Element{Kind: KindLocalVariable, Name: desc.Name, Parent: current}
		}
	}
	if current == nil {
		return &Element{Kind: KindUnresolved, Name: symbol}
	}
	return current
}

// scip-java publishes JDK symbols under the jdk package name
func isPlatformPackage(pkg *scippb.Package) bool {
	return pkg.Name == "jdk" || strings.HasPrefix(pkg.Name, "jdk/")
}

func decodeRange(raw []int32) lsif.Span {
	if len(raw) == 3 {
		return lsif.Span{
			Start: lsif.Position{Line: int(raw[0]), Character: int(raw[1])},
			End:   lsif.Position{Line: int(raw[0]), Character: int(raw[2])},
		}
	}
	if len(raw) == 4 {
		return lsif.Span{
			Start: lsif.Position{Line: int(raw[0]), Character: int(raw[1])},
			End:   lsif.Position{Line: int(raw[2]), Character: int(raw[3])},
		}
	}
	return lsif.Span{}
}

func less(a, b []int32) bool {
	as, bs := decodeRange(a), decodeRange(b)
	if as.Start.Line != bs.Start.Line {
		return as.Start.Line < bs.Start.Line
	}
	return as.Start.Character < bs.Start.Character
}

func covers(span lsif.Span, pos lsif.Position) bool {
	if pos.Line < span.Start.Line || pos.Line > span.End.Line {
		return false
	}
	if pos.Line == span.Start.Line && pos.Character < span.Start.Character {
		return false
	}
	if pos.Line == span.End.Line && pos.Character > span.End.Character {
		return false
	}
	return true
}

// pomProject is the subset of a Maven descriptor consumed here
type pomProject struct {
	XMLName    xml.Name  `xml:"project"`
	GroupID    string    `xml:"groupId"`
	ArtifactID string    `xml:"artifactId"`
	Version    string    `xml:"version"`
	Parent     pomParent `xml:"parent"`
	SCM        pomSCM    `xml:"scm"`
}

type pomParent struct {
	GroupID string `xml:"groupId"`
	Version string `xml:"version"`
}

type pomSCM struct {
	URL string `xml:"url"`
}

func readDescriptorIn(dir string) *BuildDescriptor {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (name != "pom.xml" && !strings.HasSuffix(name, ".pom")) {
			continue
		}
		if desc := parsePom(filepath.Join(dir, name)); desc != nil {
			return desc
		}
	}
	return nil
}

func parsePom(path string) *BuildDescriptor {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil
	}

	group := pom.GroupID
	if group == "" {
		group = pom.Parent.GroupID
	}
	version := pom.Version
	if version == "" {
		version = pom.Parent.Version
	}
	if group == "" || pom.ArtifactID == "" {
		return nil
	}

	return &BuildDescriptor{
		GroupID:    group,
		ArtifactID: pom.ArtifactID,
		Version:    version,
		SCMURL:     pom.SCM.URL,
	}
}
