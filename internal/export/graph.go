package export

import (
	"sort"

	"jxref/internal/lsif"
)

// Graph is a queryable view over one dump's elements
type Graph struct {
	ProjectRoot string
	Tool        lsif.ToolInfo

	documents map[int64]*Element
	ranges    map[int64]*Element
	monikers  map[int64]*Element
	packages  map[int64]*Element

	rangesOf    map[int64][]int64 // document -> contained ranges
	resultSetOf map[int64]int64   // range -> result set
	monikerOf   map[int64]int64   // result set -> moniker
	packageOf   map[int64]int64   // moniker -> package

	definitions map[int64]bool // range ids serving as definition items
}

// NewGraph indexes the element stream
func NewGraph(elements []Element) *Graph {
	g := &Graph{
		documents:   map[int64]*Element{},
		ranges:      map[int64]*Element{},
		monikers:    map[int64]*Element{},
		packages:    map[int64]*Element{},
		rangesOf:    map[int64][]int64{},
		resultSetOf: map[int64]int64{},
		monikerOf:   map[int64]int64{},
		packageOf:   map[int64]int64{},
		definitions: map[int64]bool{},
	}

	for i := range elements {
		el := &elements[i]
		if el.Type == string(lsif.VertexElement) {
			switch lsif.Label(el.Label) {
			case lsif.LabelMetaData:
				g.ProjectRoot = el.ProjectRoot
				if el.ToolInfo != nil {
					g.Tool = *el.ToolInfo
				}
			case lsif.LabelDocument:
				g.documents[el.ID] = el
			case lsif.LabelRange:
				g.ranges[el.ID] = el
			case lsif.LabelMoniker:
				g.monikers[el.ID] = el
			case lsif.LabelPackageInformation:
				g.packages[el.ID] = el
			}
			continue
		}

		switch lsif.Label(el.Label) {
		case lsif.LabelContains:
			for _, in := range el.Targets() {
				g.rangesOf[el.OutV] = append(g.rangesOf[el.OutV], in)
			}
		case lsif.LabelNext:
			g.resultSetOf[el.OutV] = el.InV
		case lsif.LabelMonikerEdge:
			g.monikerOf[el.OutV] = el.InV
		case lsif.LabelPackageEdge:
			g.packageOf[el.OutV] = el.InV
		case lsif.LabelItem:
			if lsif.ItemProperty(el.Property) == lsif.DefinitionsProperty {
				for _, in := range el.Targets() {
					g.definitions[in] = true
				}
			}
		}
	}
	return g
}

// Documents returns document vertices sorted by URI
func (g *Graph) Documents() []*Element {
	out := make([]*Element, 0, len(g.documents))
	for _, doc := range g.documents {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// RangesIn returns the ranges contained in a document, in stream order
func (g *Graph) RangesIn(docID int64) []*Element {
	var out []*Element
	for _, id := range g.rangesOf[docID] {
		if rng, ok := g.ranges[id]; ok {
			out = append(out, rng)
		}
	}
	return out
}

// MonikerFor walks range -> resultSet -> moniker, nil when any hop is
// missing.
func (g *Graph) MonikerFor(rangeID int64) *Element {
	rs, ok := g.resultSetOf[rangeID]
	if !ok {
		return nil
	}
	m, ok := g.monikerOf[rs]
	if !ok {
		return nil
	}
	return g.monikers[m]
}

// PackageFor resolves the package descriptor attached to a moniker
func (g *Graph) PackageFor(monikerID int64) *Element {
	p, ok := g.packageOf[monikerID]
	if !ok {
		return nil
	}
	return g.packages[p]
}

// IsDefinition reports whether the range serves as a definition item
func (g *Graph) IsDefinition(rangeID int64) bool {
	return g.definitions[rangeID]
}
