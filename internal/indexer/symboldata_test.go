package indexer

import (
	"context"
	"testing"

	"jxref/internal/lsif"
	"jxref/internal/semantic"
)

func TestEnsureResultSetLinksEachRangeOnce(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	r1, _ := repo.EnlistRange(doc, span(1, 0, 3))
	r2, _ := repo.EnlistRange(doc, span(2, 0, 3))

	sd := repo.EnlistSymbolData("k", doc, project)
	for _, rng := range []*lsif.Range{r1, r2, r1} {
		if err := sd.EnsureResultSet(repo, rng); err != nil {
			t.Fatalf("EnsureResultSet() error = %v", err)
		}
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelResultSet); n != 1 {
		t.Errorf("resultSet vertices = %d, want 1", n)
	}
	if n := collector.Count(lsif.EdgeElement, lsif.LabelNext); n != 2 {
		t.Errorf("next edges = %d, want 2", n)
	}
}

func TestResolveDefinitionOnce(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	rng, _ := repo.EnlistRange(doc, span(5, 8, 11))

	sd := repo.EnlistSymbolData("k", doc, project)
	if err := sd.EnsureResultSet(repo, rng); err != nil {
		t.Fatal(err)
	}

	def := &semantic.Location{URI: "file:///src/A.java", Span: span(1, 13, 16)}
	for i := 0; i < 3; i++ {
		if err := sd.ResolveDefinition(repo, def); err != nil {
			t.Fatalf("ResolveDefinition() error = %v", err)
		}
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelDefinitionResult); n != 1 {
		t.Errorf("definitionResult vertices = %d, want 1", n)
	}
	if n := collector.Count(lsif.EdgeElement, lsif.LabelDefinition); n != 1 {
		t.Errorf("definition edges = %d, want 1", n)
	}
	if n := collector.Count(lsif.EdgeElement, lsif.LabelItem); n != 1 {
		t.Errorf("item edges = %d, want 1", n)
	}
}

func TestResolveDefinitionRequiresResultSet(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")

	sd := repo.EnlistSymbolData("k", doc, project)
	def := &semantic.Location{URI: "file:///src/A.java", Span: span(1, 13, 16)}
	if err := sd.ResolveDefinition(repo, def); err != nil {
		t.Fatalf("ResolveDefinition() error = %v", err)
	}
	if n := collector.Count(lsif.VertexElement, lsif.LabelDefinitionResult); n != 0 {
		t.Errorf("definitionResult vertices without a result set = %d, want 0", n)
	}
}

func TestResolveReferenceAccumulates(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	r1, _ := repo.EnlistRange(doc, span(5, 8, 11))
	r2, _ := repo.EnlistRange(doc, span(9, 8, 11))

	sd := repo.EnlistSymbolData("k", doc, project)
	if err := sd.EnsureResultSet(repo, r1); err != nil {
		t.Fatal(err)
	}

	def := &semantic.Location{URI: "file:///src/A.java", Span: span(1, 13, 16)}
	for _, rng := range []*lsif.Range{r1, r2, r1} {
		if err := sd.ResolveReference(repo, doc, def, rng); err != nil {
			t.Fatalf("ResolveReference() error = %v", err)
		}
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelReferenceResult); n != 1 {
		t.Errorf("referenceResult vertices = %d, want 1", n)
	}
	if n := collector.Count(lsif.EdgeElement, lsif.LabelReferences); n != 1 {
		t.Errorf("references edges = %d, want 1", n)
	}

	// One definitions item plus one item per distinct source range.
	var defs, refs int
	for _, el := range collector.Elements() {
		item, ok := el.(*lsif.ItemEdge)
		if !ok {
			continue
		}
		switch item.Property {
		case lsif.DefinitionsProperty:
			defs++
		case lsif.ReferencesProperty:
			refs++
		}
	}
	if defs != 1 {
		t.Errorf("definitions items = %d, want 1", defs)
	}
	if refs != 2 {
		t.Errorf("references items = %d, want 2", refs)
	}
}

func TestResolveReferenceSkipsDefiningRange(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	defSpan := span(1, 13, 16)
	defRange, _ := repo.EnlistRange(doc, defSpan)

	sd := repo.EnlistSymbolData("k", doc, project)
	if err := sd.EnsureResultSet(repo, defRange); err != nil {
		t.Fatal(err)
	}

	def := &semantic.Location{URI: "file:///src/A.java", Span: defSpan}
	if err := sd.ResolveReference(repo, doc, def, defRange); err != nil {
		t.Fatal(err)
	}

	// The defining range enters as the definitions item, never again as
	// a references item.
	for _, el := range collector.Elements() {
		if item, ok := el.(*lsif.ItemEdge); ok && item.Property == lsif.ReferencesProperty {
			t.Error("defining range re-emitted as a references item")
		}
	}
}

func TestResolveTypeDefinitionOnce(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	rng, _ := repo.EnlistRange(doc, span(5, 8, 11))

	fake := semantic.NewFakeAnalyzer()
	fake.TypeDefs[semantic.Key(doc.URI, lsif.Position{Line: 5, Character: 8})] = &semantic.Location{
		URI: "file:///src/T.java", Span: span(0, 13, 14),
	}

	sd := repo.EnlistSymbolData("k", doc, project)
	if err := sd.EnsureResultSet(repo, rng); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := sd.ResolveTypeDefinition(ctx, repo, fake, doc, span(5, 8, 11)); err != nil {
			t.Fatalf("ResolveTypeDefinition() error = %v", err)
		}
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelTypeDefResult); n != 1 {
		t.Errorf("typeDefinitionResult vertices = %d, want 1", n)
	}
	if n := collector.Count(lsif.EdgeElement, lsif.LabelTypeDef); n != 1 {
		t.Errorf("typeDefinition edges = %d, want 1", n)
	}
}

func TestResolveTypeDefinitionAbsentStillSettles(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	rng, _ := repo.EnlistRange(doc, span(5, 8, 11))

	fake := semantic.NewFakeAnalyzer()
	sd := repo.EnlistSymbolData("k", doc, project)
	if err := sd.EnsureResultSet(repo, rng); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := sd.ResolveTypeDefinition(ctx, repo, fake, doc, span(5, 8, 11)); err != nil {
		t.Fatal(err)
	}

	// A target registered after the first query never surfaces.
	fake.TypeDefs[semantic.Key(doc.URI, lsif.Position{Line: 5, Character: 8})] = &semantic.Location{
		URI: "file:///src/T.java", Span: span(0, 13, 14),
	}
	if err := sd.ResolveTypeDefinition(ctx, repo, fake, doc, span(5, 8, 11)); err != nil {
		t.Fatal(err)
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelTypeDefResult); n != 0 {
		t.Errorf("typeDefinitionResult vertices = %d, want 0", n)
	}
}

func TestResolveImplementationLinksAllTargets(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/Base.java")
	rng, _ := repo.EnlistRange(doc, span(2, 17, 21))

	fake := semantic.NewFakeAnalyzer()
	fake.Impls[semantic.Key(doc.URI, lsif.Position{Line: 2, Character: 17})] = []semantic.Location{
		{URI: "file:///src/ImplA.java", Span: span(2, 13, 18)},
		{URI: "file:///src/ImplB.java", Span: span(2, 13, 18)},
	}

	sd := repo.EnlistSymbolData("k", doc, project)
	if err := sd.EnsureResultSet(repo, rng); err != nil {
		t.Fatal(err)
	}
	if err := sd.ResolveImplementation(context.Background(), repo, fake, doc, span(2, 17, 21)); err != nil {
		t.Fatalf("ResolveImplementation() error = %v", err)
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelImplResult); n != 1 {
		t.Errorf("implementationResult vertices = %d, want 1", n)
	}
	if n := collector.Count(lsif.EdgeElement, lsif.LabelImplChildren); n != 1 {
		t.Errorf("implementation edges = %d, want 1", n)
	}
	// Implementation documents get enlisted on the way.
	if n := collector.Count(lsif.VertexElement, lsif.LabelDocument); n != 3 {
		t.Errorf("document vertices = %d, want 3", n)
	}
}

func TestResolveHoverEmptySettles(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	rng, _ := repo.EnlistRange(doc, span(5, 8, 11))

	fake := semantic.NewFakeAnalyzer()
	sd := repo.EnlistSymbolData("k", doc, project)
	if err := sd.EnsureResultSet(repo, rng); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := sd.ResolveHover(ctx, repo, fake, doc, span(5, 8, 11)); err != nil {
		t.Fatal(err)
	}
	fake.Hovers[semantic.Key(doc.URI, lsif.Position{Line: 5, Character: 8})] = "late docs"
	if err := sd.ResolveHover(ctx, repo, fake, doc, span(5, 8, 11)); err != nil {
		t.Fatal(err)
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelHoverResult); n != 0 {
		t.Errorf("hoverResult vertices = %d, want 0", n)
	}
}

func TestAttachMonikerAtMostOnce(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	rng, _ := repo.EnlistRange(doc, span(5, 8, 11))

	sd := repo.EnlistSymbolData("k", doc, project)
	if err := sd.EnsureResultSet(repo, rng); err != nil {
		t.Fatal(err)
	}

	if err := sd.AttachMoniker(repo, lsif.ExportMoniker, "com.acme.Foo", nil, ""); err != nil {
		t.Fatalf("AttachMoniker() error = %v", err)
	}
	if err := sd.AttachMoniker(repo, lsif.ImportMoniker, "com.acme.Foo", nil, ""); err != nil {
		t.Fatalf("second AttachMoniker() error = %v", err)
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelMoniker); n != 1 {
		t.Errorf("moniker vertices = %d, want 1", n)
	}
	if !sd.HasMoniker() {
		t.Error("HasMoniker() = false after attach")
	}

	for _, el := range collector.Elements() {
		if m, ok := el.(*lsif.Moniker); ok {
			if m.Kind != lsif.ExportMoniker {
				t.Errorf("surviving moniker kind = %q, want %q", m.Kind, lsif.ExportMoniker)
			}
			if m.Scheme != "jxref" {
				t.Errorf("moniker scheme = %q, want %q", m.Scheme, "jxref")
			}
		}
	}
}

func TestAttachMonikerSharedPackageEmittedOnce(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	r1, _ := repo.EnlistRange(doc, span(1, 0, 3))
	r2, _ := repo.EnlistRange(doc, span(2, 0, 3))

	pkg := repo.EnlistImportPackage("import:acme/lib", "acme/lib", lsif.Maven, "1.0", "")

	s1 := repo.EnlistSymbolData("k1", doc, project)
	s2 := repo.EnlistSymbolData("k2", doc, project)
	if err := s1.EnsureResultSet(repo, r1); err != nil {
		t.Fatal(err)
	}
	if err := s2.EnsureResultSet(repo, r2); err != nil {
		t.Fatal(err)
	}

	if err := s1.AttachMoniker(repo, lsif.ImportMoniker, "acme.lib.A", pkg, "import:acme/lib"); err != nil {
		t.Fatal(err)
	}
	if err := s2.AttachMoniker(repo, lsif.ImportMoniker, "acme.lib.B", pkg, "import:acme/lib"); err != nil {
		t.Fatal(err)
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelPackageInformation); n != 1 {
		t.Errorf("packageInformation vertices = %d, want 1", n)
	}
	if n := collector.Count(lsif.EdgeElement, lsif.LabelPackageEdge); n != 2 {
		t.Errorf("packageInformation edges = %d, want 2", n)
	}
}
