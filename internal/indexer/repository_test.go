package indexer

import (
	"io"
	"sync"
	"testing"

	"jxref/internal/emitter"
	"jxref/internal/logging"
	"jxref/internal/lsif"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
}

func newTestRepo() (*Repository, *emitter.Collector, *lsif.Project) {
	builder := lsif.NewBuilder()
	collector := emitter.NewCollector()
	repo := NewRepository(builder, collector, testLogger())
	return repo, collector, builder.Project("java")
}

func span(line, char, endChar int) lsif.Span {
	return lsif.Span{
		Start: lsif.Position{Line: line, Character: char},
		End:   lsif.Position{Line: line, Character: endChar},
	}
}

func TestEnlistDocumentIdempotent(t *testing.T) {
	repo, collector, project := newTestRepo()

	first, err := repo.EnlistDocument(project, "file:///src/Foo.java")
	if err != nil {
		t.Fatalf("EnlistDocument() error = %v", err)
	}

	// Spelling variants of the same file must converge on one vertex.
	variants := []string{
		"file:///src/Foo.java",
		"FILE:///src/Foo.java",
		"file:///src\\Foo.java",
		"file:///src/Foo%2Ejava",
	}
	for _, uri := range variants {
		doc, err := repo.EnlistDocument(project, uri)
		if err != nil {
			t.Fatalf("EnlistDocument(%q) error = %v", uri, err)
		}
		if doc != first {
			t.Errorf("EnlistDocument(%q) returned a new document", uri)
		}
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelDocument); n != 1 {
		t.Errorf("document vertices = %d, want 1", n)
	}
	if n := collector.Count(lsif.VertexElement, lsif.LabelEvent); n != 1 {
		t.Errorf("begin events = %d, want 1", n)
	}
	if n := collector.Count(lsif.EdgeElement, lsif.LabelContains); n != 1 {
		t.Errorf("contains edges = %d, want 1", n)
	}
}

func TestEnlistDocumentConcurrent(t *testing.T) {
	repo, collector, project := newTestRepo()

	const workers = 32
	docs := make([]*lsif.Document, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := repo.EnlistDocument(project, "file:///src/Foo.java")
			if err != nil {
				t.Errorf("EnlistDocument() error = %v", err)
				return
			}
			docs[i] = doc
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if docs[i] != docs[0] {
			t.Fatalf("worker %d saw a different document vertex", i)
		}
	}
	if n := collector.Count(lsif.VertexElement, lsif.LabelDocument); n != 1 {
		t.Errorf("document vertices = %d, want 1", n)
	}
}

func TestEnlistRangeScopedPerDocument(t *testing.T) {
	repo, collector, project := newTestRepo()

	docA, _ := repo.EnlistDocument(project, "file:///src/A.java")
	docB, _ := repo.EnlistDocument(project, "file:///src/B.java")
	s := span(3, 4, 7)

	first, err := repo.EnlistRange(docA, s)
	if err != nil {
		t.Fatalf("EnlistRange() error = %v", err)
	}
	again, _ := repo.EnlistRange(docA, s)
	if again != first {
		t.Error("same (document, span) produced a second range")
	}

	other, _ := repo.EnlistRange(docB, s)
	if other == first {
		t.Error("same span in another document reused the range")
	}

	if n := collector.Count(lsif.VertexElement, lsif.LabelRange); n != 2 {
		t.Errorf("range vertices = %d, want 2", n)
	}
}

func TestEnlistRangeConcurrent(t *testing.T) {
	repo, collector, project := newTestRepo()
	doc, _ := repo.EnlistDocument(project, "file:///src/A.java")
	s := span(1, 0, 5)

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.EnlistRange(doc, s); err != nil {
				t.Errorf("EnlistRange() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := collector.Count(lsif.VertexElement, lsif.LabelRange); n != 1 {
		t.Errorf("range vertices = %d, want 1", n)
	}
}

func TestEnlistSymbolDataFirstWriterWins(t *testing.T) {
	repo, _, project := newTestRepo()
	docA, _ := repo.EnlistDocument(project, "file:///src/A.java")
	docB, _ := repo.EnlistDocument(project, "file:///src/B.java")

	key := SymbolKey("file:///src/A.java", span(3, 4, 7))
	first := repo.EnlistSymbolData(key, docA, project)
	second := repo.EnlistSymbolData(key, docB, project)
	if second != first {
		t.Error("same definition key produced a second symbol record")
	}
	if first.document != docA {
		t.Error("symbol record did not keep its first document")
	}
}

func TestEnlistImportPackage(t *testing.T) {
	repo, collector, _ := newTestRepo()

	tests := []struct {
		name    string
		manager lsif.PackageManager
		url     string
		wantNil bool
		wantURL bool
	}{
		{"maven with scm", lsif.Maven, "https://github.com/acme/lib", false, true},
		{"gradle with scm", lsif.Gradle, "https://github.com/acme/other", false, true},
		{"jdk drops url", lsif.JDK, "https://example.com", false, false},
		{"unknown manager", lsif.PackageManager("npm"), "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := repo.EnlistImportPackage("import:"+tt.name, "acme/lib", tt.manager, "1.0", tt.url)
			if tt.wantNil {
				if pkg != nil {
					t.Fatal("expected nil descriptor")
				}
				return
			}
			if pkg == nil {
				t.Fatal("expected a descriptor")
			}
			if got := pkg.Repository != nil; got != tt.wantURL {
				t.Errorf("repository attached = %v, want %v", got, tt.wantURL)
			}
		})
	}

	// Enlisting registers without emitting.
	if n := collector.Count(lsif.VertexElement, lsif.LabelPackageInformation); n != 0 {
		t.Errorf("packageInformation vertices emitted at enlist time = %d, want 0", n)
	}

	again := repo.EnlistImportPackage("import:maven with scm", "acme/lib", lsif.Maven, "1.0", "")
	first := repo.EnlistImportPackage("import:maven with scm", "acme/lib", lsif.Maven, "1.0", "")
	if again != first {
		t.Error("same identity key produced a second import descriptor")
	}
}

func TestEnlistExportPackage(t *testing.T) {
	repo, _, _ := newTestRepo()

	maven := repo.EnlistExportPackage("export:a", "acme/lib", lsif.Maven, "1.0", "https://github.com/acme/lib")
	if maven == nil || maven.Repository == nil {
		t.Error("maven export descriptor should carry its repository")
	}

	gradle := repo.EnlistExportPackage("export:b", "acme/lib", lsif.Gradle, "1.0", "https://github.com/acme/lib")
	if gradle == nil {
		t.Fatal("gradle export descriptor missing")
	}
	if gradle.Repository != nil {
		t.Error("gradle export descriptor should not carry a repository")
	}

	if pkg := repo.EnlistExportPackage("export:c", "java.base", lsif.JDK, "17", ""); pkg != nil {
		t.Error("jdk manager is not a valid export direction")
	}
}

func TestMarkPackageEmitted(t *testing.T) {
	repo, _, _ := newTestRepo()

	if repo.MarkPackageEmitted("import:acme/lib") {
		t.Error("first mark reported already emitted")
	}
	if !repo.MarkPackageEmitted("import:acme/lib") {
		t.Error("second mark reported not yet emitted")
	}
	if repo.MarkPackageEmitted("export:acme/lib") {
		t.Error("directions share one emission mark")
	}
}

func TestCloseAll(t *testing.T) {
	repo, collector, project := newTestRepo()
	repo.EnlistDocument(project, "file:///src/A.java")
	repo.EnlistDocument(project, "file:///src/B.java")

	if err := repo.CloseAll(); err != nil {
		t.Fatalf("CloseAll() error = %v", err)
	}
	// 2 begin + 2 end
	if n := collector.Count(lsif.VertexElement, lsif.LabelEvent); n != 4 {
		t.Errorf("events = %d, want 4", n)
	}

	if err := repo.CloseAll(); err != nil {
		t.Fatalf("second CloseAll() error = %v", err)
	}
	if n := collector.Count(lsif.VertexElement, lsif.LabelEvent); n != 4 {
		t.Errorf("events after second CloseAll = %d, want 4", n)
	}
}
