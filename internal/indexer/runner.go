package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jxref/internal/config"
	"jxref/internal/emitter"
	"jxref/internal/errors"
	"jxref/internal/logging"
	"jxref/internal/lsif"
	"jxref/internal/packages"
	"jxref/internal/semantic"
	"jxref/internal/version"
)

// Traverser produces the occurrence stream for one document. The
// tree-sitter implementation lives in internal/traverse; tests plug in
// canned streams.
type Traverser interface {
	Occurrences(ctx context.Context, path string, source []byte) ([]Occurrence, error)
}

// Stats summarizes one indexing run
type Stats struct {
	RunID       string
	Documents   int
	Occurrences int64
	Failed      int
}

// Runner coordinates one indexing run: it owns the repository, walks the
// source tree, and fans documents out to traversal workers. Occurrences
// within one document resolve in traversal order; between documents no
// order is guaranteed.
type Runner struct {
	cfg       *config.Config
	analyzer  semantic.Analyzer
	traverser Traverser
	emit      emitter.Emitter
	logger    *logging.Logger
}

// NewRunner wires a run from its collaborators
func NewRunner(cfg *config.Config, analyzer semantic.Analyzer, traverser Traverser, emit emitter.Emitter, logger *logging.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		analyzer:  analyzer,
		traverser: traverser,
		emit:      emit,
		logger:    logger,
	}
}

// Run indexes the configured source roots and emits the graph. The run
// is best-effort: per-occurrence failures degrade locally and the graph
// is emitted without the affected edges.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	root, err := filepath.Abs(r.cfg.RepoRoot)
	if err != nil {
		return nil, errors.New(errors.InvalidConfig, "resolve repo root", err)
	}

	stats := &Stats{RunID: uuid.New().String()}
	r.logger.Info("starting indexing run", map[string]interface{}{
		"run_id":     stats.RunID,
		"root":       root,
		"build_tool": r.cfg.BuildTool,
		"publish":    r.cfg.Publish,
	})

	builder := lsif.NewBuilder()
	repo := NewRepository(builder, r.emit, r.logger)

	meta := builder.MetaData(FileURI(root), "jxref", version.Version)
	if err := r.emit.Emit(meta); err != nil {
		return nil, err
	}
	project := builder.Project("java")
	if err := r.emit.Emit(project); err != nil {
		return nil, err
	}
	if err := r.emit.Emit(builder.Event(lsif.ProjectScope, lsif.BeginEvent, project.ID())); err != nil {
		return nil, err
	}

	catalog, err := packages.LoadCatalog(root)
	if err != nil {
		r.logger.Warn("version catalog unreadable, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
	}
	pkgs := packages.NewResolver(r.analyzer, config.BuildTool(r.cfg.BuildTool), root, catalog)
	resolver := NewResolver(repo, r.analyzer, pkgs, project, r.cfg.Publish, r.logger)

	files, err := r.collectSources(root)
	if err != nil {
		return nil, err
	}
	stats.Documents = len(files)

	var occurrences, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Runner.Jobs)
	for _, path := range files {
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				failed.Add(1)
				r.logger.Warn("skipping unreadable source", map[string]interface{}{
					"path":  path,
					"error": err.Error(),
				})
				return nil
			}

			doc, err := repo.EnlistDocument(project, FileURI(path))
			if err != nil {
				return err
			}

			occs, err := r.traverser.Occurrences(gctx, path, source)
			if err != nil {
				failed.Add(1)
				r.logger.Warn("traversal failed for document", map[string]interface{}{
					"path":  path,
					"error": err.Error(),
				})
				return nil
			}

			for _, occ := range occs {
				resolver.ResolveOccurrence(gctx, doc, occ)
			}
			occurrences.Add(int64(len(occs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := repo.CloseAll(); err != nil {
		return nil, err
	}
	if err := r.emit.Emit(builder.Event(lsif.ProjectScope, lsif.EndEvent, project.ID())); err != nil {
		return nil, err
	}

	stats.Occurrences = occurrences.Load()
	stats.Failed = int(failed.Load())
	r.logger.Info("indexing run complete", map[string]interface{}{
		"run_id":      stats.RunID,
		"documents":   stats.Documents,
		"occurrences": stats.Occurrences,
		"failed":      stats.Failed,
	})
	return stats, nil
}

func (r *Runner) collectSources(root string) ([]string, error) {
	var files []string

	for _, src := range r.cfg.Sources {
		base := filepath.Join(root, src)
		if _, err := os.Stat(base); os.IsNotExist(err) {
			continue
		}

		err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // unreadable entries degrade to skips
			}
			if info.IsDir() {
				name := info.Name()
				if strings.HasPrefix(name, ".") || r.excluded(name) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".java") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.New(errors.SourceUnreadable, fmt.Sprintf("walk %s", base), err)
		}
	}
	return files, nil
}

func (r *Runner) excluded(name string) bool {
	for _, ex := range r.cfg.Excludes {
		if name == ex {
			return true
		}
	}
	return false
}

// FileURI converts an absolute path to a file URI
func FileURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}
