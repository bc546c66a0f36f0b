package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"jxref/internal/config"
	"jxref/internal/emitter"
	"jxref/internal/errors"
	"jxref/internal/indexer"
	"jxref/internal/logging"
	"jxref/internal/semantic"
	"jxref/internal/traverse"
)

var (
	indexBuildTool string
	indexPublish   bool
	indexOutput    string
	indexGzip      bool
	indexDB        string
	indexJobs      int
	indexScip      string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the LSIF cross-reference graph",
	Long: `Walks the configured source roots, resolves every identifier occurrence,
and emits the graph as a JSON-lines dump, optionally mirrored into SQLite.

Examples:
  jxref index                          # index with .jxref/config.json settings
  jxref index --build-tool gradle      # Gradle descriptor layout
  jxref index --publish                # attach the project's own package to exports
  jxref index --output dump.lsif.gz --gzip
  jxref index --db graph.db            # mirror the graph into SQLite`,
	RunE: runIndexCmd,
}

func init() {
	indexCmd.Flags().StringVar(&indexBuildTool, "build-tool", "", "Project build tool: maven or gradle")
	indexCmd.Flags().BoolVar(&indexPublish, "publish", false, "Attach the project's own package identity to exported symbols")
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "Dump file path")
	indexCmd.Flags().BoolVar(&indexGzip, "gzip", false, "Gzip-compress the dump")
	indexCmd.Flags().StringVar(&indexDB, "db", "", "Also mirror the graph into a SQLite database at this path")
	indexCmd.Flags().IntVarP(&indexJobs, "jobs", "j", 0, "Traversal worker count")
	indexCmd.Flags().StringVar(&indexScip, "scip", "", "Path to the scip-java index used as the semantic model")
	rootCmd.AddCommand(indexCmd)
}

func runIndexCmd(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.New(errors.InternalError, "get current directory", err)
	}

	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return errors.New(errors.InvalidConfig, "load configuration", err)
	}
	applyIndexFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return errors.New(errors.InvalidConfig, "validate configuration", err)
	}

	logger := newLogger(cfg.Logging.Format, cfg.Logging.Level)

	if !traverse.IsAvailable() {
		return errors.New(errors.InternalError, "this binary was built without CGO; java traversal is unavailable", nil)
	}

	emit, err := buildEmitter(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := filepath.Abs(cfg.RepoRoot)
	if err != nil {
		return errors.New(errors.InvalidConfig, "resolve repo root", err)
	}
	analyzer, err := semantic.NewSCIPAnalyzer(cfg.ScipIndex, root, logger)
	if err != nil {
		return err
	}

	runner := indexer.NewRunner(cfg, analyzer, traverse.NewWalker(), emit, logger)
	stats, runErr := runner.Run(ctx)

	if closeErr := emit.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("Indexed %d documents, %d occurrences (%d failed)\n",
		stats.Documents, stats.Occurrences, stats.Failed)
	fmt.Printf("Dump written to: %s\n", cfg.Output.Path)
	if cfg.Output.DBPath != "" {
		fmt.Printf("Graph database: %s\n", cfg.Output.DBPath)
	}
	return nil
}

// applyIndexFlags overlays explicitly-set flags on the loaded config
func applyIndexFlags(cmd *cobra.Command, cfg *config.Config) {
	if cfg.RepoRoot == "" {
		cfg.RepoRoot = "."
	}
	if cmd.Flags().Changed("build-tool") {
		cfg.BuildTool = indexBuildTool
	}
	if cmd.Flags().Changed("publish") {
		cfg.Publish = indexPublish
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Path = indexOutput
	}
	if cmd.Flags().Changed("gzip") {
		cfg.Output.Gzip = indexGzip
	}
	if cmd.Flags().Changed("db") {
		cfg.Output.DBPath = indexDB
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Runner.Jobs = indexJobs
	}
	if cmd.Flags().Changed("scip") {
		cfg.ScipIndex = indexScip
	}
}

// buildEmitter assembles the output chain: the JSON-lines dump, plus a
// SQLite mirror when configured.
func buildEmitter(cfg *config.Config, logger *logging.Logger) (emitter.Emitter, error) {
	dump, err := emitter.OpenFile(cfg.Output.Path, cfg.Output.Gzip)
	if err != nil {
		return nil, err
	}
	if cfg.Output.DBPath == "" {
		return dump, nil
	}

	db, err := emitter.OpenSQLite(cfg.Output.DBPath, logger)
	if err != nil {
		dump.Close()
		return nil, err
	}
	return emitter.NewTee(dump, db), nil
}
