package main

import (
	"testing"

	"jxref/internal/config"
)

func TestApplyIndexFlagsKeepsConfiguredRepoRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RepoRoot = "/srv/checkout"

	applyIndexFlags(indexCmd, cfg)

	if cfg.RepoRoot != "/srv/checkout" {
		t.Errorf("repo root = %q, want %q", cfg.RepoRoot, "/srv/checkout")
	}
}

func TestApplyIndexFlagsDefaultsEmptyRepoRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RepoRoot = ""

	applyIndexFlags(indexCmd, cfg)

	if cfg.RepoRoot != "." {
		t.Errorf("repo root = %q, want %q", cfg.RepoRoot, ".")
	}
}
