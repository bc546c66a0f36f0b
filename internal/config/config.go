// Package config loads and validates the per-project indexer configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BuildTool identifies the project's own build system
type BuildTool string

const (
	// Maven projects resolve dependency descriptors one level above the jar
	Maven BuildTool = "maven"
	// Gradle projects resolve dependency descriptors two levels above the
	// jar, matching the Gradle cache extraction layout
	Gradle BuildTool = "gradle"
)

// Config represents the complete jxref configuration
type Config struct {
	Version   int      `json:"version" mapstructure:"version"`
	RepoRoot  string   `json:"repoRoot" mapstructure:"repoRoot"`
	BuildTool string   `json:"buildTool" mapstructure:"buildTool"`
	Publish   bool     `json:"publish" mapstructure:"publish"`
	Sources   []string `json:"sources" mapstructure:"sources"`
	Excludes  []string `json:"excludes" mapstructure:"excludes"`
	// ScipIndex is the semantic model consumed during resolution,
	// produced by scip-java against the same sources
	ScipIndex string `json:"scipIndex" mapstructure:"scipIndex"`

	Output  OutputConfig  `json:"output" mapstructure:"output"`
	Runner  RunnerConfig  `json:"runner" mapstructure:"runner"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// OutputConfig controls where and how the graph is written
type OutputConfig struct {
	Path   string `json:"path" mapstructure:"path"`
	Gzip   bool   `json:"gzip" mapstructure:"gzip"`
	DBPath string `json:"dbPath" mapstructure:"dbPath"`
}

// RunnerConfig controls traversal parallelism
type RunnerConfig struct {
	Jobs int `json:"jobs" mapstructure:"jobs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		RepoRoot:  ".",
		BuildTool: string(Maven),
		Publish:   false,
		Sources:   []string{"src/main/java", "src"},
		Excludes:  []string{"target", "build", ".gradle", "node_modules"},
		ScipIndex: "index.scip",
		Output: OutputConfig{
			Path: "index.lsif",
		},
		Runner: RunnerConfig{
			Jobs: 4,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .jxref/config.json, falling back to
// defaults when the file does not exist
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")
	v.SetDefault("buildTool", string(Maven))
	v.SetDefault("sources", []string{"src/main/java", "src"})
	v.SetDefault("scipIndex", "index.scip")
	v.SetDefault("output.path", "index.lsif")
	v.SetDefault("runner.jobs", 4)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".jxref"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .jxref/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".jxref")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	switch BuildTool(c.BuildTool) {
	case Maven, Gradle:
	default:
		return &ConfigError{Field: "buildTool", Message: "must be maven or gradle"}
	}
	if c.Runner.Jobs < 1 {
		return &ConfigError{Field: "runner.jobs", Message: "must be at least 1"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
