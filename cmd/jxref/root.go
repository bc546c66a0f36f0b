package main

import (
	"jxref/internal/logging"
	"jxref/internal/version"

	"github.com/spf13/cobra"
)

var (
	// verboseFlag raises the log level to debug for one invocation
	verboseFlag bool
	// logFormatFlag overrides the configured log format
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "jxref",
	Short: "jxref - Java cross-reference index builder",
	Long: `jxref builds an LSIF cross-reference graph for Java projects: definitions,
references, hovers, type definitions, implementations, and cross-project
monikers with Maven/Gradle/JDK package attribution.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("jxref version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: human or json")
}

// newLogger builds the command logger from config plus flag overrides.
// Flags win over config.
func newLogger(format, level string) *logging.Logger {
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	if verboseFlag {
		level = "debug"
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.ParseLevel(level),
	})
}
