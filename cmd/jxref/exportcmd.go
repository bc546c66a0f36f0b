package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jxref/internal/errors"
	"jxref/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <dump>",
	Short: "Convert an emitted dump",
	Long: `Reads a JSON-lines dump (plain or gzipped) and converts it.

Formats:
  scip   SCIP protobuf index
  stats  yaml graph summary

Examples:
  jxref export index.lsif --format scip --output index.scip
  jxref export index.lsif.gz --format stats --output summary.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "scip", "Output format: scip or stats")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (required)")
	exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	elements, err := export.ReadDump(args[0])
	if err != nil {
		return err
	}

	switch exportFormat {
	case "scip":
		if err := export.WriteSCIP(export.NewGraph(elements), exportOutput); err != nil {
			return err
		}
	case "stats":
		if err := export.WriteStatsFile(elements, exportOutput); err != nil {
			return err
		}
	default:
		return errors.New(errors.InvalidConfig,
			fmt.Sprintf("unknown export format %q (scip, stats)", exportFormat), nil)
	}

	fmt.Printf("Exported %d elements to %s\n", len(elements), exportOutput)
	return nil
}
