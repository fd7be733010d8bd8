package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablerecon/tablerecon/cmd/batch"
	"github.com/tablerecon/tablerecon/cmd/compare"
)

var rootCmd = &cobra.Command{
	Use:   "tablerecon",
	Short: "Reconcile tabular file trees.",
	Long:  `tablerecon compares delimited text and spreadsheet files between two file trees, producing per-file diff verdicts and an aggregated batch report.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(compare.Command())
	rootCmd.AddCommand(batch.Command())
}
