package compare

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tablerecon/tablerecon/cmd/internal/cmdutil"
	"github.com/tablerecon/tablerecon/compare"
	"github.com/tablerecon/tablerecon/fileload"
	"github.com/tablerecon/tablerecon/report"
	"github.com/tablerecon/tablerecon/rules"
)

func Command() *cobra.Command {
	var (
		fileA         string
		fileB         string
		keys          string
		ignoreColumns string
		separator     string
		jsonDir       string
		excelDir      string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a single pair of tabular files.",
		Long:  `Compare validates headers, checks key uniqueness and diffs two tabular files, either positionally or by key columns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}

			cfg := rules.KeyConfig{
				Keys:          splitList(keys),
				IgnoreColumns: splitList(ignoreColumns),
				Separator:     rules.DefaultSeparator,
			}
			if separator != "" {
				runes := []rune(separator)
				if len(runes) != 1 {
					return errors.Newf("separator must be a single character, got %q", separator)
				}
				cfg.Separator = runes[0]
			}

			ctx := context.Background()
			start := time.Now()
			tableA, err := fileload.Load(ctx, logger, fileA, cfg.Separator)
			if err != nil {
				return errors.Wrap(err, "error loading file A")
			}
			tableB, err := fileload.Load(ctx, logger, fileB, cfg.Separator)
			if err != nil {
				return errors.Wrap(err, "error loading file B")
			}

			reporter := report.CombinedReporter{}
			reporter.Reporters = append(reporter.Reporters, report.LogReporter{Logger: logger})
			if jsonDir != "" {
				jr, err := report.NewJSONReporter(jsonDir, logger)
				if err != nil {
					return err
				}
				reporter.Reporters = append(reporter.Reporters, jr)
			}
			if excelDir != "" {
				er, err := report.NewExcelReporter(excelDir, logger)
				if err != nil {
					return err
				}
				reporter.Reporters = append(reporter.Reporters, er)
			}
			defer reporter.Close()

			res := compare.Run(tableA, tableB, cfg)
			fr := report.FileResult{
				Path:    fileB,
				Status:  res.Status,
				Result:  res,
				Elapsed: time.Since(start),
			}
			if res.Status == compare.StatusDiff || res.Status == compare.StatusDuplicateKeys {
				fr.Detail = report.DetailName(fileB)
			}
			reporter.Report(fr)

			if res.Status == compare.StatusKeyNotFound {
				return errors.Newf("key columns not found in usable header intersection")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fileA, "file-a", "", "path to the first file")
	cmd.Flags().StringVar(&fileB, "file-b", "", "path to the second file")
	cmd.Flags().StringVar(&keys, "key", "", "comma-separated key columns (positional comparison when empty)")
	cmd.Flags().StringVar(&ignoreColumns, "ignore-columns", "", "comma-separated columns to exclude from comparison")
	cmd.Flags().StringVar(&separator, "separator", "", "field separator for delimited files (defaults to ';')")
	cmd.Flags().StringVar(&jsonDir, "json", "", "directory to write JSON reports into")
	cmd.Flags().StringVar(&excelDir, "excel", "", "directory to write Excel reports into")
	for _, required := range []string{"file-a", "file-b"} {
		if err := cmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}
	cmdutil.RegisterLoggerFlags(cmd)
	return cmd
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
