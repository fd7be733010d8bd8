package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tablerecon/tablerecon/batch"
	"github.com/tablerecon/tablerecon/cmd/internal/cmdutil"
	"github.com/tablerecon/tablerecon/report"
	"github.com/tablerecon/tablerecon/retry"
	"github.com/tablerecon/tablerecon/rules"
)

func Command() *cobra.Command {
	var (
		dirA           string
		dirB           string
		configPath     string
		outputDir      string
		keys           string
		ignoreColumns  string
		concurrency    int
		filesPerSecond int
		loadRetries    int
		extensions     string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compare two file trees and produce an aggregated report.",
		Long:  `Batch enumerates tabular files under two roots, resolves per-file key configuration from a rule set, compares each pair with failure isolation, and writes summary and detail reports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			cmdutil.RunMetricsServer(logger)

			var rs *rules.RuleSet
			if configPath != "" {
				rs, err = rules.Load(configPath)
				if err != nil {
					return err
				}
			} else {
				rs = &rules.RuleSet{
					DefaultKeys:          splitList(keys),
					DefaultIgnoreColumns: splitList(ignoreColumns),
				}
			}

			runDir := filepath.Join(
				outputDir, "batch_"+time.Now().Format("20060102_150405"),
			)
			if err := os.MkdirAll(runDir, 0755); err != nil {
				return errors.Wrap(err, "error creating output directory")
			}
			logger.Info().Str("output", runDir).Msgf("writing reports")

			reporter := report.CombinedReporter{}
			reporter.Reporters = append(reporter.Reporters, report.LogReporter{Logger: logger})
			jr, err := report.NewJSONReporter(runDir, logger)
			if err != nil {
				return err
			}
			er, err := report.NewExcelReporter(runDir, logger)
			if err != nil {
				return err
			}
			reporter.Reporters = append(reporter.Reporters, jr, er)
			defer reporter.Close()

			batchOpts := []batch.Opt{
				batch.WithConcurrency(concurrency),
				batch.WithFilesPerSecond(filesPerSecond),
				batch.WithExtensions(splitList(extensions)),
			}
			if loadRetries > 0 {
				settings := retry.DefaultSettings()
				settings.MaxAttempts = loadRetries
				batchOpts = append(batchOpts, batch.WithLoadRetry(settings))
			}

			summary, err := batch.Run(
				context.Background(), dirA, dirB, rs, logger, reporter, batchOpts...,
			)
			if err != nil {
				return errors.Wrap(err, "error running batch")
			}
			logger.Info().
				Int("files", len(summary.Files)).
				Dur("elapsed", summary.Elapsed).
				Msgf("batch finished: %s", summary.TotalsLine())
			return nil
		},
	}

	cmd.Flags().StringVar(&dirA, "dir-a", "", "root of file tree A")
	cmd.Flags().StringVar(&dirB, "dir-b", "", "root of file tree B")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON rule set")
	cmd.Flags().StringVar(&outputDir, "output", "results", "base output directory")
	cmd.Flags().StringVar(&keys, "key", "", "default key columns when no rule set is given (comma separated)")
	cmd.Flags().StringVar(&ignoreColumns, "ignore-columns", "", "default columns to ignore when no rule set is given (comma separated)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of file pairs to process at a time (defaults to number of CPUs)")
	cmd.Flags().IntVar(&filesPerSecond, "files-per-second", 0, "if set, maximum number of file pairs to start per second")
	cmd.Flags().IntVar(&loadRetries, "load-retries", 0, "if set, number of attempts to load a file before marking it as an error")
	cmd.Flags().StringVar(&extensions, "extensions", "", "file extensions to include (comma separated, defaults to .csv,.txt,.tsv,.xlsx,.xlsm)")
	for _, required := range []string{"dir-a", "dir-b"} {
		if err := cmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}
	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterMetricsFlags(cmd)
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
