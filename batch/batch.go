// Package batch orchestrates comparisons across two file trees:
// discovery, per-file rule resolution, fault-isolated execution over a
// worker pool, orphan reconciliation, and deterministic aggregation.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tablerecon/tablerecon/compare"
	"github.com/tablerecon/tablerecon/fileload"
	"github.com/tablerecon/tablerecon/filetable"
	"github.com/tablerecon/tablerecon/report"
	"github.com/tablerecon/tablerecon/retry"
	"github.com/tablerecon/tablerecon/rules"
)

var DefaultExtensions = []string{".csv", ".txt", ".tsv", ".xlsx", ".xlsm"}

type Opt func(*opts)

type opts struct {
	concurrency    int
	filesPerSecond int
	extensions     []string
	loadRetry      *retry.Settings
}

func (o opts) rateLimit() rate.Limit {
	if o.filesPerSecond == 0 {
		return rate.Inf
	}
	return rate.Limit(o.filesPerSecond)
}

// WithConcurrency bounds the worker pool. Each worker may hold two full
// tables in memory, so the bound doubles as a memory limit. Defaults to
// the number of CPUs.
func WithConcurrency(c int) Opt {
	return func(o *opts) {
		o.concurrency = c
	}
}

func WithFilesPerSecond(n int) Opt {
	return func(o *opts) {
		o.filesPerSecond = n
	}
}

func WithExtensions(exts []string) Opt {
	return func(o *opts) {
		if len(exts) > 0 {
			o.extensions = exts
		}
	}
}

// WithLoadRetry retries transient load failures before degrading a file
// to ERROR, for trees still receiving an upstream transfer.
func WithLoadRetry(settings retry.Settings) Opt {
	return func(o *opts) {
		o.loadRetry = &settings
	}
}

var (
	filesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tablerecon",
		Subsystem: "batch",
		Name:      "files_processed_total",
		Help:      "Number of file pairs processed, by terminal status.",
	}, []string{"status"})
	workersRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tablerecon",
		Subsystem: "batch",
		Name:      "workers_running",
		Help:      "Number of comparison workers that are running.",
	})
)

// Run compares every file under rootA against its counterpart under
// rootB and returns a summary sorted by relative path. A failure while
// processing one file never aborts the rest; only an invalid rule set
// is fatal, and it fails before any file is touched.
func Run(
	ctx context.Context,
	rootA, rootB string,
	rs *rules.RuleSet,
	logger zerolog.Logger,
	reporter report.Reporter,
	inOpts ...Opt,
) (*Summary, error) {
	o := opts{extensions: DefaultExtensions}
	for _, applyOpt := range inOpts {
		applyOpt(&o)
	}
	if rs == nil {
		rs = &rules.RuleSet{}
	}
	if err := rs.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid rule set")
	}

	start := time.Now()
	relsA, err := discover(rootA, o.extensions)
	if err != nil {
		return nil, errors.Wrapf(err, "error scanning %s", rootA)
	}
	logger.Info().Int("files", len(relsA)).Str("root", rootA).
		Msgf("scanned tree A")

	numWorkers := o.concurrency
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
		logger.Debug().Int("concurrency", numWorkers).
			Msgf("no concurrency set; defaulting to number of CPUs")
	}
	limiter := rate.NewLimiter(o.rateLimit(), 1)

	// Workers write to pre-sized per-index slots so the summary order is
	// unaffected by completion order.
	results := make([]report.FileResult, len(relsA))
	work := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			workersRunning.Inc()
			defer workersRunning.Dec()
			for {
				i, ok := <-work
				if !ok {
					return nil
				}
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
				results[i] = processPair(gctx, rootA, rootB, relsA[i], rs, o, logger)
				filesProcessed.WithLabelValues(string(results[i].Status)).Inc()
			}
		})
	}
	for i := range relsA {
		select {
		case work <- i:
		case <-gctx.Done():
		}
	}
	close(work)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Second pass: files that exist only under rootB were never visited
	// above and can only be found by enumerating B.
	relsB, err := discover(rootB, o.extensions)
	if err != nil {
		return nil, errors.Wrapf(err, "error scanning %s", rootB)
	}
	seen := make(map[string]struct{}, len(relsA))
	for _, rel := range relsA {
		seen[rel] = struct{}{}
	}
	for _, rel := range relsB {
		if _, ok := seen[rel]; ok {
			continue
		}
		results = append(results, report.FileResult{
			Path:   rel,
			Status: compare.StatusMissingInA,
		})
		filesProcessed.WithLabelValues(string(compare.StatusMissingInA)).Inc()
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	summary := &Summary{
		Files:   results,
		Totals:  make(map[compare.Status]int),
		Elapsed: time.Since(start),
	}
	for _, fr := range results {
		summary.Totals[fr.Status]++
		reporter.Report(fr)
	}
	reporter.Report(report.StatusReport{
		Info: fmt.Sprintf(
			"batch complete: %d files in %s (%s)",
			len(results), summary.Elapsed.Round(time.Millisecond), summary.TotalsLine(),
		),
	})
	return summary, nil
}

// processPair runs one file pair to a terminal status. All failures are
// contained here: a load error, comparator panic, or anything else
// degrades this one file to ERROR and the batch moves on.
func processPair(
	ctx context.Context,
	rootA, rootB, rel string,
	rs *rules.RuleSet,
	o opts,
	logger zerolog.Logger,
) (fr report.FileResult) {
	start := time.Now()
	fr = report.FileResult{Path: rel, Status: compare.StatusPending}
	defer func() {
		if r := recover(); r != nil {
			fr.Status = compare.StatusError
			fr.Err = fmt.Sprintf("panic: %v", r)
			logger.Error().Str("path", rel).Str("cause", fr.Err).
				Msgf("recovered panic while comparing")
		}
		fr.Elapsed = time.Since(start)
	}()

	pathB := filepath.Join(rootB, filepath.FromSlash(rel))
	if _, err := os.Stat(pathB); err != nil {
		fr.Status = compare.StatusMissingInB
		return fr
	}

	cfg := rs.Resolve(filepath.Base(rel))
	logger.Debug().Str("path", rel).Strs("keys", cfg.Keys).
		Msgf("resolved comparison config")

	fr.Status = compare.StatusLoading
	tableA, err := loadTable(ctx, logger, filepath.Join(rootA, filepath.FromSlash(rel)), cfg.Separator, o.loadRetry)
	if err != nil {
		return loadFailure(fr, logger, err)
	}
	tableB, err := loadTable(ctx, logger, pathB, cfg.Separator, o.loadRetry)
	if err != nil {
		return loadFailure(fr, logger, err)
	}

	res := compare.Run(tableA, tableB, cfg)
	fr.Status = res.Status
	fr.Result = res
	if res.Status == compare.StatusDiff || res.Status == compare.StatusDuplicateKeys {
		fr.Detail = report.DetailName(rel)
	}
	return fr
}

func loadFailure(
	fr report.FileResult, logger zerolog.Logger, err error,
) report.FileResult {
	fr.Status = compare.StatusError
	fr.Err = err.Error()
	logger.Err(err).Str("path", fr.Path).Msgf("error loading file")
	return fr
}

func loadTable(
	ctx context.Context,
	logger zerolog.Logger,
	path string,
	sep rune,
	retrySettings *retry.Settings,
) (*filetable.Table, error) {
	if retrySettings == nil {
		return fileload.Load(ctx, logger, path, sep)
	}
	var t *filetable.Table
	err := retry.Do(ctx, *retrySettings, func() error {
		var err error
		t, err = fileload.Load(ctx, logger, path, sep)
		return err
	})
	return t, err
}

// discover returns the relative paths of recognized files under root,
// sorted, with slash separators regardless of platform.
func discover(root string, extensions []string) ([]string, error) {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	var rels []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := exts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	return rels, nil
}
