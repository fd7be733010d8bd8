// Package report fans comparison outcomes out to sinks: structured
// logs, JSON payloads, and Excel workbooks.
package report

import (
	"path"
	"strings"
	"time"

	"github.com/tablerecon/tablerecon/compare"
)

type ReportableObject interface{}

// StatusReport carries free-form progress information.
type StatusReport struct {
	Info string
}

// FileResult is the terminal outcome for one relative path in a batch,
// or for a single ad-hoc comparison.
type FileResult struct {
	Path   string
	Status compare.Status
	// Result is nil for MISSING_IN_A / MISSING_IN_B and load errors.
	Result *compare.Result
	// Err holds the captured cause for ERROR statuses.
	Err string
	// Detail names the per-file detail payload, without extension; set
	// for DIFF and DUPLICATE_KEYS.
	Detail  string
	Elapsed time.Duration
}

// DetailName derives the detail payload stem for a relative path. Path
// separators are flattened so every payload lands in one directory.
func DetailName(relPath string) string {
	stem := strings.TrimSuffix(relPath, path.Ext(relPath))
	stem = strings.ReplaceAll(stem, "/", "_")
	stem = strings.ReplaceAll(stem, "\\", "_")
	return "report_" + stem
}
