package batch

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tablerecon/tablerecon/compare"
	"github.com/tablerecon/tablerecon/report"
)

// Summary is the aggregated outcome of a batch run: one entry per file
// discovered on either side, sorted by relative path independent of
// execution order.
type Summary struct {
	Files   []report.FileResult
	Totals  map[compare.Status]int
	Elapsed time.Duration
}

// TotalsLine renders per-status counts for logging, statuses sorted for
// stable output.
func (s *Summary) TotalsLine() string {
	statuses := make([]string, 0, len(s.Totals))
	for st := range s.Totals {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)
	parts := make([]string, 0, len(statuses))
	for _, st := range statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", st, s.Totals[compare.Status(st)]))
	}
	return strings.Join(parts, ", ")
}
