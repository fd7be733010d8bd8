// Package compare implements the table comparison engine: header
// validation, duplicate key detection, and positional or key-based
// outer-join diffs over normalized cell text.
package compare

import (
	"time"

	"github.com/tablerecon/tablerecon/filetable"
	"github.com/tablerecon/tablerecon/rules"
)

// Run compares two loaded tables under the resolved configuration and
// returns the terminal result. An empty key list selects positional
// comparison; otherwise rows are outer-joined by key tuple.
func Run(a, b *filetable.Table, cfg rules.KeyConfig) *Result {
	start := time.Now()
	res := &Result{
		Status:  StatusValidating,
		Headers: validateHeaders(a, b, cfg.IgnoreColumns),
		RowsA:   len(a.Rows),
		RowsB:   len(b.Rows),
	}

	if len(cfg.Keys) > 0 {
		if missing := missingKeys(res.Headers.Usable, cfg.Keys); len(missing) > 0 {
			res.Status = StatusKeyNotFound
			res.Elapsed = time.Since(start)
			return res
		}

		res.Status = StatusCheckingDuplicates
		dupes := &DuplicateReport{
			A: detectDuplicates(a, cfg.Keys),
			B: detectDuplicates(b, cfg.Keys),
		}
		if !dupes.Empty() {
			// Duplicate keys make the join ambiguous; abort before any
			// row comparison rather than expanding a cartesian product.
			res.Status = StatusDuplicateKeys
			res.Duplicates = dupes
			res.Elapsed = time.Since(start)
			return res
		}

		res.Status = StatusComparing
		compareKeyed(res, a, b, cfg.Keys)
	} else {
		res.Status = StatusComparing
		comparePositional(res, a, b)
	}

	res.MatchingPercentage = matchingPercentage(res.ComparedCells, res.DifferingCells)
	if res.DifferingCells == 0 && len(res.OnlyInA) == 0 && len(res.OnlyInB) == 0 &&
		res.Headers.Clean() {
		res.Status = StatusOK
	} else {
		res.Status = StatusDiff
	}
	res.Elapsed = time.Since(start)
	return res
}

// missingKeys returns declared key columns absent from the usable
// intersection. Any hit is terminal KEY_NOT_FOUND.
func missingKeys(usable, keys []string) []string {
	set := make(map[string]struct{}, len(usable))
	for _, c := range usable {
		set[c] = struct{}{}
	}
	var missing []string
	for _, k := range keys {
		if _, ok := set[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// matchingPercentage treats "nothing to compare" as trivially matching.
func matchingPercentage(compared, differing int) float64 {
	if compared == 0 {
		return 100
	}
	return 100 * float64(compared-differing) / float64(compared)
}
