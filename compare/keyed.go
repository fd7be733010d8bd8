package compare

import (
	"sort"

	"github.com/tablerecon/tablerecon/filetable"
)

// compareKeyed outer-joins the two tables by key tuple and fills in the
// result. Runs after duplicate detection, so each tuple maps to exactly
// one row per side; row order of either input never affects the output.
func compareKeyed(res *Result, a, b *filetable.Table, keys []string) {
	idxA := keyIndex(a, keys)
	idxB := keyIndex(b, keys)

	var common []string
	for tuple := range idxA {
		if _, ok := idxB[tuple]; ok {
			common = append(common, tuple)
		} else {
			res.OnlyInA = append(res.OnlyInA, keyDisplay(tuple, len(keys)))
		}
	}
	for tuple := range idxB {
		if _, ok := idxA[tuple]; !ok {
			res.OnlyInB = append(res.OnlyInB, keyDisplay(tuple, len(keys)))
		}
	}
	sort.Strings(res.OnlyInA)
	sort.Strings(res.OnlyInB)
	sort.Strings(common)

	// Key columns are equal by construction on common rows; compare the
	// remaining usable columns.
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}
	compareCols := make([]string, 0, len(res.Headers.Usable))
	for _, c := range res.Headers.Usable {
		if _, ok := keySet[c]; !ok {
			compareCols = append(compareCols, c)
		}
	}

	for _, tuple := range common {
		rowA := a.Rows[idxA[tuple]]
		rowB := b.Rows[idxB[tuple]]
		for _, col := range compareCols {
			res.ComparedCells++
			if rowA[col] == rowB[col] {
				continue
			}
			res.DifferingCells++
			res.CellDiffs = append(res.CellDiffs, CellDiff{
				Key:    keyDisplay(tuple, len(keys)),
				Row:    -1,
				Column: col,
				ValueA: rowA[col],
				ValueB: rowB[col],
			})
		}
	}

	// Exclusive rows have no counterpart cell to compare against; every
	// usable column of theirs counts as a differing cell so the match
	// percentage reflects them.
	exclusiveCells := (len(res.OnlyInA) + len(res.OnlyInB)) * len(res.Headers.Usable)
	res.ComparedCells += exclusiveCells
	res.DifferingCells += exclusiveCells
}

func keyIndex(t *filetable.Table, keys []string) map[string]int {
	idx := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		idx[keyTuple(row, keys)] = i
	}
	return idx
}
