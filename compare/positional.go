package compare

import (
	"strconv"

	"github.com/tablerecon/tablerecon/filetable"
)

// comparePositional compares row i of A against row i of B over the
// usable columns. Trailing rows on the longer side are reported as
// exclusive row indices rather than per-cell diffs.
func comparePositional(res *Result, a, b *filetable.Table) {
	minLen := len(a.Rows)
	if len(b.Rows) < minLen {
		minLen = len(b.Rows)
	}
	for i := 0; i < minLen; i++ {
		rowA, rowB := a.Rows[i], b.Rows[i]
		for _, col := range res.Headers.Usable {
			res.ComparedCells++
			if rowA[col] == rowB[col] {
				continue
			}
			res.DifferingCells++
			res.CellDiffs = append(res.CellDiffs, CellDiff{
				Row:    i,
				Column: col,
				ValueA: rowA[col],
				ValueB: rowB[col],
			})
		}
	}
	for i := minLen; i < len(a.Rows); i++ {
		res.OnlyInA = append(res.OnlyInA, strconv.Itoa(i))
	}
	for i := minLen; i < len(b.Rows); i++ {
		res.OnlyInB = append(res.OnlyInB, strconv.Itoa(i))
	}
	// A trailing row counts against the match even when the usable
	// intersection is empty, so a 100% match always means no exclusive
	// rows.
	perRow := len(res.Headers.Usable)
	if perRow == 0 {
		perRow = 1
	}
	trailingCells := (len(res.OnlyInA) + len(res.OnlyInB)) * perRow
	res.ComparedCells += trailingCells
	res.DifferingCells += trailingCells
}
