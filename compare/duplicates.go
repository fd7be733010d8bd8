package compare

import (
	"strconv"
	"strings"

	"github.com/tablerecon/tablerecon/filetable"
)

// tupleSep joins key column values into a grouping key. A unit
// separator cannot appear in normalized cell text.
const tupleSep = "\x1f"

func keyTuple(r filetable.Row, keys []string) string {
	vals := make([]string, len(keys))
	for i, k := range keys {
		vals[i] = r[k]
	}
	return strings.Join(vals, tupleSep)
}

// keyDisplay renders a key tuple for reports: the bare value for a
// single key column, a parenthesized tuple otherwise. Values that could
// be mistaken for the tuple punctuation are quoted, so distinct tuples
// never render identically.
func keyDisplay(tuple string, numKeys int) string {
	if numKeys <= 1 {
		return tuple
	}
	parts := strings.Split(tuple, tupleSep)
	for i, p := range parts {
		if strings.ContainsAny(p, `,"`) {
			parts[i] = strconv.Quote(p)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// detectDuplicates groups rows by key tuple and returns every group
// with more than one member, keyed by display rendering. Missing or
// empty key fields still participate as literal (empty) values.
func detectDuplicates(t *filetable.Table, keys []string) map[string][]int {
	groups := make(map[string][]int, len(t.Rows))
	for i, row := range t.Rows {
		tuple := keyTuple(row, keys)
		groups[tuple] = append(groups[tuple], i)
	}
	var dupes map[string][]int
	for tuple, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		if dupes == nil {
			dupes = make(map[string][]int)
		}
		dupes[keyDisplay(tuple, len(keys))] = idxs
	}
	return dupes
}
