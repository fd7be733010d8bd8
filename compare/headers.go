package compare

import "github.com/tablerecon/tablerecon/filetable"

// validateHeaders computes the HeaderDiff for two tables. Mismatched
// names or counts are recorded but never halt processing on their own;
// escalation to KEY_NOT_FOUND happens in Run when a declared key is
// outside the usable intersection.
func validateHeaders(a, b *filetable.Table, ignore []string) HeaderDiff {
	ignored := make(map[string]struct{}, len(ignore))
	for _, c := range ignore {
		ignored[c] = struct{}{}
	}

	colsA := keptColumns(a, ignored)
	colsB := keptColumns(b, ignored)
	setB := make(map[string]struct{}, len(colsB))
	for _, c := range colsB {
		setB[c] = struct{}{}
	}
	setA := make(map[string]struct{}, len(colsA))
	for _, c := range colsA {
		setA[c] = struct{}{}
	}

	var hd HeaderDiff
	hd.CountMismatch = len(colsA) != len(colsB)
	for _, c := range colsA {
		if _, ok := setB[c]; ok {
			hd.Usable = append(hd.Usable, c)
		} else {
			hd.MissingInB = append(hd.MissingInB, c)
		}
	}
	for _, c := range colsB {
		if _, ok := setA[c]; !ok {
			hd.MissingInA = append(hd.MissingInA, c)
		}
	}
	return hd
}

func keptColumns(t *filetable.Table, ignored map[string]struct{}) []string {
	kept := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if _, ok := ignored[c]; ok {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
