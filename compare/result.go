package compare

import "time"

// Status tracks a file pair through the comparison state machine. Only
// the terminal statuses are externally observable in batch summaries.
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusLoading            Status = "LOADING"
	StatusValidating         Status = "VALIDATING"
	StatusCheckingDuplicates Status = "CHECKING_DUPLICATES"
	StatusComparing          Status = "COMPARING"

	StatusOK            Status = "OK"
	StatusDiff          Status = "DIFF"
	StatusError         Status = "ERROR"
	StatusDuplicateKeys Status = "DUPLICATE_KEYS"
	StatusKeyNotFound   Status = "KEY_NOT_FOUND"
	StatusMissingInB    Status = "MISSING_IN_B"
	StatusMissingInA    Status = "MISSING_IN_A"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusOK, StatusDiff, StatusError, StatusDuplicateKeys,
		StatusKeyNotFound, StatusMissingInB, StatusMissingInA:
		return true
	}
	return false
}

// HeaderDiff records how the two headers relate. Computed once per
// comparison, after ignored columns are removed from both sides.
type HeaderDiff struct {
	// MissingInB are columns present in A but absent from B.
	MissingInB []string
	// MissingInA are columns present in B but absent from A.
	MissingInA []string
	// CountMismatch is set when the two sides have a different number
	// of non-ignored columns.
	CountMismatch bool
	// Usable is the header intersection minus ignored columns, in A's
	// column order. Only these columns are eligible for cell comparison.
	Usable []string
}

// Clean reports whether the headers line up exactly.
func (h HeaderDiff) Clean() bool {
	return !h.CountMismatch && len(h.MissingInA) == 0 && len(h.MissingInB) == 0
}

// DuplicateReport lists, per side, every key tuple shared by more than
// one row, with the 0-based data-row indices holding it.
type DuplicateReport struct {
	A map[string][]int
	B map[string][]int
}

func (d *DuplicateReport) Empty() bool {
	return d == nil || (len(d.A) == 0 && len(d.B) == 0)
}

// CellDiff identifies one differing cell. Row identity is the key tuple
// in keyed mode and the 0-based row index in positional mode.
type CellDiff struct {
	Key    string
	Row    int
	Column string
	ValueA string
	ValueB string
}

// Result is the terminal outcome of one file-pair comparison. Immutable
// once returned.
type Result struct {
	Status     Status
	Headers    HeaderDiff
	Duplicates *DuplicateReport
	CellDiffs  []CellDiff

	// OnlyInA / OnlyInB hold sorted key renderings in keyed mode and
	// trailing row indices in positional mode.
	OnlyInA []string
	OnlyInB []string

	RowsA          int
	RowsB          int
	ComparedCells  int
	DifferingCells int

	// MatchingPercentage is the share of compared cells that are equal,
	// in [0, 100]. Cells of exclusive or trailing rows count as
	// differing, so 100 means no diffs and no exclusive rows.
	MatchingPercentage float64

	Elapsed time.Duration
}
