// Package filetable holds the in-memory representation of a loaded
// tabular file: an ordered header plus row records keyed by column name.
package filetable

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Row maps a column name to its normalized cell text.
type Row map[string]string

// Table is an ordered set of column names plus the rows underneath them.
// Tables are produced by fileload and treated as immutable afterwards.
type Table struct {
	Columns []string
	Rows    []Row
}

func New(columns []string, rows ...Row) *Table {
	return &Table{Columns: columns, Rows: rows}
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeCell canonicalizes cell text for comparison: NFC form, NBSP
// replaced by a regular space, whitespace runs collapsed, ends trimmed.
// Numeric formatting is preserved, so "80" and "80.0" stay different.
func NormalizeCell(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
