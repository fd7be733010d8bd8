// Package testutils holds helpers for building tables in tests.
package testutils

import (
	"strings"

	"github.com/tablerecon/tablerecon/filetable"
)

// Table builds a filetable.Table from a comma-separated header and
// comma-separated rows, e.g. Table("id,name", "1,a", "2,b").
func Table(header string, rows ...string) *filetable.Table {
	columns := strings.Split(header, ",")
	t := &filetable.Table{Columns: columns}
	for _, r := range rows {
		cells := strings.Split(r, ",")
		row := make(filetable.Row, len(columns))
		for i, col := range columns {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
