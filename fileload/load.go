// Package fileload loads delimited text and spreadsheet files into
// filetable Tables, normalizing cell text on the way in.
package fileload

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/tablerecon/tablerecon/filetable"
)

// Load reads one tabular file. Spreadsheets are dispatched on
// extension; everything else is treated as delimited text with the
// given separator.
func Load(
	ctx context.Context, logger zerolog.Logger, path string, sep rune,
) (*filetable.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadSpreadsheet(ctx, logger, path)
	default:
		return loadDelimited(ctx, logger, path, sep)
	}
}

// buildTable pads short records with empty cells and rejects records
// longer than the header.
func buildTable(path string, records [][]string) (*filetable.Table, error) {
	if len(records) == 0 {
		return nil, errors.Newf("%s: empty file, no header row", path)
	}
	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		columns[i] = filetable.NormalizeCell(h)
	}
	t := &filetable.Table{
		Columns: columns,
		Rows:    make([]filetable.Row, 0, len(records)-1),
	}
	for n, rec := range records[1:] {
		if len(rec) > len(columns) {
			return nil, errors.Newf(
				"%s: row %d has %d fields, header has %d", path, n, len(rec), len(columns),
			)
		}
		row := make(filetable.Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = filetable.NormalizeCell(rec[i])
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
