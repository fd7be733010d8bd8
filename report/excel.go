package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelReporter writes a summary workbook with one row per file, plus a
// detail workbook per DIFF / DUPLICATE_KEYS file.
type ExcelReporter struct {
	dir    string
	logger zerolog.Logger
	files  []FileResult
}

func NewExcelReporter(dir string, logger zerolog.Logger) (*ExcelReporter, error) {
	if err := os.MkdirAll(filepath.Join(dir, "details"), 0755); err != nil {
		return nil, errors.Wrap(err, "error creating report directory")
	}
	return &ExcelReporter{dir: dir, logger: logger}, nil
}

func (r *ExcelReporter) Report(obj ReportableObject) {
	if fr, ok := obj.(FileResult); ok {
		r.files = append(r.files, fr)
	}
}

var summaryHeader = []interface{}{
	"File", "Status", "Rows A", "Rows B", "Cell Diffs",
	"Only In A", "Only In B", "Matching %", "Duration (s)", "Detail Report", "Notes",
}

func (r *ExcelReporter) Close() {
	f := excelize.NewFile()
	const sheet = "Batch Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		r.logger.Err(err).Msgf("error naming summary sheet")
		return
	}
	writeRow(r.logger, f, sheet, 1, summaryHeader)
	for i, fr := range r.files {
		row := []interface{}{
			fr.Path, string(fr.Status), 0, 0, 0, 0, 0,
			0.0, fr.Elapsed.Seconds(), fr.Detail, fr.Err,
		}
		if res := fr.Result; res != nil {
			row[2] = res.RowsA
			row[3] = res.RowsB
			row[4] = len(res.CellDiffs)
			row[5] = len(res.OnlyInA)
			row[6] = len(res.OnlyInB)
			row[7] = res.MatchingPercentage
		}
		writeRow(r.logger, f, sheet, i+2, row)

		if fr.Detail != "" && fr.Result != nil {
			r.writeDetail(fr)
		}
	}
	path := filepath.Join(r.dir, "summary_report.xlsx")
	if err := f.SaveAs(path); err != nil {
		r.logger.Err(err).Str("path", path).Msgf("error saving summary workbook")
	}
	if err := f.Close(); err != nil {
		r.logger.Err(err).Msgf("error closing summary workbook")
	}
}

func (r *ExcelReporter) writeDetail(fr FileResult) {
	res := fr.Result
	f := excelize.NewFile()
	first := true

	addSheet := func(name string) bool {
		if first {
			first = false
			if err := f.SetSheetName("Sheet1", name); err != nil {
				r.logger.Err(err).Str("sheet", name).Msgf("error naming detail sheet")
				return false
			}
			return true
		}
		if _, err := f.NewSheet(name); err != nil {
			r.logger.Err(err).Str("sheet", name).Msgf("error adding detail sheet")
			return false
		}
		return true
	}

	if len(res.CellDiffs) > 0 && addSheet("Cell Diffs") {
		writeRow(r.logger, f, "Cell Diffs", 1,
			[]interface{}{"Key/Row", "Column", "Value A", "Value B"})
		for i, d := range res.CellDiffs {
			id := d.Key
			if id == "" {
				id = fmt.Sprintf("row %d", d.Row)
			}
			writeRow(r.logger, f, "Cell Diffs", i+2,
				[]interface{}{id, d.Column, d.ValueA, d.ValueB})
		}
	}
	writeKeyList(r.logger, f, addSheet, "Only In A", res.OnlyInA)
	writeKeyList(r.logger, f, addSheet, "Only In B", res.OnlyInB)
	if res.Duplicates != nil {
		writeDuplicates(r.logger, f, addSheet, "Duplicates In A", res.Duplicates.A)
		writeDuplicates(r.logger, f, addSheet, "Duplicates In B", res.Duplicates.B)
	}

	if first {
		// Nothing was written; keep an empty workbook out of the output.
		_ = f.Close()
		return
	}
	path := filepath.Join(r.dir, "details", fr.Detail+".xlsx")
	if err := f.SaveAs(path); err != nil {
		r.logger.Err(err).Str("path", path).Msgf("error saving detail workbook")
	}
	if err := f.Close(); err != nil {
		r.logger.Err(err).Msgf("error closing detail workbook")
	}
}

func writeKeyList(
	logger zerolog.Logger, f *excelize.File, addSheet func(string) bool,
	sheet string, keys []string,
) {
	if len(keys) == 0 || !addSheet(sheet) {
		return
	}
	writeRow(logger, f, sheet, 1, []interface{}{"Key/Row"})
	for i, k := range keys {
		writeRow(logger, f, sheet, i+2, []interface{}{k})
	}
}

func writeDuplicates(
	logger zerolog.Logger, f *excelize.File, addSheet func(string) bool,
	sheet string, dupes map[string][]int,
) {
	if len(dupes) == 0 || !addSheet(sheet) {
		return
	}
	keys := make([]string, 0, len(dupes))
	for k := range dupes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeRow(logger, f, sheet, 1, []interface{}{"Key", "Row Indices"})
	for i, k := range keys {
		writeRow(logger, f, sheet, i+2, []interface{}{k, fmt.Sprint(dupes[k])})
	}
}

func writeRow(
	logger zerolog.Logger, f *excelize.File, sheet string, rowNum int, vals []interface{},
) {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		logger.Err(err).Msgf("error computing cell name")
		return
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		logger.Err(err).Str("sheet", sheet).Int("row", rowNum).
			Msgf("error writing row")
	}
}
