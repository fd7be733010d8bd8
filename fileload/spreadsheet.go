package fileload

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/tablerecon/tablerecon/filetable"
)

// loadSpreadsheet reads the first sheet of a workbook. Comparing across
// sheets is out of scope; multi-sheet workbooks are inventoried by a
// separate tool before a batch run.
func loadSpreadsheet(
	ctx context.Context, logger zerolog.Logger, path string,
) (*filetable.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening workbook %s", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Err(err).Str("path", path).Msgf("error closing workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Newf("%s: workbook has no sheets", path)
	}
	if len(sheets) > 1 {
		logger.Warn().Str("path", path).Strs("sheets", sheets[1:]).
			Msgf("workbook has multiple sheets, comparing the first only")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "error reading sheet %q of %s", sheets[0], path)
	}
	return buildTable(path, records)
}
